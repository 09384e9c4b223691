package engine

import (
	"fmt"

	"treeDB/internal/sql"
	"treeDB/internal/storage"
)

// Select returns the column names of the table and the rows matching where,
// in insertion order. A nil where selects every row.
func (e *DBEngine) Select(tableName string, where sql.Condition) ([]string, []sql.Row, error) {
	if !e.started {
		return nil, nil, fmt.Errorf("engine not started")
	}

	var (
		cols []string
		rows []sql.Row
	)
	err := e.store.View(tableName, func(t storage.Table) error {
		for _, c := range t.Columns() {
			cols = append(cols, c.Name)
		}
		var err error
		rows, err = Filter(t, where)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if where != nil {
		log.Debugf("SELECT %s WHERE %s: %d rows", tableName, where, len(rows))
	} else {
		log.Debugf("SELECT %s: %d rows", tableName, len(rows))
	}
	return cols, rows, nil
}

// SelectAll returns all rows from the given table.
func (e *DBEngine) SelectAll(tableName string) ([]string, []sql.Row, error) {
	return e.Select(tableName, nil)
}
