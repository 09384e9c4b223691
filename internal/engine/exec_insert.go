package engine

import (
	"fmt"

	"treeDB/internal/sql"
)

// InsertRow appends a row to the given table. The storage engine checks the
// row against the schema and maintains the indexes in the same step.
func (e *DBEngine) InsertRow(tableName string, row sql.Row) error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	if err := e.store.Insert(tableName, row); err != nil {
		return err
	}
	log.Debugf("INSERT %s %s", tableName, row)
	return nil
}
