package engine

import (
	"fmt"

	"treeDB/internal/sql"
)

// Execute takes a parsed SQL Statement and executes it using the engine.
// Only SELECT returns columns and rows. EXIT is a no-op here; ending the
// session is up to the caller.
func (e *DBEngine) Execute(stmt sql.Statement) ([]string, []sql.Row, error) {
	if !e.started {
		return nil, nil, fmt.Errorf("engine not started")
	}

	cols, rows, err := e.execute(stmt)
	if err != nil {
		log.Noticef("statement failed: %v", err)
		return nil, nil, err
	}
	return cols, rows, nil
}

func (e *DBEngine) execute(stmt sql.Statement) ([]string, []sql.Row, error) {
	switch s := stmt.(type) {
	case *sql.CreateTableStmt:
		return nil, nil, e.CreateTable(s.TableName, s.Columns)

	case *sql.InsertStmt:
		return nil, nil, e.InsertRow(s.TableName, s.Values)

	case *sql.SelectStmt:
		return e.Select(s.TableName, s.Where)

	case *sql.LoadStmt:
		return nil, nil, e.Load(s.Filename)

	case *sql.SaveStmt:
		return nil, nil, e.Save(s.Filename)

	case *sql.ExitStmt:
		return nil, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}
