package engine

import (
	"fmt"

	"treeDB/internal/sql"
)

// CreateTable creates a new table in the underlying storage engine.
func (e *DBEngine) CreateTable(name string, cols []sql.Column) error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	if err := e.store.CreateTable(name, cols); err != nil {
		return err
	}
	log.Debugf("CREATE %s (%d columns)", name, len(cols))
	return nil
}
