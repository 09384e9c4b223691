package engine

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoFile is returned by SAVE when no file name is known.
var ErrNoFile = errors.New("no file name given")

// Load replaces the database with the snapshot in name. A missing file
// yields an empty database. On any other error the current tables stay.
func (e *DBEngine) Load(name string) error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	if e.files == nil {
		return fmt.Errorf("LOAD: persistence is not configured")
	}

	tables, err := e.files.Load(name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("LOAD %s: %w", name, err)
		}
		log.Noticef("%s does not exist, starting with an empty database", e.files.Path(name))
		tables = nil
	}

	if err := e.store.Restore(tables); err != nil {
		return fmt.Errorf("LOAD %s: %w", name, err)
	}
	e.currentFile = name
	log.Infof("LOAD %s: %d tables", name, len(tables))
	return nil
}

// Save writes the database to name, or to the current file when name is
// empty.
func (e *DBEngine) Save(name string) error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	if e.files == nil {
		return fmt.Errorf("SAVE: persistence is not configured")
	}
	if name == "" {
		name = e.currentFile
	}
	if name == "" {
		return fmt.Errorf("SAVE: %w", ErrNoFile)
	}

	tables := e.store.Snapshot()
	if err := e.files.Save(name, tables); err != nil {
		return fmt.Errorf("SAVE %s: %w", name, err)
	}
	e.currentFile = name
	log.Infof("SAVE %s: %d tables", name, len(tables))
	return nil
}
