package engine

import (
	"fmt"

	"github.com/op/go-logging"

	"treeDB/internal/sql"
	"treeDB/internal/storage"
	"treeDB/internal/storage/filestore"
)

var log = logging.MustGetLogger("engine")

// Config holds the optional collaborators of a DBEngine.
type Config struct {
	// Files is used by LOAD and SAVE. When nil those statements fail.
	Files *filestore.FileStore

	// DefaultFile is used by SAVE without a file name until a LOAD
	// names another file.
	DefaultFile string

	// ParseCacheSize is the number of parsed statements kept by Query.
	// Zero disables the cache.
	ParseCacheSize int
}

// DBEngine is the main database engine struct. It owns the storage engine
// for its whole lifetime and runs one statement at a time.
type DBEngine struct {
	started     bool
	store       storage.Engine
	files       *filestore.FileStore
	currentFile string
	cache       *sql.Cache
}

// New creates a new DBEngine instance on top of store.
func New(store storage.Engine, cfg Config) *DBEngine {
	e := &DBEngine{
		started:     false,
		store:       store,
		files:       cfg.Files,
		currentFile: cfg.DefaultFile,
	}
	if cfg.ParseCacheSize > 0 {
		c, err := sql.NewCache(cfg.ParseCacheSize)
		if err != nil {
			log.Warningf("parse cache disabled: %v", err)
		} else {
			e.cache = c
		}
	}
	return e
}

// Start runs initialization steps for the engine.
func (e *DBEngine) Start() error {
	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	log.Debugf("engine started")
	return nil
}

// CurrentFile returns the file a bare SAVE writes to.
func (e *DBEngine) CurrentFile() string { return e.currentFile }

// Parse parses query, using the parse cache when enabled.
func (e *DBEngine) Parse(query string) (sql.Statement, error) {
	if e.cache != nil {
		return e.cache.Parse(query)
	}
	return sql.Parse(query)
}

// Query parses and executes one statement.
func (e *DBEngine) Query(query string) ([]string, []sql.Row, error) {
	stmt, err := e.Parse(query)
	if err != nil {
		log.Noticef("parse failed: %v", err)
		return nil, nil, err
	}
	return e.Execute(stmt)
}

// ListTables returns the names of all tables in the storage engine.
func (e *DBEngine) ListTables() ([]string, error) {
	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	return e.store.ListTables()
}

// TableSchema returns the column definitions for a table.
func (e *DBEngine) TableSchema(name string) ([]sql.Column, error) {
	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	return e.store.TableSchema(name)
}
