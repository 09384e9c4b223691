package memstore

import (
	"sort"
	"sync"

	"github.com/op/go-logging"

	"treeDB/internal/index/avl"
	"treeDB/internal/sql"
	"treeDB/internal/storage"
)

var log = logging.MustGetLogger("memstore")

type table struct {
	name    string
	cols    []sql.Column
	rows    []sql.Row
	indexes *avl.Manager // shared by every table of one engine state
}

func (t *table) Name() string { return t.name }

func (t *table) Columns() []sql.Column {
	out := make([]sql.Column, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *table) Rows() []sql.Row { return t.rows }

func (t *table) Index(column string) (storage.Index, bool) {
	idx, ok := t.indexes.Index(t.name, column)
	if !ok {
		return nil, false
	}
	return idx, true
}

type memEngine struct {
	mu      sync.RWMutex
	tables  map[string]*table
	indexes *avl.Manager
}

// New creates a new in-memory storage engine.
func New() storage.Engine {
	return &memEngine{
		tables:  make(map[string]*table),
		indexes: avl.NewManager(),
	}
}

// CreateTable creates an empty table. Column types are left unknown until
// the first insert; indexed columns get an empty AVL index.
func (e *memEngine) CreateTable(name string, cols []sql.Column) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := newTable(e.indexes, e.tables, name, cols)
	if err != nil {
		return err
	}
	e.tables[name] = t
	log.Debugf("created table %s with %d columns", name, len(cols))
	return nil
}

func newTable(m *avl.Manager, tables map[string]*table, name string, cols []sql.Column) (*table, error) {
	if _, exists := tables[name]; exists {
		return nil, sql.Semantic(storage.ErrTableExists, "%s", name)
	}
	if len(cols) == 0 {
		return nil, sql.Semantic(storage.ErrColumnCount, "table %s needs at least one column", name)
	}

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, sql.Semantic(storage.ErrDuplicateColumn, "%s in table %s", c.Name, name)
		}
		seen[c.Name] = true
	}

	t := &table{
		name:    name,
		cols:    make([]sql.Column, len(cols)),
		rows:    make([]sql.Row, 0),
		indexes: m,
	}
	copy(t.cols, cols)
	for _, c := range t.cols {
		if c.Indexed {
			m.OpenOrCreateIndex(name, c.Name)
		}
	}
	return t, nil
}

// Insert adds a row into a table. The row is checked against the schema
// before anything is changed.
func (e *memEngine) Insert(tableName string, row sql.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tables[tableName]
	if !ok {
		return sql.Semantic(storage.ErrTableNotFound, "%s", tableName)
	}
	if err := t.insert(row); err != nil {
		return err
	}
	log.Debugf("inserted row %d into %s", len(t.rows)-1, tableName)
	return nil
}

func (t *table) insert(row sql.Row) error {
	if len(row) != len(t.cols) {
		return sql.Semantic(storage.ErrColumnCount,
			"table %s has %d columns, got %d values", t.name, len(t.cols), len(row))
	}

	// Type check each value against the column definition.
	for i, col := range t.cols {
		val := row[i]
		if val.Type == sql.TypeUnknown {
			return sql.Semantic(storage.ErrTypeMismatch, "no value for column %s", col.Name)
		}
		if col.Type != sql.TypeUnknown && val.Type != col.Type {
			return sql.Semantic(storage.ErrTypeMismatch,
				"column %s is %v, got %v %s", col.Name, col.Type, val.Type, val)
		}
	}

	// The first row fixes the column types.
	for i := range t.cols {
		if t.cols[i].Type == sql.TypeUnknown {
			t.cols[i].Type = row[i].Type
		}
	}

	rowCopy := make(sql.Row, len(row))
	copy(rowCopy, row)
	t.rows = append(t.rows, rowCopy)

	rid := len(t.rows) - 1
	for i, col := range t.cols {
		if idx, ok := t.indexes.Index(t.name, col.Name); ok {
			idx.Insert(rowCopy[i], rid)
		}
	}
	return nil
}

func (e *memEngine) Exists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.tables[name]
	return ok
}

func (e *memEngine) View(name string, fn func(storage.Table) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.tables[name]
	if !ok {
		return sql.Semantic(storage.ErrTableNotFound, "%s", name)
	}
	return fn(t)
}

func (e *memEngine) ListTables() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *memEngine) TableSchema(name string) ([]sql.Column, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.tables[name]
	if !ok {
		return nil, sql.Semantic(storage.ErrTableNotFound, "%s", name)
	}
	return t.Columns(), nil
}

// Snapshot returns a deep copy of every table.
func (e *memEngine) Snapshot() []storage.TableSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]storage.TableSnapshot, 0, len(names))
	for _, name := range names {
		t := e.tables[name]
		rows := make([]sql.Row, len(t.rows))
		for i, r := range t.rows {
			rowCopy := make(sql.Row, len(r))
			copy(rowCopy, r)
			rows[i] = rowCopy
		}
		out = append(out, storage.TableSnapshot{
			Name:    t.name,
			Columns: t.Columns(),
			Rows:    rows,
		})
	}
	return out
}

// Restore rebuilds all tables and indexes from snapshots. The new state is
// built aside and swapped in only when every row was accepted.
func (e *memEngine) Restore(snaps []storage.TableSnapshot) error {
	m := avl.NewManager()
	tables := make(map[string]*table, len(snaps))

	for _, s := range snaps {
		cols := make([]sql.Column, len(s.Columns))
		for i, c := range s.Columns {
			cols[i] = sql.Column{Name: c.Name, Indexed: c.Indexed}
		}
		t, err := newTable(m, tables, s.Name, cols)
		if err != nil {
			return err
		}
		for i, c := range s.Columns {
			t.cols[i].Type = c.Type
		}
		for _, r := range s.Rows {
			if err := t.insert(r); err != nil {
				return err
			}
		}
		tables[s.Name] = t
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.indexes.CloseAll()
	e.tables = tables
	e.indexes = m
	log.Debugf("restored %d tables with %d indexes", len(tables), m.Len())
	return nil
}
