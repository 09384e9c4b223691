package storage

import (
	"errors"

	"treeDB/internal/sql"
)

// Semantic failures reported by storage engines. They are returned wrapped
// in a *sql.Error of kind sql.KindSemantic; test with errors.Is.
var (
	ErrTableExists     = errors.New("table already exists")
	ErrTableNotFound   = errors.New("table does not exist")
	ErrColumnCount     = errors.New("column count mismatch")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Index answers comparisons against one column with row ids.
type Index interface {
	Equal(key sql.Value) []int
	LessThan(key sql.Value) []int
	GreaterThan(key sql.Value) []int
}

// Table is a read-only view of one table. Views are only valid inside the
// callback passed to Engine.View.
type Table interface {
	Name() string

	// Columns returns the schema. Column types stay sql.TypeUnknown until
	// the first row is inserted.
	Columns() []sql.Column

	// Rows returns all rows in insertion order. The row id of a row is its
	// position in this slice. Callers must not modify the rows.
	Rows() []sql.Row

	// Index returns the index of column, if the column is indexed.
	Index(column string) (Index, bool)
}

// TableSnapshot is a self-contained copy of a table used for persistence.
// Indexes are not part of it; they are rebuilt from the rows.
type TableSnapshot struct {
	Name    string
	Columns []sql.Column
	Rows    []sql.Row
}

// Engine stores tables and keeps their indexes up to date.
//
// Different implementations are possible:
//   - in-memory (memstore)
//   - anything else that can answer the same questions
type Engine interface {
	// CreateTable creates a new empty table with the given columns.
	CreateTable(name string, cols []sql.Column) error

	// Insert appends row to the table and adds it to every index of the
	// table. Either all of that happens or, on error, none of it.
	Insert(tableName string, row sql.Row) error

	// Exists reports whether a table is present.
	Exists(name string) bool

	// View calls fn with a read-only view of the table. The table cannot
	// change while fn runs.
	View(name string, fn func(Table) error) error

	// ListTables returns table names in ascending order.
	ListTables() ([]string, error)

	// TableSchema returns the column definitions for a table.
	TableSchema(name string) ([]sql.Column, error)

	// Snapshot returns a deep copy of all tables, ordered by name.
	Snapshot() []TableSnapshot

	// Restore replaces every table with tables. On error the current
	// contents are left untouched.
	Restore(tables []TableSnapshot) error
}
