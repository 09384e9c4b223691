package avl

import "treeDB/internal/sql"

// RowID identifies a row by its position in the table's row list.
type RowID = int

// Meta carries basic information about an index.
type Meta struct {
	TableName string // e.g. "users"
	Column    string // e.g. "id"
}

// Index is the AVL index of one column. Keys are folded with
// sql.Value.Fold, so string columns are indexed case-insensitively.
type Index struct {
	Meta
	tree *Tree[sql.Value, RowID]
}

// NewIndex returns an empty index for meta.
func NewIndex(meta Meta) *Index {
	return &Index{Meta: meta, tree: New[sql.Value, RowID](sql.Compare)}
}

// Insert records that row rid holds key.
func (idx *Index) Insert(key sql.Value, rid RowID) {
	idx.tree.Insert(key.Fold(), rid)
}

// Equal returns the rows whose key equals key.
func (idx *Index) Equal(key sql.Value) []RowID { return idx.tree.Equal(key.Fold()) }

// LessThan returns the rows whose key is below key.
func (idx *Index) LessThan(key sql.Value) []RowID { return idx.tree.LessThan(key.Fold()) }

// GreaterThan returns the rows whose key is above key.
func (idx *Index) GreaterThan(key sql.Value) []RowID { return idx.tree.GreaterThan(key.Fold()) }

// Len returns the number of indexed rows.
func (idx *Index) Len() int { return idx.tree.Len() }

// Tree exposes the underlying tree for inspection.
func (idx *Index) Tree() *Tree[sql.Value, RowID] { return idx.tree }
