package memstore

import (
	"errors"
	"slices"
	"testing"

	"treeDB/internal/sql"
	"treeDB/internal/storage"
)

func usersStore(t *testing.T) storage.Engine {
	t.Helper()
	store := New()
	err := store.CreateTable("users", []sql.Column{
		{Name: "id", Indexed: true},
		{Name: "name"},
	})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	return store
}

func rowsOf(t *testing.T, store storage.Engine, name string) []sql.Row {
	t.Helper()
	var rows []sql.Row
	err := store.View(name, func(tbl storage.Table) error {
		rows = tbl.Rows()
		return nil
	})
	if err != nil {
		t.Fatalf("View(%s) failed: %v", name, err)
	}
	return rows
}

// TestMemstoreCreateInsertView verifies that we can create a table,
// insert rows, and read them back in insertion order.
func TestMemstoreCreateInsertView(t *testing.T) {
	store := usersStore(t)

	row1 := sql.Row{sql.IntValue(1), sql.StringValue("Alice")}
	row2 := sql.Row{sql.IntValue(2), sql.StringValue("Bob")}

	if err := store.Insert("users", row1); err != nil {
		t.Fatalf("Insert row1 failed: %v", err)
	}
	if err := store.Insert("users", row2); err != nil {
		t.Fatalf("Insert row2 failed: %v", err)
	}

	rows := rowsOf(t, store, "users")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Equal(row1) || !rows[1].Equal(row2) {
		t.Fatalf("unexpected rows: %v", rows)
	}

	// The stored row must not alias the caller's slice.
	row1[1] = sql.StringValue("Mallory")
	if rows := rowsOf(t, store, "users"); rows[0][1].S != "Alice" {
		t.Fatalf("stored row changed through caller slice: %v", rows[0])
	}

	if !store.Exists("users") || store.Exists("orders") {
		t.Fatalf("unexpected Exists results")
	}
}

func TestMemstoreFirstRowFixesTypes(t *testing.T) {
	store := usersStore(t)

	cols, err := store.TableSchema("users")
	if err != nil {
		t.Fatalf("TableSchema failed: %v", err)
	}
	for _, c := range cols {
		if c.Type != sql.TypeUnknown {
			t.Fatalf("column %s: expected unknown type before first insert, got %v", c.Name, c.Type)
		}
	}

	if err := store.Insert("users", sql.Row{sql.IntValue(1), sql.StringValue("Alice")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	cols, _ = store.TableSchema("users")
	if cols[0].Type != sql.TypeInt || cols[1].Type != sql.TypeString {
		t.Fatalf("unexpected types after first insert: %+v", cols)
	}
	if !cols[0].Indexed || cols[1].Indexed {
		t.Fatalf("indexed flags lost: %+v", cols)
	}
}

func TestMemstoreRejectedInsertLeavesTableUnchanged(t *testing.T) {
	store := usersStore(t)
	if err := store.Insert("users", sql.Row{sql.IntValue(1), sql.StringValue("Alice")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	tests := []struct {
		row  sql.Row
		want error
	}{
		{sql.Row{sql.IntValue(2)}, storage.ErrColumnCount},
		{sql.Row{sql.IntValue(2), sql.StringValue("b"), sql.IntValue(3)}, storage.ErrColumnCount},
		{sql.Row{sql.StringValue("2"), sql.StringValue("b")}, storage.ErrTypeMismatch},
		{sql.Row{sql.IntValue(2), sql.IntValue(3)}, storage.ErrTypeMismatch},
	}
	for _, tc := range tests {
		err := store.Insert("users", tc.row)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Insert %v: expected %v, got %v", tc.row, tc.want, err)
		}
		if kind, ok := sql.KindOf(err); !ok || kind != sql.KindSemantic {
			t.Fatalf("Insert %v: expected semantic error, got %v", tc.row, err)
		}
	}

	if rows := rowsOf(t, store, "users"); len(rows) != 1 {
		t.Fatalf("expected 1 row after rejected inserts, got %d", len(rows))
	}
	err := store.View("users", func(tbl storage.Table) error {
		idx, ok := tbl.Index("id")
		if !ok {
			t.Fatalf("expected index on id")
		}
		if got := idx.GreaterThan(sql.IntValue(-100)); len(got) != 1 {
			t.Fatalf("index should hold 1 row, got %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
}

func TestMemstoreCreateTableErrors(t *testing.T) {
	store := usersStore(t)

	err := store.CreateTable("users", []sql.Column{{Name: "x"}})
	if !errors.Is(err, storage.ErrTableExists) {
		t.Fatalf("expected ErrTableExists, got %v", err)
	}

	err = store.CreateTable("dup", []sql.Column{{Name: "a"}, {Name: "a", Indexed: true}})
	if !errors.Is(err, storage.ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
	if store.Exists("dup") {
		t.Fatalf("table with duplicate columns must not be created")
	}

	err = store.CreateTable("empty", nil)
	if !errors.Is(err, storage.ErrColumnCount) {
		t.Fatalf("expected ErrColumnCount, got %v", err)
	}
}

func TestMemstoreUnknownTable(t *testing.T) {
	store := New()

	if err := store.Insert("nope", sql.Row{sql.IntValue(1)}); !errors.Is(err, storage.ErrTableNotFound) {
		t.Fatalf("Insert: expected ErrTableNotFound, got %v", err)
	}
	err := store.View("nope", func(storage.Table) error {
		t.Fatalf("callback must not run for a missing table")
		return nil
	})
	if !errors.Is(err, storage.ErrTableNotFound) {
		t.Fatalf("View: expected ErrTableNotFound, got %v", err)
	}
	if _, err := store.TableSchema("nope"); !errors.Is(err, storage.ErrTableNotFound) {
		t.Fatalf("TableSchema: expected ErrTableNotFound, got %v", err)
	}
}

func TestMemstoreIndexFollowsInserts(t *testing.T) {
	store := New()
	err := store.CreateTable("people", []sql.Column{
		{Name: "name", Indexed: true},
		{Name: "age"},
	})
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	for _, r := range []sql.Row{
		{sql.StringValue("Alice"), sql.IntValue(30)},
		{sql.StringValue("bob"), sql.IntValue(25)},
		{sql.StringValue("ALICE"), sql.IntValue(41)},
	} {
		if err := store.Insert("people", r); err != nil {
			t.Fatalf("Insert %v failed: %v", r, err)
		}
	}

	err = store.View("people", func(tbl storage.Table) error {
		if _, ok := tbl.Index("age"); ok {
			t.Fatalf("age must not be indexed")
		}
		idx, ok := tbl.Index("name")
		if !ok {
			t.Fatalf("expected index on name")
		}
		if got := idx.Equal(sql.StringValue("alice")); !slices.Equal(got, []int{0, 2}) {
			t.Fatalf("expected row ids [0 2], got %v", got)
		}
		if got := idx.LessThan(sql.StringValue("b")); !slices.Equal(got, []int{0, 2}) {
			t.Fatalf("expected row ids [0 2] below 'b', got %v", got)
		}
		// Stored rows keep their original case.
		if tbl.Rows()[2][0].S != "ALICE" {
			t.Fatalf("row value was folded: %v", tbl.Rows()[2])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
}

func TestMemstoreListTablesSorted(t *testing.T) {
	store := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.CreateTable(name, []sql.Column{{Name: "c"}}); err != nil {
			t.Fatalf("CreateTable %s failed: %v", name, err)
		}
	}
	names, err := store.ListTables()
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if !slices.Equal(names, []string{"alpha", "mid", "zeta"}) {
		t.Fatalf("unexpected table names: %v", names)
	}
}

func TestMemstoreSnapshotRestore(t *testing.T) {
	store := usersStore(t)
	for _, r := range []sql.Row{
		{sql.IntValue(3), sql.StringValue("Carol")},
		{sql.IntValue(1), sql.StringValue("Alice")},
	} {
		if err := store.Insert("users", r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.CreateTable("empty", []sql.Column{{Name: "x", Indexed: true}}); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	snap := store.Snapshot()
	if len(snap) != 2 || snap[0].Name != "empty" || snap[1].Name != "users" {
		t.Fatalf("unexpected snapshot tables: %+v", snap)
	}

	// The snapshot is a deep copy.
	snap[1].Rows[0][1] = sql.StringValue("changed")
	if rows := rowsOf(t, store, "users"); rows[0][1].S != "Carol" {
		t.Fatalf("snapshot aliases stored rows")
	}
	snap[1].Rows[0][1] = sql.StringValue("Carol")

	restored := New()
	if err := restored.CreateTable("stale", []sql.Column{{Name: "a"}}); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Exists("stale") {
		t.Fatalf("Restore must replace existing tables")
	}

	rows := rowsOf(t, restored, "users")
	if len(rows) != 2 || rows[0][0].I64 != 3 || rows[1][0].I64 != 1 {
		t.Fatalf("unexpected restored rows: %v", rows)
	}
	cols, _ := restored.TableSchema("empty")
	if cols[0].Type != sql.TypeUnknown || !cols[0].Indexed {
		t.Fatalf("unexpected restored schema: %+v", cols)
	}

	err := restored.View("users", func(tbl storage.Table) error {
		idx, ok := tbl.Index("id")
		if !ok {
			t.Fatalf("index not rebuilt")
		}
		if got := idx.Equal(sql.IntValue(1)); !slices.Equal(got, []int{1}) {
			t.Fatalf("expected row id [1], got %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
}

func TestMemstoreRestoreFailureKeepsState(t *testing.T) {
	store := usersStore(t)
	if err := store.Insert("users", sql.Row{sql.IntValue(1), sql.StringValue("Alice")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	bad := []storage.TableSnapshot{
		{Name: "other", Columns: []sql.Column{{Name: "a"}}},
		{
			Name:    "broken",
			Columns: []sql.Column{{Name: "n", Type: sql.TypeInt}},
			Rows:    []sql.Row{{sql.StringValue("not a number")}},
		},
	}
	if err := store.Restore(bad); !errors.Is(err, storage.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	if store.Exists("other") || store.Exists("broken") {
		t.Fatalf("failed Restore must not install tables")
	}
	if rows := rowsOf(t, store, "users"); len(rows) != 1 {
		t.Fatalf("expected original table intact, got %v", rows)
	}
}

func TestMemstoreIndexesTrackedByManager(t *testing.T) {
	store := usersStore(t)
	eng := store.(*memEngine)
	if n := eng.indexes.Len(); n != 1 {
		t.Fatalf("expected 1 index, got %d", n)
	}

	if err := store.CreateTable("people", []sql.Column{{Name: "name", Indexed: true}, {Name: "age", Indexed: true}}); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := store.CreateTable("people", []sql.Column{{Name: "other", Indexed: true}}); err == nil {
		t.Fatalf("expected duplicate table error")
	}
	if n := eng.indexes.Len(); n != 3 {
		t.Fatalf("expected 3 indexes, got %d", n)
	}
	if _, ok := eng.indexes.Index("people", "other"); ok {
		t.Fatalf("failed CREATE must not leave an index behind")
	}

	if err := store.Insert("users", sql.Row{sql.IntValue(7), sql.StringValue("Gina")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	idx, ok := eng.indexes.Index("users", "id")
	if !ok || idx.Len() != 1 {
		t.Fatalf("expected the users.id index to hold the inserted row")
	}

	snap := store.Snapshot()
	if err := store.Restore(snap[1:]); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := eng.indexes.Len(); n != 1 {
		t.Fatalf("expected only the users.id index after Restore, got %d", n)
	}
	if idx, ok := eng.indexes.Index("users", "id"); !ok || idx.Len() != 1 {
		t.Fatalf("users.id index not rebuilt on Restore")
	}
}
