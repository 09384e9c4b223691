package avl

import "sync"

// Manager keeps the indexes of a database, one per (table, column).
type Manager struct {
	mu   sync.Mutex
	open map[string]*Index // key: "table.column"
}

// NewManager creates an empty index manager.
func NewManager() *Manager {
	return &Manager{
		open: make(map[string]*Index),
	}
}

// key for open map
func indexKey(table, col string) string {
	return table + "." + col
}

// OpenOrCreateIndex returns the index for (table, col), creating an empty
// one if needed.
func (m *Manager) OpenOrCreateIndex(table, col string) *Index {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := indexKey(table, col)
	if idx, ok := m.open[k]; ok {
		return idx
	}

	idx := NewIndex(Meta{
		TableName: table,
		Column:    col,
	})
	m.open[k] = idx
	return idx
}

// Index returns the index for (table, col) if one exists.
func (m *Manager) Index(table, col string) (*Index, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.open[indexKey(table, col)]
	return idx, ok
}

// Len returns the number of indexes.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// CloseAll drops every index.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.open {
		delete(m.open, k)
	}
}
