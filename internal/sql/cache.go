package sql

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Cache memoizes Parse results keyed by the trimmed statement text.
// Parsing is deterministic, so a cached Statement is identical to a fresh
// parse. Cached statements are shared and must not be modified.
// Failed parses are not cached.
type Cache struct {
	entries *lru.Cache
}

// NewCache returns a cache holding at most size statements.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}
	return &Cache{entries: c}, nil
}

// Parse returns the cached statement for query or parses and caches it.
func (c *Cache) Parse(query string) (Statement, error) {
	key := strings.TrimSpace(query)
	if v, ok := c.entries.Get(key); ok {
		return v.(Statement), nil
	}
	stmt, err := Parse(key)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, stmt)
	return stmt, nil
}

// Len returns the number of cached statements.
func (c *Cache) Len() int { return c.entries.Len() }
