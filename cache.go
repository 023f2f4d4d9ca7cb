package seekql

import "sync"

// StatementCache caches rendered SQL text keyed by statement shape.
// Users may implement this interface with their preferred caching
// solution; the zero-dependency in-memory implementation below suits
// most processes, since the universe of statement shapes is bounded by
// the application's query surface.
//
// Two specs share a cache entry only when they would render identical
// SQL: the key covers dialect, operation, table, column list, filter
// shape (including IN arity), sort order, and pagination shape. Bound
// arguments are never cached.
type StatementCache interface {
	// Get retrieves a rendered statement. The second return value
	// reports whether the key was present.
	Get(key string) (string, bool)

	// Add stores a rendered statement. Implementations may evict.
	Add(key, sql string)
}

// NewStatementCache returns an in-memory StatementCache safe for
// concurrent use. Entries are never evicted.
func NewStatementCache() StatementCache {
	return &memoryCache{entries: make(map[string]string)}
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func (c *memoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	sql, ok := c.entries[key]
	c.mu.RUnlock()
	return sql, ok
}

func (c *memoryCache) Add(key, sql string) {
	c.mu.Lock()
	c.entries[key] = sql
	c.mu.Unlock()
}

// nopCache disables statement caching.
type nopCache struct{}

func (nopCache) Get(string) (string, bool) { return "", false }
func (nopCache) Add(string, string)        {}
