package cache

import (
	"strings"
	"sync"
	"time"
)

// entry wraps a cached value with expiry and insertion order tracking.
type entry[V any] struct {
	value     V
	expiry    time.Time
	insertIdx int64
}

// Cache is a bounded in-memory TTL cache. A non-positive TTL disables it:
// Get always misses and Set is a no-op.
// Thread-safe with sync.RWMutex.
type Cache[V any] struct {
	mu         sync.RWMutex
	items      map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new Cache with the given TTL and max entry count.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache[V]{
		items:      make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// MakeKey joins key parts with ":".
func MakeKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Enabled reports whether entries are retained at all.
func (c *Cache[V]) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a cached value if found and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores a value in the cache. Evicts the oldest entry if at capacity.
func (c *Cache[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[V]{
		value:     value,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
