// Package cache provides a small generic thread-safe cache with a soft
// size limit, used to memoize stitch path computations keyed by content
// hashes of their inputs.
package cache

import "sync"

// Cache is a generic thread-safe cache with soft limit. When the cache
// exceeds softLimit, least recently used entries are evicted.
//
// Cache is safe for concurrent use and must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64 // monotonic access counter
}

// entry holds a cached value with its access time.
type entry[V any] struct {
	value V
	atime int64
}

// New creates a cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// Set stores a value. If the cache exceeds its soft limit afterwards, the
// least recently used entries are evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}

	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest(len(c.entries) - c.softLimit)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries. Called when the owning document closes.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*entry[V])
}

// evictOldest removes the n least recently used entries.
// Caller must hold the lock.
func (c *Cache[K, V]) evictOldest(n int) {
	for ; n > 0; n-- {
		var (
			oldestKey   K
			oldestAtime int64 = -1
		)
		for k, e := range c.entries {
			if oldestAtime < 0 || e.atime < oldestAtime {
				oldestKey, oldestAtime = k, e.atime
			}
		}
		if oldestAtime < 0 {
			return
		}
		delete(c.entries, oldestKey)
	}
}
