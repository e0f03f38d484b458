// Package searchcache is a small in-memory LRU cache with per-entry expiry,
// used to keep register name searches for a few minutes.
package searchcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"company_profiler/pkg/core/clock"
	"company_profiler/pkg/core/metrics"
)

const (
	DefaultCapacity = 128
	DefaultTTL      = 10 * time.Minute
)

// Cache maps case-insensitive keys to values of type V. Entries expire TTL
// after they were stored, whether or not they are read in between.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]*entry[V]
	capacity int
	ttl      time.Duration
	clock    clock.Clock
}

type entry[V any] struct {
	value      V
	expiresAt  time.Time
	lastAccess time.Time
}

// New returns a cache holding at most capacity entries. Non-positive values
// fall back to DefaultCapacity and DefaultTTL; a nil clock is the system clock.
func New[V any](capacity int, ttl time.Duration, c clock.Clock) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		entries:  make(map[string]*entry[V]),
		capacity: capacity,
		ttl:      ttl,
		clock:    clock.OrSystem(c),
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get returns the live value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(normalizeKey(key), c.clock.Now())
}

func (c *Cache[V]) get(key string, now time.Time) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	e.lastAccess = now
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	key = normalizeKey(key)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evict(now)
	}
	c.entries[key] = &entry[V]{value: value, expiresAt: now.Add(c.ttl), lastAccess: now}
}

// evict drops expired entries, or the least recently used one if none expired.
func (c *Cache[V]) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	expired := false
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			expired = true
			continue
		}
		if oldestKey == "" || e.lastAccess.Before(oldest) {
			oldestKey, oldest = k, e.lastAccess
		}
	}
	if !expired && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrCompute returns the cached value for key or calls compute, stores a
// successful result and returns it. Errors are not cached. Concurrent misses
// for the same key may compute more than once.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		metrics.IncSearchCache(true)
		return v, nil
	}
	metrics.IncSearchCache(false)

	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}
