package weather

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use. Expired entries are dropped
// lazily on Set once the map has grown past the last sweep size.
type Cache[K comparable, V any] struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	m         map[K]cacheEntry[V]
	sweepSize int
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:       ttl,
		now:       time.Now,
		m:         make(map[K]cacheEntry[V]),
		sweepSize: 64,
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.m[key]
	if !ok || c.now().After(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.m) >= c.sweepSize {
		c.purgeLocked(now)
		c.sweepSize = max(2*len(c.m), 64)
	}
	c.m[key] = cacheEntry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// Len counts entries including ones that have expired but not been swept.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *Cache[K, V]) purgeLocked(now time.Time) {
	for k, e := range c.m {
		if now.After(e.expiresAt) {
			delete(c.m, k)
		}
	}
}
