package gitexec

import (
	"sync"
	"time"
)

// cache is a small TTL cache owned by a Runner instance. It backs the
// remote-URL side queries used for credential scoping so a burst of
// push/pull/fetch invocations does not re-query git config every time.
type cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]cacheItem[V]
	ttl   time.Duration
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

func newCache[K comparable, V any](ttl time.Duration) *cache[K, V] {
	return &cache[K, V]{
		items: make(map[K]cacheItem[V]),
		ttl:   ttl,
	}
}

// get retrieves a value, reporting whether it was present and unexpired.
func (c *cache[K, V]) get(key K) (V, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// set stores a value under the cache's TTL.
func (c *cache[K, V]) set(key K, value V) {
	c.mu.Lock()
	c.items[key] = cacheItem[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
