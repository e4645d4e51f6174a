// Package cache provides a typed TTL cache for slow-changing node data.
package cache

import (
	"context"
	"time"

	cacheimpl "github.com/Code-Hex/go-generics-cache"
)

// Cache stores values for a fixed time-to-live.
type Cache[K comparable, V any] struct {
	ttl  time.Duration
	impl *cacheimpl.Cache[K, V]
}

// New creates a cache whose entries expire after ttl. The janitor that evicts
// expired entries stops when ctx is cancelled.
func New[K comparable, V any](ctx context.Context, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:  ttl,
		impl: cacheimpl.NewContext[K, V](ctx),
	}
}

// Get returns the cached value if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.impl.Get(key)
}

// Set stores a value with the cache TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.impl.Set(key, value, cacheimpl.WithExpiration(c.ttl))
}

// Delete removes a key.
func (c *Cache[K, V]) Delete(key K) {
	c.impl.Delete(key)
}

// TTL returns the configured time-to-live.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}
