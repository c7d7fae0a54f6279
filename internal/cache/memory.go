package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process TTL cache. It backs the ratings feed
// client and the HTTP response cache, both of which tolerate losing
// entries on restart.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL.
// Expired entries are swept at twice the TTL, floored at one minute.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	cleanup := defaultTTL * 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanup),
	}
}

// Get retrieves a value, reporting whether it was present and fresh.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value under the given TTL. Zero TTL uses the default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a single entry.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len reports how many entries are held, expired ones included until
// the next sweep.
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
