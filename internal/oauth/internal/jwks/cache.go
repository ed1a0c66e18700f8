package jwks

import (
	"sync"
	"time"
)

// Cache holds the most recently fetched key set. The whole set expires
// together after the TTL so rotated-out keys disappear with it.
// It is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu        sync.RWMutex
	keys      map[string]any
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewCache creates a new key set cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		keys: make(map[string]any),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Lookup returns the key for keyID. It reports false when the key is
// unknown or the set has expired.
func (c *Cache) Lookup(keyID string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.staleLocked() {
		return nil, false
	}
	key, ok := c.keys[keyID]
	return key, ok
}

// Replace swaps in a freshly fetched key set.
func (c *Cache) Replace(keys map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keys = keys
	c.fetchedAt = c.now()
}

// Stale reports whether the set was never fetched or has expired.
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.staleLocked()
}

// FetchedWithin reports whether the last fetch happened less than d ago.
func (c *Cache) FetchedWithin(d time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < d
}

// Clear drops every key and forgets the last fetch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keys = make(map[string]any)
	c.fetchedAt = time.Time{}
}

// Size returns the number of keys currently held.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.keys)
}

func (c *Cache) staleLocked() bool {
	return c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) >= c.ttl
}
