// Package secretcache provides secret cache backends for the
// secretsql driver proxy.
//
// Every backend wraps a store-specific fetch with the same TTL cache
// and forced-refresh behavior, satisfying the secretdriver.SecretCache
// contract: GetSecretString serves a cached value while it is fresh,
// and RefreshNow drops the cached value and re-fetches, reporting
// whether the fetch succeeded. All backends are safe for concurrent
// use, and redundant refreshes of the same identifier are harmless.
package secretcache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a fetched secret is served from cache before
// the next read goes back to the store.
const DefaultTTL = time.Hour

// fetchFunc retrieves the current secret payload from the backing
// store. A missing secret yields ("", nil); errors are reserved for
// failures talking to the store.
type fetchFunc func(ctx context.Context, secretID string) (string, error)

// Cache adds TTL caching and forced refresh on top of a fetchFunc. It
// is embedded by the store-specific backends.
type Cache struct {
	fetch fetchFunc
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value     string
	fetchedAt time.Time
}

func newCache(fetch fetchFunc, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetch:   fetch,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// GetSecretString returns the cached payload for secretID while it is
// fresh, fetching from the store otherwise.
func (c *Cache) GetSecretString(ctx context.Context, secretID string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[secretID]
	c.mu.RUnlock()
	if ok && time.Since(e.fetchedAt) < c.ttl {
		return e.value, nil
	}
	return c.refresh(ctx, secretID)
}

// RefreshNow drops any cached value for secretID and re-fetches it.
// It reports false when the store fetch fails, leaving the previous
// cached value in place.
func (c *Cache) RefreshNow(ctx context.Context, secretID string) bool {
	_, err := c.refresh(ctx, secretID)
	return err == nil
}

func (c *Cache) refresh(ctx context.Context, secretID string) (string, error) {
	value, err := c.fetch(ctx, secretID)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[secretID] = entry{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()
	return value, nil
}
