package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache implements shared.Cache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cacheEntry),
	}
}

// Get implements shared.Cache
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements shared.Cache
func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete implements shared.Cache
func (c *InMemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

var _ shared.Cache = (*InMemoryCache)(nil)
