package infra

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/stocksentiment/pkg/models"
)

// memoryEntry holds a cached value with expiration.
type memoryEntry struct {
	value     *models.AnalysisResult
	expiresAt time.Time
}

// MemoryCache is a simple thread-safe in-memory cache with TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a new cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a value from the cache. Expired entries are misses and
// are removed.
func (c *MemoryCache) Get(_ context.Context, key string) (*models.AnalysisResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && c.now().After(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a value in the cache with the default TTL and drops entries
// that have expired.
func (c *MemoryCache) Set(_ context.Context, key string, res *models.AnalysisResult) error {
	c.mu.Lock()
	c.removeExpired()
	c.entries[key] = memoryEntry{
		value:     res,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	c.removeExpired()
	c.mu.Unlock()
}

// removeExpired must be called with mu held.
func (c *MemoryCache) removeExpired() {
	now := c.now()
	for k, v := range c.entries {
		if now.After(v.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet cleaned up.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close implements ResultCache.
func (c *MemoryCache) Close() error { return nil }
