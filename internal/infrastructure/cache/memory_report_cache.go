package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry holds one cached payload and its expiry
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryReportCache is an in-process cache for report payloads. It is
// used in development and tests where no Redis instance is available;
// production deployments use RedisReportCache.
type MemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryReportCache creates a new in-memory report cache
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached payload, or (nil, nil) on a miss or expiry
func (c *MemoryReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

// Set stores the payload with a TTL
func (c *MemoryReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes the payload
func (c *MemoryReportCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
