package cache

import (
	"context"
	"sync"
	"time"

	"github.com/atlasmetrics/foresight/internal/models"
)

type memoryEntry struct {
	intelligence *models.ForwardIntelligence
	expiresAt    time.Time
}

// MemoryIntelligenceCache is an in-process report cache for deployments
// without Redis and for tests. Expired entries are evicted lazily on read.
type MemoryIntelligenceCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stats   statCounters
}

// NewMemoryIntelligenceCache creates an empty in-memory cache.
func NewMemoryIntelligenceCache() *MemoryIntelligenceCache {
	return &MemoryIntelligenceCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached report if present and unexpired.
func (c *MemoryIntelligenceCache) Get(_ context.Context, key string) (*models.ForwardIntelligence, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.stats.miss()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.stats.miss()
		return nil, false
	}

	c.stats.hit()
	return entry.intelligence, true
}

// Set stores a report with the given TTL.
func (c *MemoryIntelligenceCache) Set(_ context.Context, key string, intel *models.ForwardIntelligence, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{intelligence: intel, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	c.stats.set()
	return nil
}

// GetStats returns a snapshot of the cache counters.
func (c *MemoryIntelligenceCache) GetStats() Stats {
	return c.stats.snapshot()
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryIntelligenceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
