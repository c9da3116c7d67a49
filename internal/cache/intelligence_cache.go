package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/atlasmetrics/foresight/internal/models"
)

// intelligenceEntry wraps a cached report with cache metadata.
type intelligenceEntry struct {
	Intelligence *models.ForwardIntelligence `json:"intelligence"`
	CachedAt     time.Time                   `json:"cached_at"`
	ExpiresAt    time.Time                   `json:"expires_at"`
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

type statCounters struct {
	mu    sync.Mutex
	stats Stats
}

func (c *statCounters) hit()  { c.mu.Lock(); c.stats.Hits++; c.mu.Unlock() }
func (c *statCounters) miss() { c.mu.Lock(); c.stats.Misses++; c.mu.Unlock() }
func (c *statCounters) set()  { c.mu.Lock(); c.stats.Sets++; c.mu.Unlock() }

func (c *statCounters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// RedisIntelligenceCache stores full ForwardIntelligence reports in Redis
// with a per-entry TTL. It satisfies forecast.IntelligenceCache.
type RedisIntelligenceCache struct {
	redis  *redis.Client
	logger *logrus.Logger
	stats  statCounters
}

// NewRedisIntelligenceCache creates a Redis-backed report cache.
func NewRedisIntelligenceCache(redisClient *redis.Client, logger *logrus.Logger) *RedisIntelligenceCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisIntelligenceCache{redis: redisClient, logger: logger}
}

// Get retrieves a cached report. Any Redis or decode failure counts as a
// miss; the engine recomputes rather than failing the request.
func (c *RedisIntelligenceCache) Get(ctx context.Context, key string) (*models.ForwardIntelligence, bool) {
	data, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		c.stats.miss()
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Redis get failed")
		c.stats.miss()
		return nil, false
	}

	var entry intelligenceEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Corrupt cache entry, discarding")
		c.stats.miss()
		return nil, false
	}

	c.stats.hit()
	return entry.Intelligence, true
}

// Set stores a report with the given TTL.
func (c *RedisIntelligenceCache) Set(ctx context.Context, key string, intel *models.ForwardIntelligence, ttl time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(intelligenceEntry{
		Intelligence: intel,
		CachedAt:     now,
		ExpiresAt:    now.Add(ttl),
	})
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return err
	}
	c.stats.set()
	return nil
}

// GetStats returns a snapshot of the cache counters.
func (c *RedisIntelligenceCache) GetStats() Stats {
	return c.stats.snapshot()
}
