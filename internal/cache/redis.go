// Package cache provides a Redis-backed cache for budget spend aggregates.
// The budget gate runs before every external LLM call; caching the daily and
// monthly sums for a short TTL keeps that hot path off PostgreSQL.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config contains Redis cache configuration.
type Config struct {
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	SpendTTL       time.Duration `yaml:"spend_ttl" mapstructure:"spend_ttl"`
}

// SpendCache caches per-tenant spend aggregates in Redis.
type SpendCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	stats  *cacheStats
}

// cacheStats tracks cache performance metrics
type cacheStats struct {
	hits   int64
	misses int64
}

// NewSpendCache creates a Redis-backed spend cache and verifies the
// connection.
func NewSpendCache(config *Config, logger *zap.Logger) (*SpendCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	cache := &SpendCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Spend cache initialized",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("spend_ttl", config.SpendTTL))

	return cache, nil
}

func spendKey(companyID, window string) string {
	return fmt.Sprintf("aiguard:spend:%s:%s", companyID, window)
}

// GetSpend returns the cached aggregate for a tenant and window ("daily" or
// "monthly"). A miss or a Redis error both report not-found; the gate falls
// back to the store.
func (c *SpendCache) GetSpend(ctx context.Context, companyID, window string) (float64, bool) {
	value, err := c.client.Get(ctx, spendKey(companyID, window)).Result()
	if err == redis.Nil {
		c.stats.misses++
		return 0, false
	}
	if err != nil {
		c.logger.Error("Spend cache lookup failed", zap.Error(err))
		return 0, false
	}

	cents, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.logger.Error("Corrupted spend cache entry, dropping", zap.Error(err))
		c.client.Del(ctx, spendKey(companyID, window))
		return 0, false
	}

	c.stats.hits++
	return cents, true
}

// SetSpend stores the aggregate with the configured TTL.
func (c *SpendCache) SetSpend(ctx context.Context, companyID, window string, cents float64) {
	ttl := c.config.SpendTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	value := strconv.FormatFloat(cents, 'f', -1, 64)
	if err := c.client.Set(ctx, spendKey(companyID, window), value, ttl).Err(); err != nil {
		c.logger.Error("Failed to cache spend aggregate", zap.Error(err))
	}
}

// Invalidate drops both windows for a tenant. Called after usage tracking so
// the next budget check sees the new spend immediately.
func (c *SpendCache) Invalidate(ctx context.Context, companyID string) {
	keys := []string{spendKey(companyID, "daily"), spendKey(companyID, "monthly")}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("Failed to invalidate spend cache", zap.Error(err))
	}
}

// Stats returns hit/miss counters since startup.
func (c *SpendCache) Stats() (hits, misses int64) {
	return c.stats.hits, c.stats.misses
}

// Close closes the Redis connection.
func (c *SpendCache) Close() error {
	return c.client.Close()
}

// maskRedisURL masks credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			return "redis://***@" + parts[len(parts)-1]
		}
	}
	return url
}
