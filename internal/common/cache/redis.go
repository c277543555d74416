// internal/common/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"time"

	"triage-service/internal/common/config"
	"triage-service/internal/common/logger"
	"triage-service/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCache wraps a Redis client behind the Cache interface. Backend errors
// are logged and degraded to a miss or no-op, never propagated.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(cfg config.CacheConfig, log logger.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisCache{
		client: rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "redis-cache"}),
	}, nil
}

// newRedisCacheWithClient wires an existing client, used by tests.
func newRedisCacheWithClient(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.CacheOperations.WithLabelValues("miss").Inc()
		return "", false
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("redis get failed", map[string]interface{}{"key": key})
		return "", false
	}
	metrics.CacheOperations.WithLabelValues("hit").Inc()
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("error").Inc()
		c.logger.WithError(err).Warn("redis set failed", map[string]interface{}{"key": key})
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WithError(err).Warn("redis del failed", map[string]interface{}{"key": key})
	}
}

func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
