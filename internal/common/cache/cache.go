// internal/common/cache/cache.go
package cache

import (
	"context"
	"time"

	"triage-service/internal/common/config"
	"triage-service/internal/common/logger"
)

// Cache is the memoization capability available to the pipeline. All
// operations are non-throwing: backend failures degrade to a miss or no-op.
type Cache interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with the given TTL. A zero TTL uses the default.
	Set(ctx context.Context, key, value string, ttl time.Duration)

	// Delete removes a key.
	Delete(ctx context.Context, key string)

	// Close releases backend resources and stops background work.
	Close() error
}

// New selects the cache backend. If a redis address is configured it attempts
// that adapter first; on construction failure it logs and falls back to the
// in-memory cache.
func New(cfg config.CacheConfig, log logger.Logger) Cache {
	if cfg.Redis.Address != "" {
		rc, err := NewRedisCache(cfg, log)
		if err == nil {
			log.Info("cache backend selected", map[string]interface{}{
				"backend": "redis",
				"address": cfg.Redis.Address,
			})
			return rc
		}
		log.WithError(err).Warn("redis cache unavailable, falling back to in-memory", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
	}

	return NewMemoryCache(cfg.DefaultTTL, cfg.SweepInterval)
}
