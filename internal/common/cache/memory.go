// internal/common/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTTL      = 15 * time.Minute
	defaultSweepGap = time.Minute
)

type memoryEntry struct {
	value    string
	expiresAt time.Time
}

// MemoryCache stores key -> (value, absolute expiry) in a mutex-guarded map.
// Expired entries are evicted lazily on Get and proactively by a background
// sweep on a fixed interval.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	sweepEvery time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates an in-memory cache and starts its sweep goroutine.
func NewMemoryCache(ttl, sweepEvery time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if sweepEvery <= 0 {
		sweepEvery = defaultSweepGap
	}

	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		stop:       make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		// Lazy eviction on read.
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
