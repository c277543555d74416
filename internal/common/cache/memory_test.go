// internal/common/cache/memory_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get(ctx, "absent")
	assert.False(t, ok)
}

func TestMemoryCache_LazyEvictionOnRead(t *testing.T) {
	// Long sweep interval so only the read path can evict.
	c := NewMemoryCache(time.Minute, time.Hour)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", "v", 10*time.Millisecond)
	require.Equal(t, 1, c.Len())

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted by the read")
}

func TestMemoryCache_BackgroundSweep(t *testing.T) {
	c := NewMemoryCache(time.Minute, 20*time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "expiring", "v", 10*time.Millisecond)
	c.Set(ctx, "fresh", "v", time.Minute)

	assert.Eventually(t, func() bool {
		return c.Len() == 1
	}, time.Second, 10*time.Millisecond, "sweep should remove only the expired entry")

	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", "v", 0)
	c.Delete(ctx, "k")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_DefaultTTLApplied(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Hour)
	defer c.Close()
	ctx := context.Background()

	// Zero TTL falls back to the configured default.
	c.Set(ctx, "k", "v", 0)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_CloseIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10*time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			c.Set(ctx, "shared", "v", 5*time.Millisecond)
		}
		close(done)
	}()
	for i := 0; i < 500; i++ {
		c.Get(ctx, "shared")
	}
	<-done
}
