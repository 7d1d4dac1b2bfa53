package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(config Config) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC)}
	c := New(config)
	c.now = clock.Now
	return c, clock
}

func TestCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "tenant-a", []string{"Harbour"})
	got, ok := c.Get(ctx, "tenant-a")
	require.True(t, ok)
	assert.Equal(t, []string{"Harbour"}, got)

	clock.Advance(59 * time.Second)
	_, ok = c.Get(ctx, "tenant-a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "tenant-a")
	assert.False(t, ok, "item must expire exactly at its TTL")
}

func TestCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Delete(ctx, "a")
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	c.Clear(ctx)
	assert.Equal(t, 0, c.Size())
}

func TestCache_MaxItemsEvictsSoonestExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(Config{DefaultTTL: time.Hour, MaxItems: 2})
	defer c.Close()

	c.SetWithTTL(ctx, "short", 1, time.Minute)
	c.SetWithTTL(ctx, "long", 2, time.Hour)
	c.Set(ctx, "new", 3)

	assert.Equal(t, 2, c.Size())
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "long")
	assert.True(t, ok)

	// Overwriting an existing key never evicts.
	c.Set(ctx, "long", 4)
	assert.Equal(t, 2, c.Size())
}

func TestCache_DeleteExpiredCallsOnEviction(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c, clock := newTestCache(Config{
		DefaultTTL: time.Minute,
		OnEviction: func(key string, _ any) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.Set(ctx, "stale", 1)
	c.SetWithTTL(ctx, "fresh", 2, time.Hour)
	clock.Advance(2 * time.Minute)

	c.deleteExpired()
	assert.Equal(t, []string{"stale"}, evicted)
	assert.Equal(t, 1, c.Size())
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: 10 * time.Millisecond})
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
