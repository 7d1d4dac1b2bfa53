// Package cache is a small in-memory TTL cache used for read-mostly lookups.
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the configuration for a Cache.
type Config struct {
	// DefaultTTL is applied by Set.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired items are swept. Zero disables the sweeper.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size. When full, the item closest to expiry is evicted.
	MaxItems int
	// OnEviction is called for items removed by expiry or capacity.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a concurrency-safe map with per-item expiry.
type Cache struct {
	config Config
	mu     sync.RWMutex
	items  map[string]item
	now    func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Cache and starts its sweeper.
func New(config Config) *Cache {
	c := &Cache{
		config: config,
		items:  make(map[string]item),
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Set stores a value with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		c.evictOneLocked()
	}
	c.items[key] = item{value: value, expiresAt: c.now().Add(ttl)}
}

// Get returns a live value.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Delete removes a value.
func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all values.
func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

// Size returns the number of stored items, including expired ones not yet swept.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	now := c.now()
	var evicted []string
	var values []any

	c.mu.Lock()
	for key, it := range c.items {
		if !now.Before(it.expiresAt) {
			delete(c.items, key)
			evicted = append(evicted, key)
			values = append(values, it.value)
		}
	}
	c.mu.Unlock()

	if c.config.OnEviction != nil {
		for i, key := range evicted {
			c.config.OnEviction(key, values[i])
		}
	}
}

func (c *Cache) evictOneLocked() {
	var victim string
	var victimItem item
	first := true
	for key, it := range c.items {
		if first || it.expiresAt.Before(victimItem.expiresAt) {
			victim, victimItem, first = key, it, false
		}
	}
	if first {
		return
	}
	delete(c.items, victim)
	if c.config.OnEviction != nil {
		go c.config.OnEviction(victim, victimItem.value)
	}
}
