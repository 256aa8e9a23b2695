package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = time.Minute
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache stores values in-memory with per-entry TTLs. It is local to the process.
type TTLCache[V any] struct {
	mu         sync.RWMutex
	items      map[string]cacheEntry[V]
	defaultTTL time.Duration
	now        func() time.Time

	lifecycle sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	running   bool
}

func NewTTLCache[V any](defaultTTL time.Duration) *TTLCache[V] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &TTLCache[V]{
		items:      make(map[string]cacheEntry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if c.now().After(entry.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key. A non-positive ttl uses the cache default.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.items[key] = cacheEntry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]cacheEntry[V])
	c.mu.Unlock()
}

// InvalidatePrefix removes every key starting with prefix.
func (c *TTLCache[V]) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// GetOrSet returns the cached value for key, calling fetch and caching its result on a
// miss. Errors from fetch are returned and not cached.
func (c *TTLCache[V]) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cleanup drops expired entries.
func (c *TTLCache[V]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Start runs Cleanup every interval until Stop is called.
func (c *TTLCache[V]) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	c.done = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-stop:
				return
			}
		}
	}(c.stopChan, c.done)
}

func (c *TTLCache[V]) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if !c.running {
		return
	}
	close(c.stopChan)
	<-c.done
	c.running = false
}
