package routing

import (
	"context"
	"sync"
	"time"
)

// RouteCache is the shared, explicitly owned cache in front of the route
// provider. Implementations must be safe for concurrent use; staleness
// beyond the TTL is acceptable, strong consistency is not required.
type RouteCache interface {
	Get(ctx context.Context, key string) (Route, bool, error)
	Put(ctx context.Context, key string, r Route) error
}

type memoryEntry struct {
	route     Route
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded in-process cache with a TTL and a bounded
// size. Once the bound is exceeded the oldest entries by insertion order
// are evicted (FIFO, not access-order LRU).
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]memoryEntry
	order   []string
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		max:     maxEntries,
		entries: make(map[string]memoryEntry, maxEntries),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Route, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Route{}, false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return Route{}, false, nil
	}
	return e.route, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, r Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{route: r, expiresAt: c.now().Add(c.ttl)}
	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return nil
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
