package workspace

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a built index is served without rebuilding.
// Probes cost tens of milliseconds each; a terminal command (or an agent
// issuing a burst of tool calls) hits the engine several times in quick
// succession.
const DefaultTTL = 5 * time.Second

// Cache memoizes the index builder behind a TTL. It holds a single slot:
// the index does not depend on call parameters. Entries are replaced, never
// mutated, so a reader can never observe a partially built index; building
// is deduplicated so concurrent callers trigger exactly one rebuild.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	build func(ctx context.Context) Index

	mu    sync.Mutex
	entry *cacheEntry
	sf    singleflight.Group
}

type cacheEntry struct {
	data Index
	ts   time.Time
}

// NewCache wraps build with a TTL cache. now is the clock, injectable so
// expiry is deterministic under test; nil means time.Now.
func NewCache(ttl time.Duration, now func() time.Time, build func(ctx context.Context) Index) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, build: build}
}

// Get returns the cached index when fresh, rebuilding otherwise.
func (c *Cache) Get(ctx context.Context) Index {
	if data, ok := c.fresh(); ok {
		return data
	}

	v, _, _ := c.sf.Do("index", func() (interface{}, error) {
		// Another caller may have finished the rebuild while this one
		// waited on the flight.
		if data, ok := c.fresh(); ok {
			return data, nil
		}
		data := c.build(ctx)
		c.mu.Lock()
		c.entry = &cacheEntry{data: data, ts: c.now()}
		c.mu.Unlock()
		return data, nil
	})
	if v == nil {
		return nil
	}
	return v.(Index)
}

// Invalidate drops the cached entry so the next Get rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}

func (c *Cache) fresh() (Index, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return nil, false
	}
	if c.now().Sub(c.entry.ts) >= c.ttl {
		return nil, false
	}
	return c.entry.data, true
}
