// Package cache is a read-through cache for query results. Entries are keyed
// by the shape of the query that produced them and are dropped either when
// they expire or when a mutation invalidates the view prefix they belong to.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// View prefixes. Every key starts with the prefix of the view it caches.
const (
	ViewEmployees  = "employees/"
	ViewAttendance = "attendance/"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64
	hooks      []func(prefix string)

	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a cache whose entries live for ttl. A non-positive ttl keeps
// entries until they are invalidated.
func New(ttl time.Duration, m *metrics.Metrics) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
}

// Key builds a cache key from a view name and query parameters. Empty
// parameter values are left out so that equivalent queries share a key.
func Key(view string, kv ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		values.Set(kv[i], kv[i+1])
	}
	if len(values) == 0 {
		return view
	}
	return view + "?" + values.Encode()
}

// GetOrLoad returns the cached value for key or calls load to produce it.
// Concurrent misses on the same key share a single load, which is not
// cancelled with any one caller's context. A load that started
// before an invalidation is returned to its callers but never stored.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		if typed, ok := v.(T); ok {
			c.record("hit")
			return typed, nil
		}
	}
	c.record("miss")

	// The shared load outlives any one caller; each caller stops waiting
	// when its own context is done.
	loadCtx := context.WithoutCancel(ctx)
	gen := c.currentGeneration()
	ch := c.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.set(key, value, gen)
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops every entry whose key starts with prefix and notifies the
// registered hooks. It returns the number of entries removed.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	c.generation++
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	hooks := append([]func(string){}, c.hooks...)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.ViewInvalidations.WithLabelValues(prefix).Inc()
	}
	for _, hook := range hooks {
		hook(prefix)
	}
	return removed
}

// OnInvalidate registers fn to be called after every invalidation.
func (c *Cache) OnInvalidate(fn func(prefix string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) set(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *Cache) record(result string) {
	if c.metrics != nil {
		c.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}
