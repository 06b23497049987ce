package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	expiresAt time.Time
	value     any
}

// Cache maps keys to values that expire after a time-to-live.
type Cache struct {
	name     string
	clock    Clock
	observer Observer

	// mu makes the expiry check and the write that follows it one step.
	mu      sync.Mutex
	entries *lru.Cache[string, entry]

	flights singleflight.Group
}

func newCache(name string, size int, clock Clock, observer Observer) *Cache {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		// Only reachable with size <= 0, which NewManager rules out.
		panic(fmt.Sprintf("cache %s: %v", name, err))
	}
	return &Cache{
		name:     name,
		clock:    clock,
		observer: observer,
		entries:  entries,
	}
}

// Name returns the cache name.
func (c *Cache) Name() string {
	return c.name
}

// Len returns the number of entries held, expired ones included.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Get returns the live value for key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

// Set stores value under key until now+ttl.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, ttl)
}

// GetOrSet returns the live value for key, or stores and returns value.
func (c *Cache) GetOrSet(key string, value any, ttl time.Duration) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.getLocked(key); ok {
		return v
	}
	c.setLocked(key, value, ttl)
	return value
}

// Producer computes the value for a missed key.
type Producer func(ctx context.Context, key string) (any, error)

// GetOrCompute returns the live value for key, or calls produce, stores the result and
// returns it. Concurrent misses on one key share a single call. Errors are returned to
// every waiting caller and nothing is stored.
//
// The shared call runs with the first caller's context values but not its cancellation.
// Each caller stops waiting when its own ctx is done.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce Producer) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (any, error) {
		// A flight that finished between the miss above and this one may have stored it.
		c.mu.Lock()
		if v, ok := c.entries.Peek(key); ok && c.live(v) {
			c.mu.Unlock()
			return v.value, nil
		}
		c.mu.Unlock()

		v, err := produce(flightCtx, key)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// Lookup is GetOrCompute with a typed producer and result.
func Lookup[V any](ctx context.Context, c *Cache, key string, ttl time.Duration, produce func(ctx context.Context, key string) (V, error)) (V, error) {
	var zero V
	v, err := c.GetOrCompute(ctx, key, ttl, func(ctx context.Context, k string) (any, error) {
		return produce(ctx, k)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(V)
	if !ok {
		return zero, fmt.Errorf("cache %s: key %s holds %T", c.name, key, v)
	}
	return typed, nil
}

func (c *Cache) getLocked(key string) (any, bool) {
	e, ok := c.entries.Get(key)
	if !ok || !c.live(e) {
		c.miss()
		return nil, false
	}
	c.hit()
	return e.value, true
}

func (c *Cache) setLocked(key string, value any, ttl time.Duration) {
	c.entries.Add(key, entry{
		expiresAt: c.clock().Add(ttl),
		value:     value,
	})
}

func (c *Cache) live(e entry) bool {
	return e.expiresAt.After(c.clock())
}

func (c *Cache) hit() {
	if c.observer != nil {
		c.observer.CacheHit(c.name)
	}
}

func (c *Cache) miss() {
	if c.observer != nil {
		c.observer.CacheMiss(c.name)
	}
}
