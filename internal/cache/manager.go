package cache

import (
	"sort"
	"sync"
	"time"
)

// DefaultSize is the per-cache entry bound used when none is configured.
const DefaultSize = 1024

// Clock returns the current time.
type Clock func() time.Time

// Observer is notified of cache hits and misses.
type Observer interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithSize bounds the number of entries held by each cache.
func WithSize(n int) Option {
	return func(m *Manager) {
		m.size = n
	}
}

// WithClock sets the time source used for expiry.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithObserver sets the hit/miss observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// Manager owns a set of named caches.
type Manager struct {
	mu     sync.Mutex
	caches map[string]*Cache

	size     int
	clock    Clock
	observer Observer
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		caches: make(map[string]*Cache),
		size:   DefaultSize,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.size <= 0 {
		m.size = DefaultSize
	}
	return m
}

// Cache returns the cache called name, creating it on first reference.
func (m *Manager) Cache(name string) *Cache {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.caches[name]; ok {
		return c
	}
	c := newCache(name, m.size, m.clock, m.observer)
	m.caches[name] = c
	return c
}

// Names returns the names of all caches created so far, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.caches))
	for name := range m.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
