// Package cache implements a thread-safe key/value store whose entries go
// stale a fixed TTL after they were written.
//
// Expiry is lazy: a stale entry is only removed when a Get finds it. There is
// no background sweeper, so memory is reclaimed either by reads, by explicit
// Invalidate calls, or, when WithMaxEntries is set, by evicting the least
// recently used entry once the bound is reached.
package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// ErrInvalidTTL is returned by New for a negative TTL.
var ErrInvalidTTL = errors.New("cache: ttl must not be negative")

// ErrInvalidSize is returned by New for a negative entry bound.
var ErrInvalidSize = errors.New("cache: max entries must not be negative")

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// backend is satisfied by simplelru.LRU and by mapBackend.
type backend[K comparable, V any] interface {
	Add(key K, value V) (evicted bool)
	Get(key K) (value V, ok bool)
	Remove(key K) (present bool)
	Len() int
}

// Cache maps keys to values with a per-entry time to live. A single mutex
// guards every operation; all of them are O(1).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	store   backend[K, entry[V]]
	now     func() time.Time
	copyFn  func(V) V
	metrics *Metrics
	name    string
}

type config[V any] struct {
	now        func() time.Time
	maxEntries int
	copyFn     func(V) V
	metrics    *Metrics
	name       string
}

// Option customises a Cache at construction time.
type Option[V any] func(*config[V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *config[V]) { c.now = now }
}

// WithMaxEntries bounds the number of resident entries; the least recently
// used one is dropped to make room. Zero means unbounded.
func WithMaxEntries[V any](n int) Option[V] {
	return func(c *config[V]) { c.maxEntries = n }
}

// WithCopy makes the cache store and hand out copies produced by fn, so no
// caller ever shares mutable state with the cache or with another caller.
func WithCopy[V any](fn func(V) V) Option[V] {
	return func(c *config[V]) { c.copyFn = fn }
}

// WithMetrics reports hits, misses and removals under the given cache name.
func WithMetrics[V any](m *Metrics, name string) Option[V] {
	return func(c *config[V]) {
		c.metrics = m
		c.name = name
	}
}

// New creates a cache whose entries are served for less than ttl after Set.
// A zero ttl makes every entry stale immediately.
func New[K comparable, V any](ttl time.Duration, opts ...Option[V]) (*Cache[K, V], error) {
	if ttl < 0 {
		return nil, ErrInvalidTTL
	}

	cfg := config[V]{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxEntries < 0 {
		return nil, ErrInvalidSize
	}

	var store backend[K, entry[V]]
	if cfg.maxEntries > 0 {
		lru, err := simplelru.NewLRU[K, entry[V]](cfg.maxEntries, nil)
		if err != nil {
			return nil, err
		}
		store = lru
	} else {
		store = newMapBackend[K, entry[V]]()
	}

	return &Cache[K, V]{
		ttl:     ttl,
		store:   store,
		now:     cfg.now,
		copyFn:  cfg.copyFn,
		metrics: cfg.metrics,
		name:    cfg.name,
	}, nil
}

// Set stores value under key, replacing any previous entry and restarting
// its TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	if c.copyFn != nil {
		value = c.copyFn(value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store.Add(key, entry[V]{value: value, storedAt: c.now()}) {
		c.metrics.evicted(c.name)
	}
}

// Get returns the value stored under key if it is still fresh. A stale entry
// is removed as a side effect, so later calls keep reporting it absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	e, ok := c.store.Get(key)
	if !ok {
		c.mu.Unlock()
		c.metrics.missed(c.name)
		return zero, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.store.Remove(key)
		c.mu.Unlock()
		c.metrics.expired(c.name)
		c.metrics.missed(c.name)
		return zero, false
	}
	c.mu.Unlock()

	c.metrics.hit(c.name)
	if c.copyFn != nil {
		return c.copyFn(e.value), true
	}
	return e.value, true
}

// Invalidate drops the entry for key. Writers call it after changing the
// data the entry was built from.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	present := c.store.Remove(key)
	c.mu.Unlock()

	if present {
		c.metrics.invalidated(c.name)
	}
}

// Len reports resident entries, stale ones not yet collected included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// TTL returns the configured time to live.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

type mapBackend[K comparable, V any] struct {
	items map[K]V
}

func newMapBackend[K comparable, V any]() *mapBackend[K, V] {
	return &mapBackend[K, V]{items: make(map[K]V)}
}

func (m *mapBackend[K, V]) Add(key K, value V) bool {
	m.items[key] = value
	return false
}

func (m *mapBackend[K, V]) Get(key K) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *mapBackend[K, V]) Remove(key K) bool {
	_, ok := m.items[key]
	delete(m.items, key)
	return ok
}

func (m *mapBackend[K, V]) Len() int {
	return len(m.items)
}
