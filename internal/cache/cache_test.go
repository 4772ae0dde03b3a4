package cache

import (
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, ttl time.Duration, clock *fakeClock, opts ...Option[string]) *Cache[int, string] {
	t.Helper()
	opts = append([]Option[string]{WithClock[string](clock.Now)}, opts...)
	c, err := New[int](ttl, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsNegativeTTL(t *testing.T) {
	_, err := New[int, string](-time.Second)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestNew_RejectsNegativeBound(t *testing.T) {
	_, err := New[int](time.Second, WithMaxEntries[string](-1))
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCache_SetThenGet(t *testing.T) {
	c := newTestCache(t, time.Minute, newFakeClock())

	c.Set(1, "a")

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache(t, time.Minute, newFakeClock())

	got, ok := c.Get(42)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCache_SetOverwritesAndRestartsTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, time.Minute, clock)

	c.Set(1, "old")
	clock.Advance(50 * time.Second)
	c.Set(1, "new")
	clock.Advance(50 * time.Second)

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ExpiresAtTTLBoundary(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, time.Minute, clock)

	c.Set(1, "a")
	clock.Advance(time.Minute - time.Nanosecond)
	_, ok := c.Get(1)
	require.True(t, ok, "entry must be fresh just before ttl")

	clock.Advance(time.Nanosecond)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry must be stale exactly at ttl")
}

func TestCache_ExpiredEntryIsEvictedNotResurrected(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, time.Minute, clock)

	c.Set(1, "a")
	clock.Advance(2 * time.Minute)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "stale entry must be removed by the read")

	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestCache_LazyExpiryKeepsUnreadEntries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, time.Minute, clock)

	c.Set(1, "a")
	c.Set(2, "b")
	clock.Advance(time.Hour)

	assert.Equal(t, 2, c.Len(), "no background sweep")
	_, _ = c.Get(1)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Invalidate(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, time.Hour, clock)

	c.Set(1, "a")
	c.Invalidate(1)

	_, ok := c.Get(1)
	assert.False(t, ok)

	clock.Advance(-time.Minute)
	_, ok = c.Get(1)
	assert.False(t, ok, "invalidation holds regardless of elapsed time")
}

func TestCache_InvalidateMissingIsNoop(t *testing.T) {
	c := newTestCache(t, time.Hour, newFakeClock())
	c.Set(1, "a")

	assert.NotPanics(t, func() { c.Invalidate(2) })
	_, ok := c.Get(1)
	assert.True(t, ok)
}

func TestCache_ZeroTTLIsPassthrough(t *testing.T) {
	c := newTestCache(t, 0, newFakeClock())

	c.Set(1, "a")
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, time.Duration(0), c.TTL())
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := newTestCache(t, time.Hour, newFakeClock())

	c.Set(1, "alice")
	c.Set(2, "bob")
	c.Invalidate(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
	got, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "bob", got)
}

func TestCache_MaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t, time.Hour, newFakeClock(), WithMaxEntries[string](2))

	c.Set(1, "a")
	c.Set(2, "b")
	_, _ = c.Get(1)
	c.Set(3, "c")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(2)
	assert.False(t, ok, "2 was least recently used")
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestCache_WithCopyPreventsAliasing(t *testing.T) {
	clock := newFakeClock()
	c, err := New[int](time.Hour, WithClock[[]string](clock.Now), WithCopy(slices.Clone[[]string]))
	require.NoError(t, err)

	src := []string{"a", "b"}
	c.Set(1, src)
	src[0] = "mutated by writer"

	first, ok := c.Get(1)
	require.True(t, ok)
	first[1] = "mutated by reader"

	second, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestCache_WithoutCopyReturnsStoredValue(t *testing.T) {
	c, err := New[int](time.Hour, WithClock[[]string](newFakeClock().Now))
	require.NoError(t, err)

	src := []string{"a"}
	c.Set(1, src)
	got, _ := c.Get(1)
	assert.Same(t, &src[0], &got[0])
}

func TestCache_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	clock := newFakeClock()
	c := newTestCache(t, time.Minute, clock, WithMetrics[string](m, "posts"), WithMaxEntries[string](1))

	_, _ = c.Get(1) // miss
	c.Set(1, "a")
	_, _ = c.Get(1) // hit
	c.Set(2, "b")   // evicts 1
	c.Invalidate(2) // invalidation
	c.Invalidate(2) // no-op, not counted
	c.Set(3, "c")
	clock.Advance(time.Minute)
	_, _ = c.Get(3) // expiration + miss

	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits.WithLabelValues("posts")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses.WithLabelValues("posts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evictions.WithLabelValues("posts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("posts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expirations.WithLabelValues("posts")))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New[int, string](time.Minute, WithMaxEntries[string](64))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := (w*1000 + i) % 100
				switch i % 3 {
				case 0:
					c.Set(k, strconv.Itoa(i))
				case 1:
					_, _ = c.Get(k)
				default:
					c.Invalidate(k)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}
