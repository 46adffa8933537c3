// ABOUTME: Tests for the page cache used by the request gateway.
// ABOUTME: Validates TTL expiration, size limits, eviction order, copying, and concurrency safety.

package pagecache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/reviewfeed/internal/review"
)

// fakeClock is a manually advanced clock for TTL tests.
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
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration, maxSize int) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, maxSize)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func page(titles ...string) review.Page {
	items := make([]review.Review, len(titles))
	for i, title := range titles {
		items[i] = review.Review{DisplayTitle: title}
	}
	return review.Page{Items: items, HasMore: true}
}

func TestCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	_, ok := c.Get("reviewer=Glenn Kenny")
	assert.False(t, ok)
}

func TestCache_PutGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	c.Put("q1", page("Dune", "Arrival"))

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Len(t, got.Items, 2)
	assert.True(t, got.HasMore)
	assert.Equal(t, "Dune", got.Items[0].DisplayTitle)
}

func TestCache_Expired(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("q1", page("Dune"))
	clock.Advance(30 * time.Second)
	_, ok := c.Get("q1")
	assert.True(t, ok)

	clock.Advance(30 * time.Second)
	_, ok = c.Get("q1")
	assert.False(t, ok)
}

func TestCache_PutRefreshesTimestamp(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("q1", page("Dune"))
	clock.Advance(50 * time.Second)
	c.Put("q1", page("Dune", "Arrival"))
	clock.Advance(50 * time.Second)

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 3)

	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("q%d", i), page("x"))
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("q0")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("q3")
	assert.True(t, ok)
}

func TestCache_ReturnsCopies(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	original := page("Dune")
	c.Put("q1", original)
	original.Items[0].DisplayTitle = "mutated"

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "Dune", got.Items[0].DisplayTitle)

	got.Items[0].DisplayTitle = "mutated again"
	again, _ := c.Get("q1")
	assert.Equal(t, "Dune", again.Items[0].DisplayTitle)
}

func TestCache_RunCleanupRemovesExpired(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("old", page("a"))
	clock.Advance(45 * time.Second)
	c.Put("new", page("b"))
	clock.Advance(30 * time.Second)

	c.runCleanup()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := New(time.Minute, 10)
	c.Close()
	assert.NotPanics(t, c.Close)
}

func TestCache_Concurrency(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("q%d", n%5)
			c.Put(key, page("x"))
			c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
