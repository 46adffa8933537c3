// ABOUTME: Thread-safe TTL cache of successful search result pages.
// ABOUTME: Used by the request gateway to answer repeated queries without a round trip.

package pagecache

import (
	"container/list"
	"sync"
	"time"

	"github.com/2389/reviewfeed/internal/review"
)

// cacheEntry stores a page, its insertion time, and its list element.
type cacheEntry struct {
	page      review.Page
	timestamp time.Time
	element   *list.Element
}

// Cache holds pages for a limited time, evicting the oldest entry once
// maxSize is reached. Uses a doubly-linked list to keep insertion order for
// O(1) eviction.
type Cache struct {
	mu      sync.RWMutex
	pages   map[string]*cacheEntry
	order   *list.List // keys in insertion order (oldest at front)
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	done    chan struct{}
	closed  bool
}

// New creates a page cache with the given TTL and maximum number of pages.
// A background goroutine periodically removes expired pages.
func New(ttl time.Duration, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	c := &Cache{
		pages:   make(map[string]*cacheEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get returns a copy of the cached page for key if present and not expired.
func (c *Cache) Get(key string) (review.Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.pages[key]
	if !ok || c.now().Sub(entry.timestamp) >= c.ttl {
		return review.Page{}, false
	}
	return copyPage(entry.page), true
}

// Put stores page under key, replacing any previous entry.
func (c *Cache) Put(key string, page review.Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, exists := c.pages[key]; exists {
		entry.page = copyPage(page)
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.pages) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(key)
	c.pages[key] = &cacheEntry{
		page:      copyPage(page),
		timestamp: now,
		element:   elem,
	}
}

// Len returns the number of stored pages, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.pages, key)
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired pages.
func (c *Cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.pages {
		if now.Sub(entry.timestamp) >= c.ttl {
			c.order.Remove(entry.element)
			delete(c.pages, key)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}

func copyPage(p review.Page) review.Page {
	items := make([]review.Review, len(p.Items))
	copy(items, p.Items)
	return review.Page{Items: items, HasMore: p.HasMore}
}
