// Package cache provides the sync layer's in-process cache. Entries expire
// after a TTL but are retained past expiry so readers can fall back to stale
// data when the remote store is unreachable.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU cache with TTL, size-based eviction, and stale retention.
type LRUCache[T any] struct {
	mu        sync.Mutex
	maxSize   int
	ttl       time.Duration
	retention time.Duration
	items     map[string]*list.Element
	lru       *list.List
	now       func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewLRUCache creates an LRU cache whose entries go stale after ttl. Stale
// entries stay readable through GetStale for another retention window of
// 10x the TTL before CleanExpired drops them.
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		maxSize:   maxSize,
		ttl:       ttl,
		retention: 10 * ttl,
		items:     make(map[string]*list.Element),
		lru:       list.New(),
		now:       time.Now,
	}
}

// Get retrieves a fresh value. Expired entries miss but are kept for
// GetStale rather than removed.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if c.now().After(item.expiresAt) {
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

// GetStale retrieves a value regardless of freshness. The second result
// reports whether the entry had expired.
func (c *LRUCache[T]) GetStale(key string) (data T, stale bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false, false
	}

	item := elem.Value.(*cacheItem[T])
	return item.data, c.now().After(item.expiresAt), true
}

// Set stores a value, resetting its TTL.
func (c *LRUCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		if oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Delete removes a key entirely, stale copy included.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

// DeletePrefix removes every key with the given prefix and returns how many
// it dropped. Invalidation uses it to clear all of a partition's views.
func (c *LRUCache[T]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if len(item.key) >= len(prefix) && item.key[:len(prefix)] == prefix {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

func (c *LRUCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired drops entries stale for longer than the retention window and
// returns how many it removed. Entries merely past their TTL survive; they
// are the stale-fallback inventory.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-(c.retention - c.ttl))
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if cutoff.After(item.expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// Size returns the current number of items, stale ones included.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
