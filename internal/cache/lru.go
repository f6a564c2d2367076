// Package cache provides a small mutex-guarded LRU cache with per-entry
// expiry, sized for read-heavy dashboard traffic.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLCache is a bounded map with least-recently-used eviction and a fixed
// time-to-live per entry. Safe for concurrent use.
type TTLCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	clock    func() time.Time
	order    *list.List
	entries  map[K]*list.Element
}

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// New builds a cache holding at most capacity entries, each valid for ttl.
func New[K comparable, V any](capacity int, ttl time.Duration) *TTLCache[K, V] {
	return NewWithClock[K, V](capacity, ttl, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock[K comparable, V any](capacity int, ttl time.Duration, clock func() time.Time) *TTLCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &TTLCache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		clock:    clock,
		order:    list.New(),
		entries:  make(map[K]*list.Element),
	}
}

// Get returns the live value for key, refreshing its recency. Expired
// entries are removed on sight.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*cacheEntry[K, V])
	if c.clock().After(entry.expiresAt) {
		c.removeLocked(elem)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores value under key, evicting the least-recently-used entry when
// the cache is full.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
}

// Delete drops key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// DeleteFunc drops every key the predicate selects.
func (c *TTLCache[K, V]) DeleteFunc(match func(K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, elem := range c.entries {
		if match(key) {
			c.removeLocked(elem)
		}
	}
}

// Sweep removes every expired entry and returns how many were dropped.
// Expiry is already enforced on Get; sweeping just frees memory between
// reads.
func (c *TTLCache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*cacheEntry[K, V]).expiresAt) {
			c.removeLocked(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Len reports the number of stored entries, live or expired.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *TTLCache[K, V]) removeLocked(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry[K, V]).key)
}
