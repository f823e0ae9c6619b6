// Package lru provides a small bounded LRU map used by the measurement
// and line-break caches.
package lru

// Cache is a fixed-capacity LRU map. The zero value is not usable; create
// instances with New. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	max        int
	m          map[K]*entry[K, V]
	head, tail *entry[K, V] // sentinels; head.prev is most recent
}

type entry[K comparable, V any] struct {
	next, prev *entry[K, V]
	key        K
	val        V
}

// New returns a cache holding at most max entries. max must be positive.
func New[K comparable, V any](max int) *Cache[K, V] {
	if max < 1 {
		max = 1
	}
	c := &Cache[K, V]{
		max:  max,
		m:    make(map[K]*entry[K, V], max),
		head: new(entry[K, V]),
		tail: new(entry[K, V]),
	}
	c.head.prev = c.tail
	c.tail.next = c.head
	return c
}

// Get returns the value for k and marks it most recently used.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	if e, ok := c.m[k]; ok {
		c.remove(e)
		c.insert(e)
		return e.val, true
	}
	var zero V
	return zero, false
}

// Put stores v under k, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(k K, v V) {
	if e, ok := c.m[k]; ok {
		e.val = v
		c.remove(e)
		c.insert(e)
		return
	}
	e := &entry[K, V]{key: k, val: v}
	c.m[k] = e
	c.insert(e)
	if len(c.m) > c.max {
		oldest := c.tail.next
		c.remove(oldest)
		delete(c.m, oldest.key)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return len(c.m) }

// Clear drops all entries.
func (c *Cache[K, V]) Clear() {
	clear(c.m)
	c.head.prev = c.tail
	c.tail.next = c.head
}

func (c *Cache[K, V]) insert(e *entry[K, V]) {
	e.next = c.head
	e.prev = c.head.prev
	e.prev.next = e
	c.head.prev = e
}

func (c *Cache[K, V]) remove(e *entry[K, V]) {
	e.next.prev = e.prev
	e.prev.next = e.next
}
