package cache

import (
	"container/list"
	"sync"
)

const MaxCacheSize = 150

type cacheEntry[V any] struct {
	key   string
	value V
}

// Cache is a fixed-size LRU safe for concurrent use.
//
// Readers that load a value from a backing store take Version before the load
// and hand it to Fill. Every Invalidate advances the version, so a value read
// before a concurrent mutation is never stored after it.
type Cache[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
	maxSize int
	version uint64
}

func New[V any](size int) *Cache[V] {
	if size <= 0 {
		size = MaxCacheSize
	}
	return &Cache[V]{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: size,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry[V]).value, true
	}
	var zero V
	return zero, false
}

func (c *Cache[V]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Fill stores value under key unless an Invalidate ran since version was
// taken. It reports whether the value was stored.
func (c *Cache[V]) Fill(key string, value V, version uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version {
		return false
	}

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry[V]).value = value
		return true
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.items, oldest.Value.(*cacheEntry[V]).key)
			c.order.Remove(oldest)
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value})
	return true
}

func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	if elem, ok := c.items[key]; ok {
		delete(c.items, key)
		c.order.Remove(elem)
	}
}
