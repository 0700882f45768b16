package filter

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe LRU cache of compiled programs keyed by
// expression.
type lruCache[V any] struct {
	size  int
	order *list.List
	items map[string]*list.Element
	mu    sync.Mutex
}

type cacheEntry[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](size int) *lruCache[V] {
	return &lruCache[V]{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached value and marks it most recently used
func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(node)
	return node.Value.(*cacheEntry[V]).value, true
}

// Put adds or replaces a value, evicting the least recently used entry
// when full
func (c *lruCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		c.order.MoveToFront(node)
		node.Value.(*cacheEntry[V]).value = value
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value})
	if c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[V]).key)
	}
}

func (c *lruCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *lruCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
