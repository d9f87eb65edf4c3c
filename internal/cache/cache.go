package cache

// Cache is a generic LRU cache with a hard entry limit and an eviction hook.
// When the cache exceeds its limit, least recently used entries are evicted
// and OnEvict is called for each.
//
// A limit of 0 means unlimited; eviction then only happens through Delete
// and Clear.
type Cache[K comparable, V any] struct {
	entries map[K]*entry[K, V]
	order   lruList[K]
	limit   int
	onEvict func(K, V)
}

// entry pairs a cached value with its LRU list node.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache with the given entry limit. onEvict may be nil.
func New[K comparable, V any](limit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
		limit:   limit,
		onEvict: onEvict,
	}
}

// Get retrieves a value and marks it most recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(e.node)
	return e.value, true
}

// Peek retrieves a value without touching its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value. If the key already exists its value is replaced
// (without running OnEvict for the old value) and marked most recently
// used. If the insert pushes the cache over its limit, the oldest entries
// are evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.MoveToFront(e.node)
		return
	}
	node := c.order.PushFront(key)
	c.entries[key] = &entry[K, V]{value: value, node: node}
	for c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
}

// Delete removes an entry and runs OnEvict for it.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(e.node)
	delete(c.entries, key)
	if c.onEvict != nil {
		c.onEvict(key, e.value)
	}
	return true
}

// Clear removes all entries, running OnEvict for each.
func (c *Cache[K, V]) Clear() {
	for key, e := range c.entries {
		if c.onEvict != nil {
			c.onEvict(key, e.value)
		}
	}
	c.entries = make(map[K]*entry[K, V])
	c.order.Clear()
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Limit returns the entry limit of the cache.
func (c *Cache[K, V]) Limit() int {
	return c.limit
}

// evictOldest removes the least recently used entry and runs OnEvict.
func (c *Cache[K, V]) evictOldest() {
	key, ok := c.order.RemoveOldest()
	if !ok {
		return
	}
	e := c.entries[key]
	delete(c.entries, key)
	if c.onEvict != nil {
		c.onEvict(key, e.value)
	}
}
