// Package cache provides a generic LRU cache with eviction notification.
//
// The cache is used by the glyph and shape caches, where evicting an entry
// must release the atlas region backing it. The OnEvict hook runs for every
// entry removed by capacity pressure, explicit deletion, or Clear.
//
//	c := cache.New[string, int](100, func(k string, v int) {
//	    // release resources backing v
//	})
//	c.Set("key", 42)
//	v, ok := c.Get("key")
//
// The cache is not safe for concurrent use. mapgfx runs a single render
// thread, so callers add no locking on the frame path.
package cache
