// Package cache provides a small generic LRU cache with a soft limit.
//
//	c := cache.New[string, int](4, cache.WithOnEvict(func(k string, v int) {
//	    release(v)
//	}))
//	v := c.GetOrCreate("key", build)
//
// It backs the Gaussian kernel cache and the per-snapshot cache of filtered
// backdrop images, where the eviction callback returns pixel buffers.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
