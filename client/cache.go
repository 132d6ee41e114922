package client

import (
	"strings"
	"sync"
)

// Cache holds fetched collections keyed by collection identity
// ("tasks", "tasks?projectId=3", "projects", ...). There is no TTL and
// no server-pushed invalidation: entries live until a mutation or the
// caller invalidates them, and the next read refetches.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) put(key string, v any) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// Invalidate drops one collection so the next read refetches it.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops every collection whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// cachedList returns a copy of a cached slice so callers cannot mutate
// the cache behind its lock.
func cachedList[T any](c *Cache, key string) ([]T, bool) {
	v, ok := c.get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]T)
	if !ok {
		return nil, false
	}
	out := make([]T, len(list))
	copy(out, list)
	return out, true
}
