package cache

import "sync"

// Cache is the lookup cache injected into the feed clients. Implementations
// decide scope: one per reconciliation run, or shared on purpose across runs.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
}

// Map is an unbounded in-memory Cache, safe for concurrent use. The serve
// command shares one across all requests.
type Map[K comparable, V any] struct {
	mu *sync.RWMutex
	m  map[K]V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{mu: &sync.RWMutex{}, m: make(map[K]V)}
}

func (c *Map[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *Map[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.m[key] = value
	c.mu.Unlock()
}

func (c *Map[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
