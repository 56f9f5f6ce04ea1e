// Package cache provides a sharded, size-bounded LRU cache for values that
// are expensive to build and shared across animations, such as glyph
// outlines and compiled expressions.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// shardCount must be a power of two.
const shardCount = 8

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 1024

// Hasher selects the shard of a key.
type Hasher[K any] func(K) uint64

// StringHasher is the FNV-1a hash of s.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Mix combines values into a hash with the 64-bit FNV-1a step applied per
// word. Use it to build hashers for struct keys.
func Mix(words ...uint64) uint64 {
	h := uint64(14695981039346656037)
	for _, w := range words {
		h ^= w
		h *= 1099511628211
	}
	return h
}

// Cache is a thread-safe LRU cache split into shards to reduce lock
// contention. Capacity is enforced per shard, so the cache holds at most
// roughly the requested number of entries.
type Cache[K comparable, V any] struct {
	shards   [shardCount]shard[K, V]
	hasher   Hasher[K]
	perShard int

	hits, misses, evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a cache holding about capacity entries.
func New[K comparable, V any](capacity int, hasher Hasher[K]) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[K, V]{
		hasher:   hasher,
		perShard: max(1, (capacity+shardCount-1)/shardCount),
	}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*node[K, V])
	}
	return c
}

func (c *Cache[K, V]) shard(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&(shardCount-1)]
}

// Get returns the value cached for key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.entries[key]; ok {
		s.order.moveToFront(n)
		c.hits.Add(1)
		return n.value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Put stores value under key, evicting the least recently used entries of
// the shard when it is full.
func (c *Cache[K, V]) Put(key K, value V) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.put(s, key, value)
}

func (c *Cache[K, V]) put(s *shard[K, V], key K, value V) {
	if n, ok := s.entries[key]; ok {
		n.value = value
		s.order.moveToFront(n)
		return
	}
	for s.order.len >= c.perShard {
		old := s.order.removeOldest()
		delete(s.entries, old.key)
		c.evictions.Add(1)
	}
	n := &node[K, V]{key: key, value: value}
	s.order.pushFront(n)
	s.entries[key] = n
}

// GetOrCreate returns the cached value for key or builds it with create.
// create runs under the shard lock, so concurrent callers build a value
// once. Errors are returned and nothing is cached.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.entries[key]; ok {
		s.order.moveToFront(n)
		c.hits.Add(1)
		return n.value, nil
	}
	c.misses.Add(1)
	v, err := create()
	if err != nil {
		return v, err
	}
	c.put(s, key, v)
	return v, nil
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Clear removes every entry. Counters are kept.
func (c *Cache[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[K]*node[K, V])
		s.order = list[K, V]{}
		s.mu.Unlock()
	}
}

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
