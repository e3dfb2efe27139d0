package watcher

import (
	"sync"

	"github.com/cespare/xxhash"
)

// shardCount is a power of two so the xxhash-derived index can be masked
// instead of reduced with a division on every lookup.
const shardCount = 32

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// ShardedMap is the concurrent map every process-wide store in this
// package is built on: fine-grained per-shard locking so unrelated keys
// never contend. Keys are always file paths or similar short strings.
type ShardedMap[V any] struct {
	shards [shardCount]*shard[V]
}

func NewShardedMap[V any]() *ShardedMap[V] {
	sm := &ShardedMap[V]{}
	for i := range sm.shards {
		sm.shards[i] = &shard[V]{m: make(map[string]V)}
	}
	return sm
}

func (sm *ShardedMap[V]) shardFor(key string) *shard[V] {
	h := xxhash.New()
	_, _ = h.Write([]byte(key))
	return sm.shards[h.Sum64()&(shardCount-1)]
}

func (sm *ShardedMap[V]) Get(key string) (V, bool) {
	s := sm.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (sm *ShardedMap[V]) Set(key string, value V) {
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (sm *ShardedMap[V]) Delete(key string) {
	s := sm.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// GetOrSet returns the existing value for key if present, otherwise stores
// and returns build(). build may run more than once under contention; only
// one result is kept.
func (sm *ShardedMap[V]) GetOrSet(key string, build func() V) V {
	s := sm.shardFor(key)
	s.mu.RLock()
	if v, ok := s.m[key]; ok {
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	v := build()
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.m[key]; ok {
		return existing
	}
	s.m[key] = v
	return v
}

// Len takes a read lock on every shard in turn; callers should not call it
// on the hot path.
func (sm *ShardedMap[V]) Len() int {
	n := 0
	for _, s := range sm.shards {
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// EvictSome removes up to n entries in arbitrary (map iteration) order, per
// shard, stopping early once n have been removed. Used by bounded stores
// that only need to hold a size bound, not any particular eviction policy.
func (sm *ShardedMap[V]) EvictSome(n int) int {
	removed := 0
	for _, s := range sm.shards {
		if removed >= n {
			break
		}
		s.mu.Lock()
		for k := range s.m {
			if removed >= n {
				break
			}
			delete(s.m, k)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Range calls f for every entry. f must not block or call back into sm.
func (sm *ShardedMap[V]) Range(f func(key string, value V) bool) {
	for _, s := range sm.shards {
		s.mu.RLock()
		for k, v := range s.m {
			if !f(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}
