package client

import (
	"sync"

	"github.com/learllr/osteolog/events"
)

// QueryCache holds raw JSON responses by query key. Invalidating a key drops
// it and every key below it; the next read refetches.
type QueryCache struct {
	mu         sync.RWMutex
	entries    map[string][]byte
	generation uint64
}

// NewQueryCache creates an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string][]byte)}
}

// Get returns the cached response for key.
func (q *QueryCache) Get(key string) ([]byte, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	data, ok := q.entries[key]
	return data, ok
}

// Generation changes on every invalidation. Capture it before fetching and
// pass it to Set so a response that raced an invalidation is not stored.
func (q *QueryCache) Generation() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.generation
}

// Set stores data under key unless the cache was invalidated since generation.
func (q *QueryCache) Set(key string, data []byte, generation uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if generation != q.generation {
		return false
	}
	q.entries[key] = data
	return true
}

// Invalidate drops every key covered by one of prefixes and returns how many went.
func (q *QueryCache) Invalidate(prefixes ...string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	dropped := 0
	for key := range q.entries {
		for _, prefix := range prefixes {
			if events.Covers(prefix, key) {
				delete(q.entries, key)
				dropped++
				break
			}
		}
	}
	return dropped
}

// Clear empties the cache (login, logout).
func (q *QueryCache) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	q.entries = make(map[string][]byte)
}

// Keys lists the cached keys.
func (q *QueryCache) Keys() []string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	keys := make([]string, 0, len(q.entries))
	for k := range q.entries {
		keys = append(keys, k)
	}
	return keys
}
