package rag

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/koopa0/recall/internal/embed"
)

// EmbeddingCache is a bounded, thread-safe text-to-vector cache with LRU
// eviction, fronting an embed.Provider.
//
// The mutex guards only the map and recency-list bookkeeping. The backend
// call for a miss happens outside the lock, and the result is inserted
// under a second, short acquisition. Two goroutines missing on the same
// key may therefore both call the backend; the second insert simply
// overwrites the first, which is harmless for deterministic embeddings.
type EmbeddingCache struct {
	provider embed.Provider
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type cacheEntry struct {
	key    string
	vector []float32
}

// NewEmbeddingCache creates a cache over provider. A capacity <= 0 uses
// the default of 500 entries.
func NewEmbeddingCache(provider embed.Provider, capacity int) *EmbeddingCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &EmbeddingCache{
		provider: provider,
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// cacheKey normalizes text into a cache key: trimmed and truncated to
// 512 characters.
func cacheKey(text string) string {
	key := strings.TrimSpace(text)
	if len(key) > cacheKeyMaxLen {
		key = key[:cacheKeyMaxLen]
	}
	return key
}

// Embed returns the vector for text, consulting the cache first.
// A hit never calls the backend; a miss calls it and stores a successful
// result before returning. Backend errors are returned as-is and cache
// nothing.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		vec := el.Value.(*cacheEntry).vector
		c.mu.Unlock()
		return vec, nil
	}
	c.mu.Unlock()

	// Backend inference runs without holding the lock.
	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		// Lost a race with a concurrent miss; keep the newer result.
		el.Value.(*cacheEntry).vector = vec
		c.order.MoveToFront(el)
		return vec, nil
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, vector: vec})
	return vec, nil
}

// Len returns the current number of cached entries.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Contains reports whether a vector for text is currently cached,
// without promoting its recency.
func (c *EmbeddingCache) Contains(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[cacheKey(text)]
	return ok
}

// Clear drops all cached entries.
func (c *EmbeddingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}
