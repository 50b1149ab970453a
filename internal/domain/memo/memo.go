// Package memo caches solve results keyed by an input fingerprint so that
// repeated requests for an unchanged meet, roster and solver configuration
// return without searching again.
package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/lineup/internal/domain/lineup"
)

// Cache stores finished lineups by fingerprint.
type Cache interface {
	// Get returns the cached lineup for key, if present. The returned
	// lineup is shared and must be treated as read-only.
	Get(ctx context.Context, key string) (*lineup.Lineup, bool)

	// Put records the lineup under key, evicting the oldest entry when
	// the cache is at capacity. Re-putting an existing key replaces it.
	Put(ctx context.Context, key string, l *lineup.Lineup)

	Size() int64
}

// node is one entry in the insertion-ordered list, newest at head.
type node struct {
	key    string
	lineup *lineup.Lineup
	next   *node
}

// inMemoryCache implements Cache with a map for lookup and a linked list
// for eviction order. maxSize <= 0 disables eviction.
type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*node
	head    *node
	maxSize int
	size    atomic.Int64
}

// NewInMemoryCache creates an in-memory cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (*lineup.Lineup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return n.lineup, true
}

func (c *inMemoryCache) Put(ctx context.Context, key string, l *lineup.Lineup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.lineup = l
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := &node{key: key, lineup: l, next: c.head}
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
}

// evictOldest drops the tail of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.key)
		c.head = nil
		c.size.Add(-1)
		return
	}

	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(c.entries, prev.next.key)
	prev.next = nil
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
