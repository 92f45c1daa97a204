package cache

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"BlogAnalytics/internal/ports"
)

// Separator joins key segments.
const Separator = ":"

type entry struct {
	data      any
	expiresAt time.Time
}

// LRU is a bounded in-process cache with per-entry expiry.
type LRU struct {
	store *lru.Cache[string, entry]
	now   func() time.Time
}

var _ ports.Cache = (*LRU)(nil)

// NewLRU creates a cache holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = 512
	}
	store, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &LRU{store: store, now: time.Now}, nil
}

// Set stores data under key until ttl elapses.
func (c *LRU) Set(key string, data any, ttl time.Duration) {
	c.store.Add(key, entry{data: data, expiresAt: c.now().Add(ttl)})
}

// Get returns the live value under key. Expired entries are evicted on read.
func (c *LRU) Get(key string) (any, bool) {
	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.store.Remove(key)
		return nil, false
	}
	return e.data, true
}

// DeletePrefix removes prefix itself and every key of the form prefix:...
// Keys that merely share leading characters (blogPosts vs blogPostsArchive) survive.
func (c *LRU) DeletePrefix(prefix string) {
	nested := prefix + Separator
	for _, key := range c.store.Keys() {
		if key == prefix || strings.HasPrefix(key, nested) {
			c.store.Remove(key)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *LRU) Len() int {
	return c.store.Len()
}
