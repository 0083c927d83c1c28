// Store handles are cached per selector so repeated requests against the
// same database do not reload it from disk.

package server

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lbassi/jsondb/internal/store"
)

// storeCacheSize bounds how many open databases are kept in memory.
const storeCacheSize = 16

// StoreCache memoizes store.Open per selector with LRU eviction.
type StoreCache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, store.Store]
}

// NewStoreCache builds an empty cache.
func NewStoreCache() *StoreCache {
	c, err := lru.New[string, store.Store](storeCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(fmt.Sprintf("failed to create store cache: %v", err))
	}
	return &StoreCache{lru: c}
}

// GetOrOpen returns the cached store for a selector, opening and caching it
// on first use. Open failures are not cached.
func (c *StoreCache) GetOrOpen(selector string) (store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.lru.Get(selector); ok {
		return st, nil
	}
	st, err := store.Open(selector)
	if err != nil {
		return nil, err
	}
	c.lru.Add(selector, st)
	return st, nil
}

// Invalidate drops a cached selector, forcing a reload on next use.
func (c *StoreCache) Invalidate(selector string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(selector)
}
