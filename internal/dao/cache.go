package dao

import (
	"context"
	"sync"
	"time"

	"github.com/smarttable/smarttable/internal/model1"
)

// DefaultCacheTTL is the default time-to-live for cached pages.
const DefaultCacheTTL = 5 * time.Second

// cacheEntry holds a cached page with its timestamp.
type cacheEntry struct {
	page      *Page
	timestamp time.Time
}

// PageCache provides TTL-based caching for remote pages.
type PageCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time
	mx   sync.RWMutex
}

// NewPageCache creates a new PageCache with the specified TTL.
func NewPageCache(ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PageCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves a cached page for the given key.
// Returns nil if the key is not found or the entry has expired.
func (c *PageCache) Get(key string) *Page {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil
	}

	if c.now().Sub(entry.timestamp) > c.ttl {
		return nil
	}

	return entry.page
}

// Set stores a page in the cache with the given key.
func (c *PageCache) Set(key string, page *Page) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		page:      page,
		timestamp: c.now(),
	}
}

// Clear removes all entries from the cache.
func (c *PageCache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data = make(map[string]cacheEntry)
}

// CachedFetcher serves repeated queries from a PageCache.
type CachedFetcher struct {
	Fetcher
	cache *PageCache
}

// NewCachedFetcher wraps f with a page cache.
func NewCachedFetcher(f Fetcher, cache *PageCache) *CachedFetcher {
	return &CachedFetcher{Fetcher: f, cache: cache}
}

// Fetch implements Fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, q Query) (*Page, error) {
	key := q.Key()
	if p := c.cache.Get(key); p != nil {
		return p, nil
	}

	p, err := c.Fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, p)

	return p, nil
}

// Invalidate implements Invalidator.
func (c *CachedFetcher) Invalidate() {
	c.cache.Clear()
}

// Remove implements Remover when the wrapped fetcher does.
func (c *CachedFetcher) Remove(r *model1.Row) bool {
	rm, ok := c.Fetcher.(Remover)
	if !ok {
		return false
	}
	defer c.cache.Clear()

	return rm.Remove(r)
}
