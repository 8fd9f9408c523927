package service

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
)

// listCache is a small TTL cache for list responses, keyed by an xxhash of
// the collection name and the encoded query. It exists so a CLI invocation
// that renders the same listing twice (e.g. a table plus a summary line)
// costs one round trip, and so tests can pin the coalescing behavior.
type listCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[uint64]listCacheEntry
}

type listCacheEntry struct {
	value     any
	expiresAt time.Time
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{
		ttl:     ttl,
		entries: make(map[uint64]listCacheEntry),
	}
}

// key hashes the collection and the deterministic query encoding.
func (c *listCache) key(collection string, q rest.ListQuery) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(collection)
	_, _ = h.Write([]byte{0}) // separator
	_, _ = h.WriteString(q.Encode())
	return h.Sum64()
}

func (c *listCache) get(key uint64) (any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *listCache) put(key uint64, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = listCacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// clear empties the cache. Called after any catalog mutation so stale
// listings never outlive a write.
func (c *listCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]listCacheEntry)
}

// cacheGet retrieves a typed page from the cache.
func cacheGet[T any](c *listCache, key uint64) (*rest.Page[T], bool) {
	v, ok := c.get(key)
	if !ok {
		return nil, false
	}
	page, ok := v.(*rest.Page[T])
	return page, ok
}

// cachePut stores a typed page in the cache.
func cachePut[T any](c *listCache, key uint64, page *rest.Page[T]) {
	c.put(key, page)
}
