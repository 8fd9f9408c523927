package service

import (
	"testing"
	"time"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

func TestListCacheHitAndExpiry(t *testing.T) {
	c := newListCache(50 * time.Millisecond)
	key := c.key(rest.CollectionProducts, rest.ListQuery{Limit: 8})
	page := &rest.Page[catalog.Product]{Items: []catalog.Product{{ID: 1}}}

	cachePut(c, key, page)
	got, ok := cacheGet[catalog.Product](c, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got.Items) != 1 || got.Items[0].ID != 1 {
		t.Errorf("unexpected cached page %+v", got)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := cacheGet[catalog.Product](c, key); ok {
		t.Error("expected entry to expire")
	}
}

func TestListCacheDisabledWhenTTLZero(t *testing.T) {
	c := newListCache(0)
	key := c.key(rest.CollectionProducts, rest.ListQuery{})
	cachePut(c, key, &rest.Page[catalog.Product]{})
	if _, ok := cacheGet[catalog.Product](c, key); ok {
		t.Error("zero TTL must disable the cache")
	}
}

func TestListCacheKeyDistinguishesQueries(t *testing.T) {
	c := newListCache(time.Second)
	base := rest.ListQuery{Limit: 8}
	if c.key(rest.CollectionProducts, base) == c.key(rest.CollectionBrands, base) {
		t.Error("different collections must hash to different keys")
	}
	if c.key(rest.CollectionProducts, base) == c.key(rest.CollectionProducts, rest.ListQuery{Limit: 9}) {
		t.Error("different queries must hash to different keys")
	}
	if c.key(rest.CollectionProducts, base) != c.key(rest.CollectionProducts, rest.ListQuery{Limit: 8}) {
		t.Error("equal queries must hash to the same key")
	}
}

func TestListCacheClear(t *testing.T) {
	c := newListCache(time.Second)
	key := c.key(rest.CollectionProducts, rest.ListQuery{})
	cachePut(c, key, &rest.Page[catalog.Product]{})
	c.clear()
	if _, ok := cacheGet[catalog.Product](c, key); ok {
		t.Error("expected empty cache after clear")
	}
}
