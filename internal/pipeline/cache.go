package pipeline

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResultCache keeps recent results keyed by upload content hash so repeated
// uploads skip the renderer.
type ResultCache struct {
	c *gocache.Cache
}

// NewResultCache returns a cache whose entries expire after ttl. A ttl of
// zero or less disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return &ResultCache{}
	}
	return &ResultCache{c: gocache.New(ttl, 2*ttl)}
}

// Get returns a shallow copy of the cached result so callers may set
// per-request fields.
func (rc *ResultCache) Get(key string) (*Result, bool) {
	if rc == nil || rc.c == nil {
		return nil, false
	}
	v, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	r := *v.(*Result)
	return &r, true
}

func (rc *ResultCache) Put(key string, r *Result) {
	if rc == nil || rc.c == nil || r == nil {
		return
	}
	stored := *r
	rc.c.SetDefault(key, &stored)
}

func (rc *ResultCache) Len() int {
	if rc == nil || rc.c == nil {
		return 0
	}
	return rc.c.ItemCount()
}
