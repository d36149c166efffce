package mountvacation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/va6996/mountvacation-mcp/log"
	"golang.org/x/sync/singleflight"
)

// CancelledMessage is returned to a caller whose context ends before its search does.
const CancelledMessage = "Search cancelled."

// Store is a shared second-level cache holding JSON payloads across processes.
// Get also reports how long the entry has left to live; zero means unknown.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type cacheEntry struct {
	result  *SearchResult
	expires time.Time
}

// ResultCache is a bounded LRU of search payloads with per-entry expiry,
// optionally backed by a Store. Concurrent misses on one key share a single computation.
type ResultCache struct {
	l1       *expirable.LRU[string, cacheEntry]
	store    Store
	ttl      time.Duration
	errorTTL time.Duration
	group    singleflight.Group

	// Now is the clock used for entry expiry.
	Now func() time.Time
}

// NewResultCache creates a cache holding at most size entries. Successful payloads live for ttl,
// error payloads for errorTTL; a non-positive errorTTL disables caching of errors. store may be nil.
func NewResultCache(size int, ttl, errorTTL time.Duration, store Store) *ResultCache {
	if size <= 0 {
		size = 1
	}
	maxTTL := ttl
	if errorTTL > maxTTL {
		maxTTL = errorTTL
	}
	return &ResultCache{
		l1:       expirable.NewLRU[string, cacheEntry](size, nil, maxTTL),
		store:    store,
		ttl:      ttl,
		errorTTL: errorTTL,
		Now:      time.Now,
	}
}

func (c *ResultCache) ttlFor(r *SearchResult) time.Duration {
	if r.IsError() {
		return c.errorTTL
	}
	return c.ttl
}

// Get returns the cached payload for key, consulting the store on an in-process miss.
func (c *ResultCache) Get(ctx context.Context, key string) (*SearchResult, bool) {
	if e, ok := c.l1.Get(key); ok {
		if c.Now().Before(e.expires) {
			return e.result, true
		}
		c.l1.Remove(key)
	}

	if c.store == nil {
		return nil, false
	}
	raw, remaining, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warnf(ctx, "ResultCache: store get %q failed: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Warnf(ctx, "ResultCache: dropping undecodable entry %q: %v", key, err)
		if err := c.store.Delete(ctx, key); err != nil {
			log.Warnf(ctx, "ResultCache: store delete %q failed: %v", key, err)
		}
		return nil, false
	}
	ttl := c.ttlFor(&result)
	if remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		c.l1.Add(key, cacheEntry{result: &result, expires: c.Now().Add(ttl)})
	}
	log.Debugf(ctx, "ResultCache: store hit for %q", key)
	return &result, true
}

// Set stores result under key unless its TTL is zero.
func (c *ResultCache) Set(ctx context.Context, key string, result *SearchResult) {
	ttl := c.ttlFor(result)
	if ttl <= 0 {
		return
	}
	c.l1.Add(key, cacheEntry{result: result, expires: c.Now().Add(ttl)})

	if c.store == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		log.Errorf(ctx, "ResultCache: failed to encode %q: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		log.Warnf(ctx, "ResultCache: store set %q failed: %v", key, err)
	}
}

// Do returns the cached payload for key or runs compute once for all concurrent callers.
// compute reports whether its result may be cached. It runs on a context detached from any
// single caller's cancellation; a caller whose own ctx ends stops waiting and gets a
// cancellation payload while the others keep waiting for the shared result.
func (c *ResultCache) Do(ctx context.Context, key string, compute func(ctx context.Context) (*SearchResult, bool)) *SearchResult {
	if r, ok := c.Get(ctx, key); ok {
		log.Infof(ctx, "ResultCache: hit %q", key)
		return r
	}
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if r, ok := c.Get(shared, key); ok {
			return r, nil
		}
		r, cacheable := compute(shared)
		if cacheable {
			c.Set(shared, key, r)
		}
		return r, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			log.Debugf(ctx, "ResultCache: shared in-flight result for %q", key)
		}
		return res.Val.(*SearchResult)
	case <-ctx.Done():
		log.Infof(ctx, "ResultCache: caller left %q before the search finished: %v", key, ctx.Err())
		return &SearchResult{Error: CancelledMessage}
	}
}

// Ping checks the backing store, if any.
func (c *ResultCache) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Ping(ctx)
}

// Len returns the number of in-process entries, including not yet reaped expired ones.
func (c *ResultCache) Len() int {
	return c.l1.Len()
}

// Purge drops every in-process entry.
func (c *ResultCache) Purge() {
	c.l1.Purge()
}
