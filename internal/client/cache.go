package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a cached entry is served without a refetch
const DefaultStaleTime = time.Minute

// Resources used as the first segment of every query key
const (
	ResourceCampaigns = "campaigns"
	ResourceLeads     = "leads"
	ResourceDashboard = "dashboard"
)

// DetailKey is the query key of a single entity. The trailing slash keeps
// the key of one id from being a prefix of another.
func DetailKey(resource string, id uint) string {
	return fmt.Sprintf("%s/detail/%d/", resource, id)
}

// ListPrefix prefixes the keys of every list page of a resource
func ListPrefix(resource string) string {
	return resource + "/list"
}

// ListKey is the query key of one list page: resource, filters, sort and window
func ListKey(resource string, q ListQuery) string {
	return ListPrefix(resource) + "?" + q.Values().Encode()
}

// InfinitePrefix prefixes the keys of every infinite list of a resource
func InfinitePrefix(resource string) string {
	return resource + "/infinite"
}

// InfiniteKey is the query key of an accumulated infinite list. The page
// number is not part of it.
func InfiniteKey(resource string, q ListQuery) string {
	q.Page = 0
	return InfinitePrefix(resource) + "?" + q.Values().Encode()
}

type fetcher func(ctx context.Context) (interface{}, error)

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
	stale     bool
	gen       uint64
	fetch     fetcher
}

// QueryCache caches query results by key. Entries are fresh for the stale
// time; stale entries are served while a background refetch runs. Concurrent
// fetches of one key share a single request.
type QueryCache struct {
	mu        sync.Mutex
	entries   map[string]*cacheEntry
	gen       uint64
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	bg        sync.WaitGroup
}

// CacheOption configures a QueryCache
type CacheOption func(*QueryCache)

// WithStaleTime overrides DefaultStaleTime
func WithStaleTime(d time.Duration) CacheOption {
	return func(c *QueryCache) { c.staleTime = d }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) CacheOption {
	return func(c *QueryCache) { c.now = now }
}

// NewQueryCache creates an empty cache
func NewQueryCache(opts ...CacheOption) *QueryCache {
	c := &QueryCache{
		entries:   make(map[string]*cacheEntry),
		staleTime: DefaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value of key, calling fetch when there is none.
// A stale value is returned immediately and refreshed in the background.
func Fetch[T any](ctx context.Context, c *QueryCache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	f := func(ctx context.Context) (interface{}, error) { return fetch(ctx) }

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.value != nil {
		if e.fetch == nil {
			e.fetch = f
		}
		fresh := !e.stale && c.now().Sub(e.fetchedAt) < c.staleTime
		v, typed := e.value.(T)
		c.mu.Unlock()
		if !typed {
			return zero, fmt.Errorf("cached value of %s has type %T", key, e.value)
		}
		if !fresh {
			c.refreshInBackground(ctx, key, f)
		}
		return v, nil
	}
	c.mu.Unlock()

	v, err := c.load(ctx, key, f)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value of %s has type %T", key, v)
	}
	return typed, nil
}

// load runs f once per key at a time and stores its result unless the entry
// was written while the fetch was in flight
func (c *QueryCache) load(ctx context.Context, key string, f fetcher) (interface{}, error) {
	c.mu.Lock()
	startGen := c.genOf(key)
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return f(ctx)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.genOf(key) == startGen {
		c.put(key, v)
		c.entries[key].fetch = f
	} else if e, ok := c.entries[key]; ok && e.value != nil {
		return e.value, nil
	}
	return v, nil
}

func (c *QueryCache) refreshInBackground(ctx context.Context, key string, f fetcher) {
	ctx = context.WithoutCancel(ctx)
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		_, _ = c.load(ctx, key, f)
	}()
}

// genOf returns the write generation of key; callers hold mu
func (c *QueryCache) genOf(key string) uint64 {
	if e, ok := c.entries[key]; ok {
		return e.gen
	}
	return 0
}

// put stores a fresh value; callers hold mu
func (c *QueryCache) put(key string, v interface{}) {
	c.gen++
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	e.value = v
	e.fetchedAt = c.now()
	e.stale = false
	e.gen = c.gen
}

// Get returns the cached value of key
func (c *QueryCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.value == nil {
		return nil, false
	}
	return e.value, true
}

// Set stores v under key as fresh data
func (c *QueryCache) Set(key string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, v)
}

// Update rewrites every entry whose key starts with prefix. fn returns the
// replacement and whether the entry changed; it must not modify its argument.
func (c *QueryCache) Update(prefix string, fn func(key string, v interface{}) (interface{}, bool)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if !strings.HasPrefix(key, prefix) || e.value == nil {
			continue
		}
		if next, changed := fn(key, e.value); changed {
			c.gen++
			e.value = next
			e.gen = c.gen
			n++
		}
	}
	return n
}

// Invalidate marks every entry under prefix stale and refetches, in the
// background, those that were loaded through Fetch
func (c *QueryCache) Invalidate(ctx context.Context, prefix string) {
	c.mu.Lock()
	type job struct {
		key string
		f   fetcher
	}
	var jobs []job
	for key, e := range c.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		e.stale = true
		if e.fetch != nil {
			jobs = append(jobs, job{key: key, f: e.fetch})
		}
	}
	c.mu.Unlock()

	for _, j := range jobs {
		c.refreshInBackground(ctx, j.key, j.f)
	}
}

// IsStale reports whether key has no fresh entry
func (c *QueryCache) IsStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return !ok || e.stale || c.now().Sub(e.fetchedAt) >= c.staleTime
}

// Wait blocks until every background refetch has finished
func (c *QueryCache) Wait() {
	c.bg.Wait()
}
