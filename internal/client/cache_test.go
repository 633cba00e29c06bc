package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func counter(n *atomic.Int64) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) {
		return n.Add(1), nil
	}
}

func TestQueryKeys(t *testing.T) {
	assert.Equal(t, "leads/detail/1/", DetailKey(ResourceLeads, 1))
	assert.NotContains(t, DetailKey(ResourceLeads, 10), DetailKey(ResourceLeads, 1))

	a := ListKey(ResourceLeads, ListQuery{Status: LeadPending, Page: 1})
	b := ListKey(ResourceLeads, ListQuery{Page: 1, Status: LeadPending})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ListKey(ResourceLeads, ListQuery{Status: LeadPending, Page: 2}))

	assert.Equal(t,
		InfiniteKey(ResourceLeads, ListQuery{Page: 1, Search: "A"}),
		InfiniteKey(ResourceLeads, ListQuery{Page: 4, Search: "A"}))
}

func TestFetchServesFreshEntries(t *testing.T) {
	cache := NewQueryCache()
	var calls atomic.Int64
	ctx := context.Background()

	v1, err := Fetch(ctx, cache, "dashboard", counter(&calls))
	require.NoError(t, err)
	v2, err := Fetch(ctx, cache, "dashboard", counter(&calls))
	require.NoError(t, err)

	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(1), v2)
	assert.Equal(t, int64(1), calls.Load())
	assert.False(t, cache.IsStale("dashboard"))
}

func TestFetchSharesConcurrentRequests(t *testing.T) {
	cache := NewQueryCache()
	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), cache, "leads/list?", fetch)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "ok", r)
	}
}

func TestFetchStaleWhileRevalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewQueryCache(WithClock(clock.Now), WithStaleTime(time.Minute))
	var calls atomic.Int64
	ctx := context.Background()

	_, err := Fetch(ctx, cache, "campaigns/detail/1/", counter(&calls))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.True(t, cache.IsStale("campaigns/detail/1/"))

	v, err := Fetch(ctx, cache, "campaigns/detail/1/", counter(&calls))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "stale value is served immediately")

	cache.Wait()
	got, ok := cache.Get("campaigns/detail/1/")
	require.True(t, ok)
	assert.Equal(t, int64(2), got)
	assert.False(t, cache.IsStale("campaigns/detail/1/"))
}

func TestFetchErrorIsNotCached(t *testing.T) {
	cache := NewQueryCache()
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), cache, "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := cache.Get("k")
	assert.False(t, ok)
}

func TestFetchDoesNotOverwriteNewerWrites(t *testing.T) {
	cache := NewQueryCache()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), cache, "leads/detail/1/", func(context.Context) (string, error) {
			close(started)
			<-release
			return "server", nil
		})
		done <- v
	}()

	<-started
	cache.Set("leads/detail/1/", "optimistic")
	close(release)

	assert.Equal(t, "optimistic", <-done)
	got, _ := cache.Get("leads/detail/1/")
	assert.Equal(t, "optimistic", got)
}

func TestUpdateRewritesMatchingEntries(t *testing.T) {
	cache := NewQueryCache()
	cache.Set("leads/list?a", 1)
	cache.Set("leads/list?b", 2)
	cache.Set("campaigns/list?a", 3)

	n := cache.Update(ListPrefix(ResourceLeads), func(_ string, v interface{}) (interface{}, bool) {
		if v.(int) == 2 {
			return 20, true
		}
		return nil, false
	})

	assert.Equal(t, 1, n)
	got, _ := cache.Get("leads/list?b")
	assert.Equal(t, 20, got)
	got, _ = cache.Get("leads/list?a")
	assert.Equal(t, 1, got)
}

func TestInvalidateRefetches(t *testing.T) {
	cache := NewQueryCache()
	var calls atomic.Int64
	ctx := context.Background()

	_, err := Fetch(ctx, cache, "leads/list?page=1", counter(&calls))
	require.NoError(t, err)
	cache.Set("leads/list?page=2", int64(99))

	cache.Invalidate(ctx, ListPrefix(ResourceLeads))
	assert.True(t, cache.IsStale("leads/list?page=2"))

	cache.Wait()
	assert.Equal(t, int64(2), calls.Load())
	got, _ := cache.Get("leads/list?page=1")
	assert.Equal(t, int64(2), got)
	assert.True(t, cache.IsStale("leads/list?page=2"), "entries without a fetcher stay stale")
}
