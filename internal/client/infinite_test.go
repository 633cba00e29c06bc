package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedLeads serves a fixed set of leads in pages of q.Limit
type pagedLeads struct {
	mu    sync.Mutex
	total int
	calls []ListQuery
	gate  chan struct{}
	err   error
}

func (p *pagedLeads) fetch(ctx context.Context, q ListQuery) (*Page[Lead], error) {
	p.mu.Lock()
	p.calls = append(p.calls, q)
	gate, err := p.gate, p.err
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if end > p.total {
		end = p.total
	}
	page := &Page[Lead]{Pagination: Pagination{Page: q.Page, Limit: q.Limit, Total: int64(p.total), HasMore: end < p.total}}
	for i := start; i < end; i++ {
		page.Data = append(page.Data, Lead{ID: uint(i + 1), Status: LeadPending})
	}
	return page, nil
}

func (p *pagedLeads) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestInfiniteQueryAccumulatesPages(t *testing.T) {
	cache := NewQueryCache()
	src := &pagedLeads{total: 25}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)
	ctx := context.Background()

	assert.True(t, q.HasMore(), "an unloaded list has more")

	for i := 0; i < 3; i++ {
		require.NoError(t, q.FetchNextPage(ctx))
	}

	assert.Equal(t, 3, q.Pages())
	assert.Len(t, q.Items(), 25)
	assert.Equal(t, uint(1), q.Items()[0].ID)
	assert.Equal(t, uint(25), q.Items()[24].ID)
	assert.False(t, q.HasMore())

	require.NoError(t, q.FetchNextPage(ctx))
	assert.Equal(t, 3, src.callCount(), "no fetch after the last page")

	for i, call := range src.calls {
		assert.Equal(t, i+1, call.Page)
	}
}

func TestInfiniteQueryIgnoresFetchWhileInFlight(t *testing.T) {
	cache := NewQueryCache()
	src := &pagedLeads{total: 25, gate: make(chan struct{})}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- q.FetchNextPage(ctx) }()

	require.Eventually(t, q.IsFetching, time.Second, 5*time.Millisecond)
	require.NoError(t, q.FetchNextPage(ctx))

	close(src.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, 1, q.Pages())
	assert.False(t, q.IsFetching())
}

func TestInfiniteQuerySetFiltersRestarts(t *testing.T) {
	cache := NewQueryCache()
	src := &pagedLeads{total: 25}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)
	ctx := context.Background()

	require.NoError(t, q.FetchNextPage(ctx))
	require.NoError(t, q.FetchNextPage(ctx))
	firstKey := q.Key()

	q.SetFilters(ListQuery{Limit: 10, Status: LeadPending, Page: 7})
	assert.NotEqual(t, firstKey, q.Key())
	assert.Equal(t, 0, q.Pages())

	require.NoError(t, q.FetchNextPage(ctx))
	last := src.calls[len(src.calls)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, LeadPending, last.Status)

	q.SetFilters(ListQuery{Limit: 10})
	assert.Equal(t, 2, q.Pages(), "pages of a previously loaded key are reused")
}

func TestInfiniteQuerySetFiltersDuringFetch(t *testing.T) {
	cache := NewQueryCache()
	src := &pagedLeads{total: 25, gate: make(chan struct{})}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)
	ctx := context.Background()

	stale := make(chan error, 1)
	go func() { stale <- q.FetchNextPage(ctx) }()
	require.Eventually(t, q.IsFetching, time.Second, 5*time.Millisecond)

	q.SetFilters(ListQuery{Limit: 10, Status: LeadContacted})
	assert.False(t, q.IsFetching(), "nothing is in flight for the new filters")

	fresh := make(chan error, 1)
	go func() { fresh <- q.FetchNextPage(ctx) }()
	require.Eventually(t, func() bool { return src.callCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, q.IsFetching())

	close(src.gate)
	require.NoError(t, <-stale)
	require.NoError(t, <-fresh)

	src.mu.Lock()
	last := src.calls[1]
	src.mu.Unlock()
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, LeadContacted, last.Status)
	assert.Equal(t, 1, q.Pages(), "page 1 of the new filters is loaded")
	assert.False(t, q.IsFetching())

	q.SetFilters(ListQuery{Limit: 10})
	assert.Equal(t, 1, q.Pages(), "the page fetched for the old filters is kept under their key")
}

func TestInfiniteQueryInvalidateReloadsLoadedPages(t *testing.T) {
	cache := NewQueryCache()
	src := &pagedLeads{total: 25}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)
	ctx := context.Background()

	require.NoError(t, q.FetchNextPage(ctx))
	require.NoError(t, q.FetchNextPage(ctx))

	src.mu.Lock()
	src.total = 12
	src.mu.Unlock()

	cache.Invalidate(ctx, InfinitePrefix(ResourceLeads))
	cache.Wait()

	assert.Equal(t, 4, src.callCount())
	assert.Equal(t, 2, q.Pages())
	assert.Len(t, q.Items(), 12)
	assert.False(t, q.HasMore())
}

func TestInfiniteQueryFetchError(t *testing.T) {
	cache := NewQueryCache()
	boom := errors.New("boom")
	src := &pagedLeads{total: 25, err: boom}
	q := NewInfiniteQuery(cache, ResourceLeads, ListQuery{Limit: 10}, src.fetch)

	err := q.FetchNextPage(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, q.Err(), boom)
	assert.Equal(t, 0, q.Pages())
	assert.False(t, q.IsFetching())
}
