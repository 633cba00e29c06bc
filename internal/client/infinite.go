package client

import (
	"context"
	"fmt"
	"sync"
)

// InfinitePages is the cached state of an infinite list: every page loaded so far, in order
type InfinitePages[T any] struct {
	Pages []Page[T]
}

// HasMore reports whether another page exists after the last loaded one
func (p *InfinitePages[T]) HasMore() bool {
	if p == nil || len(p.Pages) == 0 {
		return true
	}
	return p.Pages[len(p.Pages)-1].Pagination.HasMore
}

// Items flattens the loaded pages
func (p *InfinitePages[T]) Items() []T {
	if p == nil {
		return nil
	}
	var items []T
	for _, page := range p.Pages {
		items = append(items, page.Data...)
	}
	return items
}

// PageFetcher fetches one page of a list
type PageFetcher[T any] func(ctx context.Context, q ListQuery) (*Page[T], error)

// InfiniteQuery accumulates the pages of a list under a key made of the
// resource, filters and sort. At most one next-page fetch runs per key.
type InfiniteQuery[T any] struct {
	mu       sync.Mutex
	cache    *QueryCache
	resource string
	query    ListQuery
	fetch    PageFetcher[T]
	inFlight map[string]bool
	err      error
}

// NewInfiniteQuery creates an infinite query. Nothing is fetched until FetchNextPage.
func NewInfiniteQuery[T any](cache *QueryCache, resource string, q ListQuery, fetch PageFetcher[T]) *InfiniteQuery[T] {
	q.Page = 0
	return &InfiniteQuery[T]{cache: cache, resource: resource, query: q, fetch: fetch, inFlight: make(map[string]bool)}
}

// Key returns the cache key of the current filters
func (q *InfiniteQuery[T]) Key() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return InfiniteKey(q.resource, q.query)
}

func (q *InfiniteQuery[T]) data(key string) *InfinitePages[T] {
	v, ok := q.cache.Get(key)
	if !ok {
		return nil
	}
	pages, _ := v.(*InfinitePages[T])
	return pages
}

// FetchNextPage loads the page after the last loaded one. It is a no-op while
// another fetch for the same key is in flight or when the last page reported
// no more data.
func (q *InfiniteQuery[T]) FetchNextPage(ctx context.Context) error {
	q.mu.Lock()
	key := InfiniteKey(q.resource, q.query)
	current := q.data(key)
	if q.inFlight[key] || !current.HasMore() {
		q.mu.Unlock()
		return nil
	}
	q.inFlight[key] = true
	query := q.query
	query.Page = len(current.pagesOrNil()) + 1
	q.mu.Unlock()

	page, err := q.fetch(ctx, query)

	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, key)
	// the filters may have changed while the page was in flight; the page
	// still belongs to the key it was fetched for
	isCurrent := key == InfiniteKey(q.resource, q.query)
	if err != nil {
		if isCurrent {
			q.err = err
		}
		return fmt.Errorf("failed to fetch page %d: %w", query.Page, err)
	}
	if isCurrent {
		q.err = nil
	}

	latest := q.data(key)
	if len(latest.pagesOrNil()) != query.Page-1 {
		// the list was reset or refetched meanwhile
		return nil
	}
	next := &InfinitePages[T]{Pages: make([]Page[T], 0, query.Page)}
	next.Pages = append(next.Pages, latest.pagesOrNil()...)
	next.Pages = append(next.Pages, *page)
	q.cache.Set(key, next)
	q.registerRefetch(key, query)
	return nil
}

// registerRefetch lets cache invalidation reload every loaded page
func (q *InfiniteQuery[T]) registerRefetch(key string, query ListQuery) {
	_, _ = Fetch(context.Background(), q.cache, key, func(ctx context.Context) (*InfinitePages[T], error) {
		return q.refetch(ctx, key, query)
	})
}

// refetch reloads as many pages as are currently cached
func (q *InfiniteQuery[T]) refetch(ctx context.Context, key string, query ListQuery) (*InfinitePages[T], error) {
	n := len(q.data(key).pagesOrNil())
	if n == 0 {
		n = 1
	}
	out := &InfinitePages[T]{Pages: make([]Page[T], 0, n)}
	for i := 1; i <= n; i++ {
		query.Page = i
		page, err := q.fetch(ctx, query)
		if err != nil {
			return nil, err
		}
		out.Pages = append(out.Pages, *page)
		if !page.Pagination.HasMore {
			break
		}
	}
	return out, nil
}

// SetFilters switches to new filters and sort. Pagination restarts from page
// 1 unless pages for the new key are already cached.
func (q *InfiniteQuery[T]) SetFilters(filters ListQuery) {
	q.mu.Lock()
	defer q.mu.Unlock()
	filters.Page = 0
	q.query = filters
	q.err = nil
}

// Items returns the rows of every loaded page, in order
func (q *InfiniteQuery[T]) Items() []T {
	return q.data(q.Key()).Items()
}

// Pages returns how many pages are loaded
func (q *InfiniteQuery[T]) Pages() int {
	return len(q.data(q.Key()).pagesOrNil())
}

// HasMore reports whether FetchNextPage would load anything
func (q *InfiniteQuery[T]) HasMore() bool {
	return q.data(q.Key()).HasMore()
}

// IsFetching reports whether a page fetch for the current filters is in flight
func (q *InfiniteQuery[T]) IsFetching() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight[InfiniteKey(q.resource, q.query)]
}

// Err returns the error of the last failed fetch
func (q *InfiniteQuery[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (p *InfinitePages[T]) pagesOrNil() []Page[T] {
	if p == nil {
		return nil
	}
	return p.Pages
}
