package client

import (
	"context"
)

// Queries serves API reads through a QueryCache
type Queries struct {
	api   *Client
	cache *QueryCache
}

// NewQueries creates a cached reader
func NewQueries(api *Client, cache *QueryCache) *Queries {
	return &Queries{api: api, cache: cache}
}

// Cache returns the underlying cache
func (q *Queries) Cache() *QueryCache {
	return q.cache
}

// Campaigns returns one page of campaigns
func (q *Queries) Campaigns(ctx context.Context, lq ListQuery) (*Page[Campaign], error) {
	return Fetch(ctx, q.cache, ListKey(ResourceCampaigns, lq), func(ctx context.Context) (*Page[Campaign], error) {
		return q.api.ListCampaigns(ctx, lq)
	})
}

// Campaign returns one campaign with its stats
func (q *Queries) Campaign(ctx context.Context, id uint) (*Campaign, error) {
	return Fetch(ctx, q.cache, DetailKey(ResourceCampaigns, id), func(ctx context.Context) (*Campaign, error) {
		return q.api.GetCampaign(ctx, id)
	})
}

// Leads returns one page of leads. A CampaignID filter shares its cache entry
// with the campaign's own lead list.
func (q *Queries) Leads(ctx context.Context, lq ListQuery) (*Page[Lead], error) {
	return Fetch(ctx, q.cache, ListKey(ResourceLeads, lq), func(ctx context.Context) (*Page[Lead], error) {
		return q.api.ListLeads(ctx, lq)
	})
}

// Lead returns one lead
func (q *Queries) Lead(ctx context.Context, id uint) (*Lead, error) {
	return Fetch(ctx, q.cache, DetailKey(ResourceLeads, id), func(ctx context.Context) (*Lead, error) {
		return q.api.GetLead(ctx, id)
	})
}

// Dashboard returns the dashboard summary
func (q *Queries) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	return Fetch(ctx, q.cache, ResourceDashboard, func(ctx context.Context) (*DashboardSummary, error) {
		return q.api.DashboardStats(ctx)
	})
}

// InfiniteLeads returns an infinite lead list backed by the infinite-scroll endpoint
func (q *Queries) InfiniteLeads(lq ListQuery) *InfiniteQuery[Lead] {
	return NewInfiniteQuery(q.cache, ResourceLeads, lq, q.api.ListLeadsInfinite)
}
