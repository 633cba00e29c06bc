package client

import (
	"context"
)

// MutateWithUndo applies a local change, commits it, and reverts the local
// change with the state apply returned when the commit fails.
func MutateWithUndo[S, T any](ctx context.Context, apply func() S, revert func(S), commit func(ctx context.Context) (T, error)) (T, error) {
	saved := apply()
	result, err := commit(ctx)
	if err != nil {
		revert(saved)
		var zero T
		return zero, err
	}
	return result, nil
}

// Optimistic performs status changes that show up in the cache before the
// server confirms them
type Optimistic struct {
	api   *Client
	cache *QueryCache
}

// NewOptimistic creates an optimistic mutator over the given cache
func NewOptimistic(api *Client, cache *QueryCache) *Optimistic {
	return &Optimistic{api: api, cache: cache}
}

// statusUndo maps each rewritten cache key to the status its row held before
type statusUndo map[string]string

// UpdateLeadStatus sets a lead's status in the entity cache and in every
// cached list page holding it, then sends the update. A failed update puts
// back the previous status on the rows it rewrote, unless something else has
// changed them since. Either way the lead and lead lists are refetched.
func (o *Optimistic) UpdateLeadStatus(ctx context.Context, id uint, status string) (*Lead, error) {
	lead, err := MutateWithUndo(ctx,
		func() statusUndo {
			undo := make(statusUndo)
			set := func(key string, v interface{}) (interface{}, bool) {
				next, prev, changed := withLeadStatus(v, id, "", status)
				if changed {
					undo[key] = prev
				}
				return next, changed
			}
			o.cache.Update(DetailKey(ResourceLeads, id), set)
			o.cache.Update(ListPrefix(ResourceLeads), set)
			o.cache.Update(InfinitePrefix(ResourceLeads), set)
			return undo
		},
		func(undo statusUndo) {
			o.cache.Update(ResourceLeads+"/", func(key string, v interface{}) (interface{}, bool) {
				prev, ok := undo[key]
				if !ok {
					return nil, false
				}
				next, _, changed := withLeadStatus(v, id, status, prev)
				return next, changed
			})
		},
		func(ctx context.Context) (*Lead, error) {
			return o.api.UpdateLead(ctx, id, UpdateLeadInput{Status: &status})
		},
	)
	if err == nil {
		o.cache.Set(DetailKey(ResourceLeads, id), lead)
	}

	o.settle(ctx, DetailKey(ResourceLeads, id), ListPrefix(ResourceLeads), InfinitePrefix(ResourceLeads),
		ResourceCampaigns+"/", ResourceDashboard)
	return lead, err
}

// UpdateCampaignStatus is UpdateLeadStatus for campaigns
func (o *Optimistic) UpdateCampaignStatus(ctx context.Context, id uint, status string) (*Campaign, error) {
	campaign, err := MutateWithUndo(ctx,
		func() statusUndo {
			undo := make(statusUndo)
			set := func(key string, v interface{}) (interface{}, bool) {
				next, prev, changed := withCampaignStatus(v, id, "", status)
				if changed {
					undo[key] = prev
				}
				return next, changed
			}
			o.cache.Update(DetailKey(ResourceCampaigns, id), set)
			o.cache.Update(ListPrefix(ResourceCampaigns), set)
			return undo
		},
		func(undo statusUndo) {
			o.cache.Update(ResourceCampaigns+"/", func(key string, v interface{}) (interface{}, bool) {
				prev, ok := undo[key]
				if !ok {
					return nil, false
				}
				next, _, changed := withCampaignStatus(v, id, status, prev)
				return next, changed
			})
		},
		func(ctx context.Context) (*Campaign, error) {
			return o.api.UpdateCampaign(ctx, id, UpdateCampaignInput{Status: &status})
		},
	)
	if err == nil {
		o.cache.Set(DetailKey(ResourceCampaigns, id), campaign)
	}

	o.settle(ctx, DetailKey(ResourceCampaigns, id), ListPrefix(ResourceCampaigns), ResourceDashboard)
	return campaign, err
}

// settle refetches every query that may have changed
func (o *Optimistic) settle(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		o.cache.Invalidate(ctx, p)
	}
}

// withLeadStatus rewrites lead id to status to in a cached detail, list page
// or infinite list. A non-empty from limits the rewrite to a row currently in
// that status. It returns the row's previous status.
func withLeadStatus(v interface{}, id uint, from, to string) (interface{}, string, bool) {
	switch cur := v.(type) {
	case *Lead:
		if cur.ID != id || (from != "" && cur.Status != from) {
			return nil, "", false
		}
		next := *cur
		next.Status = to
		return &next, cur.Status, true
	case *Page[Lead]:
		data, prev, changed := replaceLeadStatus(cur.Data, id, from, to)
		if !changed {
			return nil, "", false
		}
		return &Page[Lead]{Data: data, Pagination: cur.Pagination}, prev, true
	case *InfinitePages[Lead]:
		pages := make([]Page[Lead], len(cur.Pages))
		hit, was := false, ""
		for i, page := range cur.Pages {
			data, prev, changed := replaceLeadStatus(page.Data, id, from, to)
			pages[i] = Page[Lead]{Data: data, Pagination: page.Pagination}
			if changed && !hit {
				hit, was = true, prev
			}
		}
		if !hit {
			return nil, "", false
		}
		return &InfinitePages[Lead]{Pages: pages}, was, true
	}
	return nil, "", false
}

func replaceLeadStatus(rows []Lead, id uint, from, to string) ([]Lead, string, bool) {
	for i := range rows {
		if rows[i].ID != id || (from != "" && rows[i].Status != from) {
			continue
		}
		out := make([]Lead, len(rows))
		copy(out, rows)
		out[i].Status = to
		return out, rows[i].Status, true
	}
	return rows, "", false
}

func withCampaignStatus(v interface{}, id uint, from, to string) (interface{}, string, bool) {
	switch cur := v.(type) {
	case *Campaign:
		if cur.ID != id || (from != "" && cur.Status != from) {
			return nil, "", false
		}
		next := *cur
		next.Status = to
		return &next, cur.Status, true
	case *Page[Campaign]:
		for i := range cur.Data {
			if cur.Data[i].ID != id || (from != "" && cur.Data[i].Status != from) {
				continue
			}
			data := make([]Campaign, len(cur.Data))
			copy(data, cur.Data)
			data[i].Status = to
			return &Page[Campaign]{Data: data, Pagination: cur.Pagination}, cur.Data[i].Status, true
		}
	}
	return nil, "", false
}
