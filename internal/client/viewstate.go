package client

import (
	"sync"
)

// Sort is a sort field and direction
type Sort struct {
	By    string `json:"sortBy" yaml:"sortBy"`
	Order string `json:"sortOrder" yaml:"sortOrder"`
}

// Filters narrow a list
type Filters struct {
	Search     string `json:"search" yaml:"search"`
	Status     string `json:"status" yaml:"status"`
	CampaignID uint   `json:"campaignId" yaml:"campaignId"`
}

// ViewSnapshot is a copy of the view state
type ViewSnapshot struct {
	SelectedLead     uint    `json:"selectedLead" yaml:"selectedLead"`
	SelectedCampaign uint    `json:"selectedCampaign" yaml:"selectedCampaign"`
	LeadSort         Sort    `json:"leadSort" yaml:"leadSort"`
	CampaignSort     Sort    `json:"campaignSort" yaml:"campaignSort"`
	LeadFilters      Filters `json:"leadFilters" yaml:"leadFilters"`
	CampaignFilters  Filters `json:"campaignFilters" yaml:"campaignFilters"`
}

// ViewState holds the selection, sort and filters of one UI session. Create
// one per session and pass it to whatever renders that session.
type ViewState struct {
	mu        sync.RWMutex
	state     ViewSnapshot
	listeners map[int]func(ViewSnapshot)
	nextID    int
}

// NewViewState creates a view state sorted newest first
func NewViewState() *ViewState {
	newest := Sort{By: "createdAt", Order: "desc"}
	return &ViewState{
		state:     ViewSnapshot{LeadSort: newest, CampaignSort: newest},
		listeners: make(map[int]func(ViewSnapshot)),
	}
}

// Snapshot returns a copy of the current state
func (v *ViewState) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Subscribe registers fn to run after every change. It returns a function that unregisters it.
func (v *ViewState) Subscribe(fn func(ViewSnapshot)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// change applies fn under the lock and notifies listeners outside of it
func (v *ViewState) change(fn func(s *ViewSnapshot)) {
	v.mu.Lock()
	fn(&v.state)
	snap := v.state
	listeners := make([]func(ViewSnapshot), 0, len(v.listeners))
	for _, l := range v.listeners {
		listeners = append(listeners, l)
	}
	v.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// SelectLead opens a lead in the detail panel; 0 closes it
func (v *ViewState) SelectLead(id uint) {
	v.change(func(s *ViewSnapshot) { s.SelectedLead = id })
}

// SelectCampaign opens a campaign in the detail panel; 0 closes it
func (v *ViewState) SelectCampaign(id uint) {
	v.change(func(s *ViewSnapshot) { s.SelectedCampaign = id })
}

// SelectedLead returns the open lead
func (v *ViewState) SelectedLead() (uint, bool) {
	s := v.Snapshot()
	return s.SelectedLead, s.SelectedLead != 0
}

// SelectedCampaign returns the open campaign
func (v *ViewState) SelectedCampaign() (uint, bool) {
	s := v.Snapshot()
	return s.SelectedCampaign, s.SelectedCampaign != 0
}

// SetLeadSort changes the lead list order
func (v *ViewState) SetLeadSort(sort Sort) {
	v.change(func(s *ViewSnapshot) { s.LeadSort = sort })
}

// SetCampaignSort changes the campaign list order
func (v *ViewState) SetCampaignSort(sort Sort) {
	v.change(func(s *ViewSnapshot) { s.CampaignSort = sort })
}

// SetLeadFilters changes the lead list filters
func (v *ViewState) SetLeadFilters(f Filters) {
	v.change(func(s *ViewSnapshot) { s.LeadFilters = f })
}

// SetCampaignFilters changes the campaign list filters
func (v *ViewState) SetCampaignFilters(f Filters) {
	v.change(func(s *ViewSnapshot) { s.CampaignFilters = f })
}

// LeadQuery builds the lead list query for the current sort and filters
func (v *ViewState) LeadQuery(limit int) ListQuery {
	s := v.Snapshot()
	return ListQuery{
		Limit:      limit,
		Search:     s.LeadFilters.Search,
		Status:     s.LeadFilters.Status,
		CampaignID: s.LeadFilters.CampaignID,
		SortBy:     s.LeadSort.By,
		SortOrder:  s.LeadSort.Order,
	}
}

// CampaignQuery builds the campaign list query for the current sort and filters
func (v *ViewState) CampaignQuery(page, limit int) ListQuery {
	s := v.Snapshot()
	return ListQuery{
		Page:      page,
		Limit:     limit,
		Search:    s.CampaignFilters.Search,
		Status:    s.CampaignFilters.Status,
		SortBy:    s.CampaignSort.By,
		SortOrder: s.CampaignSort.Order,
	}
}
