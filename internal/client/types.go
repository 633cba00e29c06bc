package client

import (
	"net/url"
	"strconv"
	"time"
)

// Campaign statuses
const (
	CampaignActive   = "active"
	CampaignInactive = "inactive"
	CampaignDraft    = "draft"
)

// Lead statuses
const (
	LeadPending   = "pending"
	LeadContacted = "contacted"
	LeadResponded = "responded"
	LeadConverted = "converted"
	LeadRejected  = "rejected"
)

// LeadStats counts leads per status
type LeadStats struct {
	Pending   int64 `json:"pending" yaml:"pending"`
	Contacted int64 `json:"contacted" yaml:"contacted"`
	Responded int64 `json:"responded" yaml:"responded"`
	Converted int64 `json:"converted" yaml:"converted"`
	Rejected  int64 `json:"rejected" yaml:"rejected"`
}

// Campaign as returned by the API
type Campaign struct {
	ID         uint       `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Status     string     `json:"status" yaml:"status"`
	UserID     string     `json:"userId" yaml:"userId"`
	StartDate  *time.Time `json:"startDate" yaml:"startDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" yaml:"updatedAt"`
	Stats      LeadStats  `json:"stats" yaml:"stats"`
	TotalLeads int64      `json:"totalLeads" yaml:"totalLeads"`
}

// Lead as returned by the API
type Lead struct {
	ID              uint       `json:"id" yaml:"id"`
	FirstName       string     `json:"firstName" yaml:"firstName"`
	LastName        string     `json:"lastName" yaml:"lastName"`
	Email           string     `json:"email" yaml:"email"`
	Company         string     `json:"company" yaml:"company,omitempty"`
	Position        string     `json:"position" yaml:"position,omitempty"`
	Status          string     `json:"status" yaml:"status"`
	CampaignID      uint       `json:"campaignId" yaml:"campaignId"`
	CampaignName    string     `json:"campaignName" yaml:"campaignName"`
	UserID          string     `json:"userId" yaml:"userId"`
	LastContactDate *time.Time `json:"lastContactDate" yaml:"lastContactDate,omitempty"`
	ResponseDate    *time.Time `json:"responseDate" yaml:"responseDate,omitempty"`
	Notes           string     `json:"notes" yaml:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// Pagination describes the window of a list response
type Pagination struct {
	Page    int   `json:"page" yaml:"page"`
	Limit   int   `json:"limit" yaml:"limit"`
	Total   int64 `json:"total" yaml:"total"`
	Pages   int   `json:"pages" yaml:"pages"`
	HasMore bool  `json:"hasMore" yaml:"hasMore"`
}

// Page is one page of a list endpoint
type Page[T any] struct {
	Data       []T        `json:"data" yaml:"data"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// CampaignCounts counts campaigns per status
type CampaignCounts struct {
	Total    int64 `json:"total" yaml:"total"`
	Active   int64 `json:"active" yaml:"active"`
	Inactive int64 `json:"inactive" yaml:"inactive"`
	Draft    int64 `json:"draft" yaml:"draft"`
}

// DashboardSummary is the response of the dashboard stats endpoint
type DashboardSummary struct {
	Campaigns      CampaignCounts `json:"campaigns" yaml:"campaigns"`
	Leads          LeadStats      `json:"leads" yaml:"leads"`
	TotalLeads     int64          `json:"totalLeads" yaml:"totalLeads"`
	ConversionRate float64        `json:"conversionRate" yaml:"conversionRate"`
	RecentLeads    []Lead         `json:"recentLeads" yaml:"recentLeads"`
}

// ListQuery holds the filters, sort and window of a list request. Zero
// values are left to the server defaults.
type ListQuery struct {
	Page       int
	Limit      int
	Search     string
	Status     string
	CampaignID uint
	SortBy     string
	SortOrder  string
}

// Values encodes the query string. Encoding sorts by key, so equal queries
// produce equal strings.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.CampaignID > 0 {
		v.Set("campaignId", strconv.FormatUint(uint64(q.CampaignID), 10))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v
}

// CreateCampaignInput is the body of a campaign create request
type CreateCampaignInput struct {
	Name      string     `json:"name"`
	Status    string     `json:"status,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
}

// UpdateCampaignInput is the body of a partial campaign update
type UpdateCampaignInput struct {
	Name      *string    `json:"name,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
}

// CreateLeadInput is the body of a lead create request
type CreateLeadInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
	Notes      string `json:"notes,omitempty"`
	CampaignID uint   `json:"campaignId"`
}

// UpdateLeadInput is the body of a partial lead update
type UpdateLeadInput struct {
	FirstName       *string    `json:"firstName,omitempty"`
	LastName        *string    `json:"lastName,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Position        *string    `json:"position,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	Status          *string    `json:"status,omitempty"`
	CampaignID      *uint      `json:"campaignId,omitempty"`
	LastContactDate *time.Time `json:"lastContactDate,omitempty"`
	ResponseDate    *time.Time `json:"responseDate,omitempty"`
}

// Session is the identity a request is scoped to
type Session struct {
	UserID    string     `json:"userId" yaml:"userId"`
	Email     string     `json:"email" yaml:"email,omitempty"`
	Name      string     `json:"name" yaml:"name,omitempty"`
	Demo      bool       `json:"demo" yaml:"demo"`
	ExpiresAt *time.Time `json:"expiresAt" yaml:"expiresAt,omitempty"`
}
