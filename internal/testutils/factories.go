package testutils

import (
	"fmt"
	"sync/atomic"
	"time"

	"linkbird-backend/internal/database/models"
)

var sequence atomic.Int64

func next() int64 {
	return sequence.Add(1)
}

// CampaignFactory provides methods to create test Campaign data
type CampaignFactory struct {
	UserID string
}

// NewCampaignFactory creates a new CampaignFactory for one owner
func NewCampaignFactory(userID string) *CampaignFactory {
	return &CampaignFactory{UserID: userID}
}

// Create creates a test Campaign with default values. The ID is left for the database.
func (f *CampaignFactory) Create() *models.Campaign {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	return &models.Campaign{
		Name:      fmt.Sprintf("Campaign %d", next()),
		Status:    models.CampaignStatusDraft,
		UserID:    f.UserID,
		StartDate: &start,
	}
}

// WithName sets a custom name for the campaign
func (f *CampaignFactory) WithName(name string) *models.Campaign {
	c := f.Create()
	c.Name = name
	return c
}

// WithStatus sets a custom status for the campaign
func (f *CampaignFactory) WithStatus(status models.CampaignStatus) *models.Campaign {
	c := f.Create()
	c.Status = status
	return c
}

// LeadFactory provides methods to create test Lead data
type LeadFactory struct {
	UserID     string
	CampaignID uint
}

// NewLeadFactory creates a new LeadFactory for leads of one campaign
func NewLeadFactory(userID string, campaignID uint) *LeadFactory {
	return &LeadFactory{UserID: userID, CampaignID: campaignID}
}

// Create creates a test Lead with default values
func (f *LeadFactory) Create() *models.Lead {
	n := next()
	return &models.Lead{
		FirstName:  fmt.Sprintf("First%d", n),
		LastName:   fmt.Sprintf("Last%d", n),
		Email:      fmt.Sprintf("lead%d@example.com", n),
		Company:    "Acme",
		Position:   "Engineer",
		Status:     models.LeadStatusPending,
		CampaignID: f.CampaignID,
		UserID:     f.UserID,
	}
}

// WithName sets custom first and last names for the lead
func (f *LeadFactory) WithName(firstName, lastName string) *models.Lead {
	l := f.Create()
	l.FirstName = firstName
	l.LastName = lastName
	return l
}

// WithStatus sets a custom status for the lead
func (f *LeadFactory) WithStatus(status models.LeadStatus) *models.Lead {
	l := f.Create()
	l.Status = status
	return l
}
