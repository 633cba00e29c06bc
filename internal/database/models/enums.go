package models

// CampaignStatus defines the lifecycle states of a campaign
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusInactive CampaignStatus = "inactive"
	CampaignStatusDraft    CampaignStatus = "draft"
)

// LeadStatus defines the outreach states of a lead
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusResponded LeadStatus = "responded"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusRejected  LeadStatus = "rejected"
)

// CampaignStatuses lists every campaign status in display order
var CampaignStatuses = []CampaignStatus{
	CampaignStatusActive,
	CampaignStatusInactive,
	CampaignStatusDraft,
}

// LeadStatuses lists every lead status in display order
var LeadStatuses = []LeadStatus{
	LeadStatusPending,
	LeadStatusContacted,
	LeadStatusResponded,
	LeadStatusConverted,
	LeadStatusRejected,
}

// IsValid checks if the CampaignStatus is valid
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusInactive, CampaignStatusDraft:
		return true
	}
	return false
}

// IsValid checks if the LeadStatus is valid
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusPending, LeadStatusContacted, LeadStatusResponded, LeadStatusConverted, LeadStatusRejected:
		return true
	}
	return false
}
