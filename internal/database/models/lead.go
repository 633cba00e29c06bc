package models

import (
	"time"
)

// Lead is a prospective contact tracked through an outreach status.
// CampaignID and UserID must refer to a campaign owned by the same user;
// the service layer enforces this on every write.
type Lead struct {
	BaseModel
	FirstName       string     `json:"firstName" gorm:"size:100;not null;index"`
	LastName        string     `json:"lastName" gorm:"size:100;not null"`
	Email           string     `json:"email" gorm:"size:255;not null;index"`
	Company         string     `json:"company" gorm:"size:255"`
	Position        string     `json:"position" gorm:"size:255"`
	Status          LeadStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	CampaignID      uint       `json:"campaignId" gorm:"not null;index"`
	UserID          string     `json:"userId" gorm:"size:255;not null;index"`
	LastContactDate *time.Time `json:"lastContactDate"`
	ResponseDate    *time.Time `json:"responseDate"`
	Notes           string     `json:"notes" gorm:"type:text"`

	// Relationships
	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for Lead
func (Lead) TableName() string {
	return "leads"
}
