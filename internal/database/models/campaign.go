package models

import (
	"time"
)

// Campaign is a named outreach effort owned by a single user
type Campaign struct {
	BaseModel
	Name      string         `json:"name" gorm:"size:255;not null"`
	Status    CampaignStatus `json:"status" gorm:"size:20;not null;default:draft;index"`
	UserID    string         `json:"userId" gorm:"size:255;not null;index"`
	StartDate *time.Time     `json:"startDate"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}
