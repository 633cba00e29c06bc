package service

import (
	"context"
	"io"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// CampaignServiceInterface defines the interface for campaign service
type CampaignServiceInterface interface {
	List(ctx context.Context, userID string, q *CampaignListQuery) (*ListResponse[CampaignResponse], error)
	Create(ctx context.Context, userID string, req *CreateCampaignRequest) (*CampaignResponse, error)
	Get(ctx context.Context, userID string, id uint) (*CampaignResponse, error)
	Update(ctx context.Context, userID string, id uint, req *UpdateCampaignRequest) (*CampaignResponse, error)
	Delete(ctx context.Context, userID string, id uint) error
	ListLeads(ctx context.Context, userID string, campaignID uint, q *LeadListQuery) (*ListResponse[LeadResponse], error)
}

// LeadServiceInterface defines the interface for lead service
type LeadServiceInterface interface {
	List(ctx context.Context, userID string, q *LeadListQuery) (*ListResponse[LeadResponse], error)
	ListInfinite(ctx context.Context, userID string, q *LeadListQuery) (*ListResponse[LeadResponse], error)
	Create(ctx context.Context, userID string, req *CreateLeadRequest) (*LeadResponse, error)
	Get(ctx context.Context, userID string, id uint) (*LeadResponse, error)
	Update(ctx context.Context, userID string, id uint, req *UpdateLeadRequest) (*LeadResponse, error)
	Delete(ctx context.Context, userID string, id uint) error
	Export(ctx context.Context, userID string, q *LeadListQuery, w io.Writer) error
}

// DashboardServiceInterface defines the interface for dashboard service
type DashboardServiceInterface interface {
	Summary(ctx context.Context, userID string) (*DashboardSummary, error)
}

// DiagnosticsServiceInterface defines the interface for diagnostics service
type DiagnosticsServiceInterface interface {
	CheckData(ctx context.Context, userID string) (*CheckDataResponse, error)
	Debug(ctx context.Context) (*DebugResponse, error)
}
