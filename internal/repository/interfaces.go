package repository

import (
	"context"

	"linkbird-backend/internal/database/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// CampaignRepositoryInterface defines the interface for campaign repository operations
type CampaignRepositoryInterface interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByIDForUser(ctx context.Context, id uint, userID string) (*models.Campaign, error)
	List(ctx context.Context, p ListParams) ([]models.Campaign, int64, error)
	Update(ctx context.Context, id uint, userID string, updates map[string]interface{}) error
	DeleteIfEmpty(ctx context.Context, id uint, userID string) error
	CountByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	Count(ctx context.Context, userID string) (int64, error)
	Sample(ctx context.Context, userID string, limit int) ([]models.Campaign, error)
}

// LeadRepositoryInterface defines the interface for lead repository operations
type LeadRepositoryInterface interface {
	CreateInCampaign(ctx context.Context, lead *models.Lead) error
	GetByIDForUser(ctx context.Context, id uint, userID string) (*models.Lead, error)
	List(ctx context.Context, p ListParams) ([]models.Lead, int64, error)
	Update(ctx context.Context, id uint, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint, userID string) error
	CountByStatus(ctx context.Context, userID string, campaignIDs []uint) ([]StatusCount, error)
	Recent(ctx context.Context, userID string, limit int) ([]models.Lead, error)
	Count(ctx context.Context, userID string) (int64, error)
}

// DiagnosticsRepositoryInterface defines the interface for operational inspection queries
type DiagnosticsRepositoryInterface interface {
	TableCounts(ctx context.Context) (map[string]int64, error)
	PoolStats() (*PoolStats, error)
}

var (
	_ CampaignRepositoryInterface    = (*CampaignRepository)(nil)
	_ LeadRepositoryInterface        = (*LeadRepository)(nil)
	_ DiagnosticsRepositoryInterface = (*DiagnosticsRepository)(nil)
)
