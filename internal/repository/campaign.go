package repository

import (
	"context"

	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignRepository handles database operations for campaigns
type CampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetByIDForUser retrieves a campaign by ID if it belongs to the user
func (r *CampaignRepository) GetByIDForUser(ctx context.Context, id uint, userID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List retrieves a user's campaigns matching the filters, plus the unpaginated total
func (r *CampaignRepository) List(ctx context.Context, p ListParams) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Scopes(ownedBy(p.UserID), searchColumn("name", p.Search), withStatus(p.Status))

	// Get total count
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	if err := query.Scopes(orderAndPage(p)).Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// Update applies a partial update to a campaign owned by the user
func (r *CampaignRepository) Update(ctx context.Context, id uint, userID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Scopes(ownedBy(userID)).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteIfEmpty deletes a campaign owned by the user only when it has no leads.
// The campaign row is locked for the duration of the check so a concurrent
// lead insert (which takes a share lock on the same row) cannot slip in.
func (r *CampaignRepository) DeleteIfEmpty(ctx context.Context, id uint, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(ownedBy(userID)).
			First(&campaign, "id = ?", id).Error; err != nil {
			return err
		}

		var leadCount int64
		if err := tx.Model(&models.Lead{}).Where("campaign_id = ?", id).Count(&leadCount).Error; err != nil {
			return err
		}
		if leadCount > 0 {
			return apperrors.ErrCampaignHasLeads
		}

		return tx.Delete(&models.Campaign{}, "id = ?", id).Error
	})
}

// CountByStatus counts a user's campaigns grouped by status
func (r *CampaignRepository) CountByStatus(ctx context.Context, userID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).
		Select("status, COUNT(*) AS count").
		Scopes(ownedBy(userID)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of campaigns owned by the user
func (r *CampaignRepository) Count(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Campaign{}).Scopes(ownedBy(userID)).Count(&total).Error
	return total, err
}

// Sample returns up to limit of the user's most recently created campaigns
func (r *CampaignRepository) Sample(ctx context.Context, userID string, limit int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}
