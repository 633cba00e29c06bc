package repository

import (
	"context"

	"linkbird-backend/internal/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// campaignName preloads only the columns needed to show the owning campaign's name
func campaignName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "status")
}

// CreateInCampaign inserts a lead after confirming its campaign belongs to the
// lead's user. Returns gorm.ErrRecordNotFound and inserts nothing otherwise.
func (r *LeadRepository) CreateInCampaign(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id", "name", "status").
			Scopes(ownedBy(lead.UserID)).
			First(&campaign, "id = ?", lead.CampaignID).Error; err != nil {
			return err
		}

		if err := tx.Omit("Campaign").Create(lead).Error; err != nil {
			return err
		}
		lead.Campaign = &campaign
		return nil
	})
}

// GetByIDForUser retrieves a lead by ID if it belongs to the user
func (r *LeadRepository) GetByIDForUser(ctx context.Context, id uint, userID string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Preload("Campaign", campaignName).
		Scopes(ownedBy(userID)).
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) filtered(ctx context.Context, p ListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Scopes(ownedBy(p.UserID), searchColumn("first_name", p.Search), withStatus(p.Status))
	if p.CampaignID != nil {
		query = query.Where("campaign_id = ?", *p.CampaignID)
	}
	return query
}

// List retrieves a user's leads matching the filters, plus the unpaginated total.
// A zero Limit returns every matching row.
func (r *LeadRepository) List(ctx context.Context, p ListParams) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.filtered(ctx, p)

	// Get total count
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	err := query.Preload("Campaign", campaignName).Scopes(orderAndPage(p)).Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// Update applies a partial update to a lead owned by the user
func (r *LeadRepository) Update(ctx context.Context, id uint, userID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Lead{}).
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

// Delete deletes a lead owned by the user
func (r *LeadRepository) Delete(ctx context.Context, id uint, userID string) error {
	result := r.db.WithContext(ctx).Scopes(ownedBy(userID)).Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus counts a user's leads grouped by campaign and status.
// A nil campaignIDs slice counts across all of the user's campaigns.
func (r *LeadRepository) CountByStatus(ctx context.Context, userID string, campaignIDs []uint) ([]StatusCount, error) {
	var rows []StatusCount
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("campaign_id, status, COUNT(*) AS count").
		Scopes(ownedBy(userID))
	if campaignIDs != nil {
		if len(campaignIDs) == 0 {
			return rows, nil
		}
		query = query.Where("campaign_id IN ?", campaignIDs)
	}
	if err := query.Group("campaign_id, status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Recent returns the user's most recently updated leads
func (r *LeadRepository) Recent(ctx context.Context, userID string, limit int) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Preload("Campaign", campaignName).
		Scopes(ownedBy(userID)).
		Order("updated_at DESC").
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of leads owned by the user
func (r *LeadRepository) Count(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Lead{}).Scopes(ownedBy(userID)).Count(&total).Error
	return total, err
}
