package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"linkbird-backend/internal/database/models"
	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/events"
	"linkbird-backend/internal/logger"
	"linkbird-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CampaignService handles business logic for campaigns
type CampaignService struct {
	repo      repository.CampaignRepositoryInterface
	leadRepo  repository.LeadRepositoryInterface
	publisher events.Publisher
	validator *validator.Validate
}

// Ensure CampaignService implements CampaignServiceInterface
var _ CampaignServiceInterface = (*CampaignService)(nil)

// NewCampaignService creates a new campaign service
func NewCampaignService(repo repository.CampaignRepositoryInterface, leadRepo repository.LeadRepositoryInterface, publisher events.Publisher, validator *validator.Validate) *CampaignService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &CampaignService{
		repo:      repo,
		leadRepo:  leadRepo,
		publisher: publisher,
		validator: validator,
	}
}

// campaignSortColumns maps accepted sortBy values to columns
var campaignSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"startDate": "start_date",
}

// CampaignListQuery represents the query parameters of a campaign list
type CampaignListQuery struct {
	Page      int    `form:"page,default=1" json:"page" validate:"min=1"`
	Limit     int    `form:"limit,default=10" json:"limit" validate:"min=1"`
	Search    string `form:"search" json:"search"`
	Status    string `form:"status" json:"status" validate:"omitempty,oneof=active inactive draft"`
	SortBy    string `form:"sortBy,default=createdAt" json:"sortBy" validate:"omitempty,oneof=createdAt name startDate"`
	SortOrder string `form:"sortOrder,default=desc" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// CreateCampaignRequest represents the request to create a campaign
type CreateCampaignRequest struct {
	Name      string                `json:"name" validate:"required,max=255"`
	Status    models.CampaignStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive draft"`
	StartDate *time.Time            `json:"startDate,omitempty"`
}

// UpdateCampaignRequest represents a partial campaign update; nil fields are left unchanged
type UpdateCampaignRequest struct {
	Name      *string                `json:"name,omitempty" validate:"omitempty,max=255"`
	Status    *models.CampaignStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive draft"`
	StartDate *time.Time             `json:"startDate,omitempty"`
}

// CampaignResponse represents a campaign with its derived lead stats
type CampaignResponse struct {
	ID         uint                  `json:"id"`
	Name       string                `json:"name"`
	Status     models.CampaignStatus `json:"status"`
	UserID     string                `json:"userId"`
	StartDate  *time.Time            `json:"startDate"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	Stats      LeadStats             `json:"stats"`
	TotalLeads int64                 `json:"totalLeads"`
}

// List retrieves a page of the user's campaigns with per-campaign stats
func (s *CampaignService) List(ctx context.Context, userID string, q *CampaignListQuery) (*ListResponse[CampaignResponse], error) {
	if err := s.validator.StructCtx(ctx, q); err != nil {
		return nil, validationError(err)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	campaigns, total, err := s.repo.List(ctx, repository.ListParams{
		UserID:     userID,
		Search:     q.Search,
		Status:     q.Status,
		SortColumn: campaignSortColumns[sortBy],
		Descending: q.SortOrder != "asc",
		Limit:      q.Limit,
		Offset:     offset(q.Page, q.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	ids := make([]uint, len(campaigns))
	for i := range campaigns {
		ids[i] = campaigns[i].ID
	}
	rows, err := s.leadRepo.CountByStatus(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count campaign leads: %w", err)
	}
	stats := leadStatsByCampaign(rows)

	data := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		data[i] = toCampaignResponse(&campaigns[i], stats[campaigns[i].ID])
	}

	return &ListResponse[CampaignResponse]{
		Data:       data,
		Pagination: newPagination(q.Page, q.Limit, total),
	}, nil
}

// Create creates a new campaign owned by the user
func (s *CampaignService) Create(ctx context.Context, userID string, req *CreateCampaignRequest) (*CampaignResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	status := req.Status
	if status == "" {
		status = models.CampaignStatusDraft
	}
	campaign := &models.Campaign{
		Name:      req.Name,
		Status:    status,
		UserID:    userID,
		StartDate: req.StartDate,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	resp := toCampaignResponse(campaign, LeadStats{})
	return &resp, nil
}

// Get retrieves an owned campaign with its lead stats
func (s *CampaignService) Get(ctx context.Context, userID string, id uint) (*CampaignResponse, error) {
	campaign, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, userID, campaign)
}

// Update applies a partial update to an owned campaign
func (s *CampaignService) Update(ctx context.Context, userID string, id uint, req *UpdateCampaignRequest) (*CampaignResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	if verr := requireNonBlank("name", req.Name); verr != nil {
		return nil, verr
	}

	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCampaignNotFound
			}
			return nil, fmt.Errorf("failed to update campaign: %w", err)
		}
	}

	updated, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if updated.Status != existing.Status {
		s.publish(ctx, events.Event{
			Type:     events.CampaignStatusChanged,
			EntityID: id,
			UserID:   userID,
			From:     string(existing.Status),
			To:       string(updated.Status),
		})
	}

	return s.withStats(ctx, userID, updated)
}

// Delete deletes an owned campaign that has no leads
func (s *CampaignService) Delete(ctx context.Context, userID string, id uint) error {
	if err := s.repo.DeleteIfEmpty(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCampaignNotFound
		}
		if errors.Is(err, apperrors.ErrCampaignHasLeads) {
			return apperrors.ErrCampaignHasLeads
		}
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// ListLeads lists the leads of one owned campaign
func (s *CampaignService) ListLeads(ctx context.Context, userID string, campaignID uint, q *LeadListQuery) (*ListResponse[LeadResponse], error) {
	if err := s.validator.StructCtx(ctx, q); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.getOwned(ctx, userID, campaignID); err != nil {
		return nil, err
	}

	params := q.listParams(userID)
	params.CampaignID = &campaignID
	leads, total, err := s.leadRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign leads: %w", err)
	}

	return &ListResponse[LeadResponse]{
		Data:       toLeadResponses(leads),
		Pagination: newPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *CampaignService) getOwned(ctx context.Context, userID string, id uint) (*models.Campaign, error) {
	campaign, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (s *CampaignService) withStats(ctx context.Context, userID string, campaign *models.Campaign) (*CampaignResponse, error) {
	rows, err := s.leadRepo.CountByStatus(ctx, userID, []uint{campaign.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count campaign leads: %w", err)
	}
	resp := toCampaignResponse(campaign, leadStatsByCampaign(rows)[campaign.ID])
	return &resp, nil
}

func (s *CampaignService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("event", evt.Type).Warn("Failed to publish campaign event")
	}
}

func toCampaignResponse(c *models.Campaign, stats LeadStats) CampaignResponse {
	return CampaignResponse{
		ID:         c.ID,
		Name:       c.Name,
		Status:     c.Status,
		UserID:     c.UserID,
		StartDate:  c.StartDate,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Stats:      stats,
		TotalLeads: stats.Total(),
	}
}
