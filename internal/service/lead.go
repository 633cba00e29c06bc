package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"linkbird-backend/internal/database/models"
	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/events"
	"linkbird-backend/internal/export"
	"linkbird-backend/internal/logger"
	"linkbird-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// MaxInfiniteLimit bounds the page size of the infinite-scroll lead list
const MaxInfiniteLimit = 100

// LeadService handles business logic for leads
type LeadService struct {
	repo         repository.LeadRepositoryInterface
	campaignRepo repository.CampaignRepositoryInterface
	publisher    events.Publisher
	validator    *validator.Validate
}

// Ensure LeadService implements LeadServiceInterface
var _ LeadServiceInterface = (*LeadService)(nil)

// NewLeadService creates a new lead service
func NewLeadService(repo repository.LeadRepositoryInterface, campaignRepo repository.CampaignRepositoryInterface, publisher events.Publisher, validator *validator.Validate) *LeadService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LeadService{
		repo:         repo,
		campaignRepo: campaignRepo,
		publisher:    publisher,
		validator:    validator,
	}
}

// leadSortColumns maps accepted sortBy values to columns
var leadSortColumns = map[string]string{
	"createdAt": "created_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"company":   "company",
}

// LeadListQuery represents the query parameters of a lead list
type LeadListQuery struct {
	Page       int    `form:"page,default=1" json:"page" validate:"min=1"`
	Limit      int    `form:"limit,default=10" json:"limit" validate:"min=1"`
	Search     string `form:"search" json:"search"`
	Status     string `form:"status" json:"status" validate:"omitempty,oneof=pending contacted responded converted rejected"`
	CampaignID *uint  `form:"campaignId" json:"campaignId" validate:"omitempty,gt=0"`
	SortBy     string `form:"sortBy,default=createdAt" json:"sortBy" validate:"omitempty,oneof=createdAt firstName lastName company"`
	SortOrder  string `form:"sortOrder,default=desc" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q *LeadListQuery) listParams(userID string) repository.ListParams {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	return repository.ListParams{
		UserID:     userID,
		Search:     q.Search,
		Status:     q.Status,
		CampaignID: q.CampaignID,
		SortColumn: leadSortColumns[sortBy],
		Descending: q.SortOrder != "asc",
		Limit:      q.Limit,
		Offset:     offset(q.Page, q.Limit),
	}
}

// CreateLeadRequest represents the request to create a lead
type CreateLeadRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,max=255,mailformat"`
	Company    string `json:"company,omitempty" validate:"max=255"`
	Position   string `json:"position,omitempty" validate:"max=255"`
	Notes      string `json:"notes,omitempty"`
	CampaignID uint   `json:"campaignId" validate:"required"`
}

// UpdateLeadRequest represents a partial lead update; nil fields are left unchanged
type UpdateLeadRequest struct {
	FirstName       *string            `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        *string            `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email           *string            `json:"email,omitempty" validate:"omitempty,max=255,mailformat"`
	Company         *string            `json:"company,omitempty" validate:"omitempty,max=255"`
	Position        *string            `json:"position,omitempty" validate:"omitempty,max=255"`
	Notes           *string            `json:"notes,omitempty"`
	Status          *models.LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=pending contacted responded converted rejected"`
	CampaignID      *uint              `json:"campaignId,omitempty" validate:"omitempty,gt=0"`
	LastContactDate *time.Time         `json:"lastContactDate,omitempty"`
	ResponseDate    *time.Time         `json:"responseDate,omitempty"`
}

// LeadResponse represents a lead together with its campaign's name
type LeadResponse struct {
	ID              uint              `json:"id"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Email           string            `json:"email"`
	Company         string            `json:"company"`
	Position        string            `json:"position"`
	Status          models.LeadStatus `json:"status"`
	CampaignID      uint              `json:"campaignId"`
	CampaignName    string            `json:"campaignName"`
	UserID          string            `json:"userId"`
	LastContactDate *time.Time        `json:"lastContactDate"`
	ResponseDate    *time.Time        `json:"responseDate"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// List retrieves a page of the user's leads
func (s *LeadService) List(ctx context.Context, userID string, q *LeadListQuery) (*ListResponse[LeadResponse], error) {
	if err := s.validator.StructCtx(ctx, q); err != nil {
		return nil, validationError(err)
	}
	return s.list(ctx, userID, q)
}

// ListInfinite retrieves one page of the infinite-scroll lead list. The page
// size is capped and the pagination tells the caller whether more pages exist.
func (s *LeadService) ListInfinite(ctx context.Context, userID string, q *LeadListQuery) (*ListResponse[LeadResponse], error) {
	if err := s.validator.StructCtx(ctx, q); err != nil {
		return nil, validationError(err)
	}
	if q.Limit > MaxInfiniteLimit {
		return nil, apperrors.NewValidationError("limit", fmt.Sprintf("must be at most %d", MaxInfiniteLimit))
	}
	return s.list(ctx, userID, q)
}

func (s *LeadService) list(ctx context.Context, userID string, q *LeadListQuery) (*ListResponse[LeadResponse], error) {
	leads, total, err := s.repo.List(ctx, q.listParams(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return &ListResponse[LeadResponse]{
		Data:       toLeadResponses(leads),
		Pagination: newPagination(q.Page, q.Limit, total),
	}, nil
}

// Create creates a lead in one of the user's campaigns
func (s *LeadService) Create(ctx context.Context, userID string, req *CreateLeadRequest) (*LeadResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	lead := &models.Lead{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Company:    req.Company,
		Position:   req.Position,
		Notes:      req.Notes,
		Status:     models.LeadStatusPending,
		CampaignID: req.CampaignID,
		UserID:     userID,
	}
	if err := s.repo.CreateInCampaign(ctx, lead); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	resp := toLeadResponse(lead)
	return &resp, nil
}

// Get retrieves an owned lead
func (s *LeadService) Get(ctx context.Context, userID string, id uint) (*LeadResponse, error) {
	lead, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Update applies a partial update to an owned lead. Any status may follow any other.
func (s *LeadService) Update(ctx context.Context, userID string, id uint, req *UpdateLeadRequest) (*LeadResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	var blank apperrors.ValidationErrors
	for _, f := range []struct {
		name  string
		value *string
	}{{"firstName", req.FirstName}, {"lastName", req.LastName}, {"email", req.Email}} {
		if verr := requireNonBlank(f.name, f.value); verr != nil {
			blank = append(blank, *verr)
		}
	}
	if len(blank) > 0 {
		return nil, blank
	}

	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.CampaignID != nil && *req.CampaignID != existing.CampaignID {
		if _, err := s.campaignRepo.GetByIDForUser(ctx, *req.CampaignID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCampaignNotFound
			}
			return nil, fmt.Errorf("failed to get campaign: %w", err)
		}
	}

	updates := leadUpdates(req)
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrLeadNotFound
			}
			return nil, fmt.Errorf("failed to update lead: %w", err)
		}
	}

	updated, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if updated.Status != existing.Status {
		evt := events.Event{
			Type:     events.LeadStatusChanged,
			EntityID: id,
			UserID:   userID,
			From:     string(existing.Status),
			To:       string(updated.Status),
		}
		if err := s.publisher.Publish(ctx, evt); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("event", evt.Type).Warn("Failed to publish lead event")
		}
	}

	resp := toLeadResponse(updated)
	return &resp, nil
}

// Delete deletes an owned lead
func (s *LeadService) Delete(ctx context.Context, userID string, id uint) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLeadNotFound
		}
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// Export writes every lead matching the filters as CSV, ignoring pagination
func (s *LeadService) Export(ctx context.Context, userID string, q *LeadListQuery, w io.Writer) error {
	if err := s.validator.StructCtx(ctx, q); err != nil {
		return validationError(err)
	}

	params := q.listParams(userID)
	params.Limit, params.Offset = 0, 0
	leads, _, err := s.repo.List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list leads for export: %w", err)
	}
	return export.WriteLeadsCSV(w, leads)
}

func (s *LeadService) getOwned(ctx context.Context, userID string, id uint) (*models.Lead, error) {
	lead, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func leadUpdates(req *UpdateLeadRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.CampaignID != nil {
		updates["campaign_id"] = *req.CampaignID
	}
	if req.LastContactDate != nil {
		updates["last_contact_date"] = *req.LastContactDate
	}
	if req.ResponseDate != nil {
		updates["response_date"] = *req.ResponseDate
	}
	return updates
}

func toLeadResponse(l *models.Lead) LeadResponse {
	resp := LeadResponse{
		ID:              l.ID,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Company:         l.Company,
		Position:        l.Position,
		Status:          l.Status,
		CampaignID:      l.CampaignID,
		UserID:          l.UserID,
		LastContactDate: l.LastContactDate,
		ResponseDate:    l.ResponseDate,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.Campaign != nil {
		resp.CampaignName = l.Campaign.Name
	}
	return resp
}

func toLeadResponses(leads []models.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = toLeadResponse(&leads[i])
	}
	return out
}
