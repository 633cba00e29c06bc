package service

import (
	"context"
	"fmt"
	"time"

	"linkbird-backend/internal/repository"
)

const sampleSize = 5

// DiagnosticsService exposes raw counts and samples for operational inspection
type DiagnosticsService struct {
	repo         repository.DiagnosticsRepositoryInterface
	campaignRepo repository.CampaignRepositoryInterface
	leadRepo     repository.LeadRepositoryInterface
	environment  string
}

// Ensure DiagnosticsService implements DiagnosticsServiceInterface
var _ DiagnosticsServiceInterface = (*DiagnosticsService)(nil)

// NewDiagnosticsService creates a new diagnostics service
func NewDiagnosticsService(repo repository.DiagnosticsRepositoryInterface, campaignRepo repository.CampaignRepositoryInterface, leadRepo repository.LeadRepositoryInterface, environment string) *DiagnosticsService {
	return &DiagnosticsService{
		repo:         repo,
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		environment:  environment,
	}
}

// CheckDataResponse represents the data owned by one user
type CheckDataResponse struct {
	UserID          string             `json:"userId"`
	CampaignCount   int64              `json:"campaignCount"`
	LeadCount       int64              `json:"leadCount"`
	SampleCampaigns []CampaignResponse `json:"sampleCampaigns"`
	SampleLeads     []LeadResponse     `json:"sampleLeads"`
}

// DebugResponse represents process and database level state
type DebugResponse struct {
	Environment string                `json:"environment"`
	Tables      map[string]int64      `json:"tables"`
	Pool        *repository.PoolStats `json:"pool"`
	Timestamp   time.Time             `json:"timestamp"`
}

// CheckData returns counts and a few sample rows for a user
func (s *DiagnosticsService) CheckData(ctx context.Context, userID string) (*CheckDataResponse, error) {
	campaignCount, err := s.campaignRepo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}
	leadCount, err := s.leadRepo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	campaigns, err := s.campaignRepo.Sample(ctx, userID, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample campaigns: %w", err)
	}
	leads, err := s.leadRepo.Recent(ctx, userID, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample leads: %w", err)
	}

	sampleCampaigns := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		sampleCampaigns[i] = toCampaignResponse(&campaigns[i], LeadStats{})
	}

	return &CheckDataResponse{
		UserID:          userID,
		CampaignCount:   campaignCount,
		LeadCount:       leadCount,
		SampleCampaigns: sampleCampaigns,
		SampleLeads:     toLeadResponses(leads),
	}, nil
}

// Debug returns table-wide counts and connection pool state
func (s *DiagnosticsService) Debug(ctx context.Context) (*DebugResponse, error) {
	tables, err := s.repo.TableCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}
	pool, err := s.repo.PoolStats()
	if err != nil {
		return nil, fmt.Errorf("failed to read pool stats: %w", err)
	}
	return &DebugResponse{
		Environment: s.environment,
		Tables:      tables,
		Pool:        pool,
		Timestamp:   time.Now().UTC(),
	}, nil
}
