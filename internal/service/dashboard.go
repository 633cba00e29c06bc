package service

import (
	"context"
	"fmt"

	"linkbird-backend/internal/repository"
)

const recentLeadsLimit = 5

// DashboardService aggregates the numbers shown on a user's dashboard
type DashboardService struct {
	campaignRepo repository.CampaignRepositoryInterface
	leadRepo     repository.LeadRepositoryInterface
}

// Ensure DashboardService implements DashboardServiceInterface
var _ DashboardServiceInterface = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service
func NewDashboardService(campaignRepo repository.CampaignRepositoryInterface, leadRepo repository.LeadRepositoryInterface) *DashboardService {
	return &DashboardService{campaignRepo: campaignRepo, leadRepo: leadRepo}
}

// DashboardSummary represents the dashboard stats of one user
type DashboardSummary struct {
	Campaigns      CampaignCounts `json:"campaigns"`
	Leads          LeadStats      `json:"leads"`
	TotalLeads     int64          `json:"totalLeads"`
	ConversionRate float64        `json:"conversionRate"`
	RecentLeads    []LeadResponse `json:"recentLeads"`
}

// Summary computes campaign and lead totals on demand
func (s *DashboardService) Summary(ctx context.Context, userID string) (*DashboardSummary, error) {
	campaignRows, err := s.campaignRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}
	leadRows, err := s.leadRepo.CountByStatus(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	recent, err := s.leadRepo.Recent(ctx, userID, recentLeadsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent leads: %w", err)
	}

	stats := leadStatsOverall(leadRows)
	summary := &DashboardSummary{
		Campaigns:   newCampaignCounts(campaignRows),
		Leads:       stats,
		TotalLeads:  stats.Total(),
		RecentLeads: toLeadResponses(recent),
	}
	if summary.TotalLeads > 0 {
		summary.ConversionRate = float64(stats.Converted) / float64(summary.TotalLeads) * 100
	}
	return summary, nil
}
