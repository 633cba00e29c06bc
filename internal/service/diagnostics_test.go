package service_test

import (
	"context"
	"errors"
	"testing"

	"linkbird-backend/internal/database/models"
	"linkbird-backend/internal/mocks"
	"linkbird-backend/internal/repository"
	"linkbird-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDiagnosticsCheckData(t *testing.T) {
	ctrl := gomock.NewController(t)
	diagRepo := mocks.NewMockDiagnosticsRepositoryInterface(ctrl)
	campaignRepo := mocks.NewMockCampaignRepositoryInterface(ctrl)
	leadRepo := mocks.NewMockLeadRepositoryInterface(ctrl)
	ctx := context.Background()

	campaignRepo.EXPECT().Count(ctx, "demo").Return(int64(2), nil)
	leadRepo.EXPECT().Count(ctx, "demo").Return(int64(7), nil)
	campaignRepo.EXPECT().Sample(ctx, "demo", 5).Return([]models.Campaign{*campaign(1, "A", models.CampaignStatusActive)}, nil)
	leadRepo.EXPECT().Recent(ctx, "demo", 5).Return(nil, nil)

	svc := service.NewDiagnosticsService(diagRepo, campaignRepo, leadRepo, "development")
	resp, err := svc.CheckData(ctx, "demo")

	require.NoError(t, err)
	assert.Equal(t, "demo", resp.UserID)
	assert.Equal(t, int64(2), resp.CampaignCount)
	assert.Equal(t, int64(7), resp.LeadCount)
	assert.Len(t, resp.SampleCampaigns, 1)
	assert.Empty(t, resp.SampleLeads)
}

func TestDiagnosticsDebug(t *testing.T) {
	ctrl := gomock.NewController(t)
	diagRepo := mocks.NewMockDiagnosticsRepositoryInterface(ctrl)
	ctx := context.Background()

	diagRepo.EXPECT().TableCounts(ctx).Return(map[string]int64{"campaigns": 3, "leads": 9}, nil)
	diagRepo.EXPECT().PoolStats().Return(&repository.PoolStats{OpenConnections: 1}, nil)

	svc := service.NewDiagnosticsService(diagRepo, nil, nil, "staging")
	resp, err := svc.Debug(ctx)

	require.NoError(t, err)
	assert.Equal(t, "staging", resp.Environment)
	assert.Equal(t, int64(9), resp.Tables["leads"])
	assert.Equal(t, 1, resp.Pool.OpenConnections)
}

func TestDiagnosticsDebugError(t *testing.T) {
	ctrl := gomock.NewController(t)
	diagRepo := mocks.NewMockDiagnosticsRepositoryInterface(ctrl)
	ctx := context.Background()

	diagRepo.EXPECT().TableCounts(ctx).Return(nil, errors.New("boom"))

	_, err := service.NewDiagnosticsService(diagRepo, nil, nil, "staging").Debug(ctx)
	assert.ErrorContains(t, err, "failed to count tables")
}
