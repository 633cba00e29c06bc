package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"linkbird-backend/internal/mocks"
	"linkbird-backend/internal/repository"
	"linkbird-backend/internal/service"
	"linkbird-backend/internal/testutils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestDashboardHandlerGetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockDashboardServiceInterface(ctrl)
	handler := NewDashboardHandler(mockService)
	httpSuite := testutils.SetupHTTPTestAs(testUserID)
	httpSuite.Router.GET("/api/dashboard/stats", handler.GetStats)

	t.Run("summary", func(t *testing.T) {
		mockService.EXPECT().Summary(gomock.Any(), testUserID).Return(&service.DashboardSummary{
			Campaigns:      service.CampaignCounts{Total: 2, Active: 1, Draft: 1},
			Leads:          service.LeadStats{Pending: 3, Converted: 1},
			TotalLeads:     4,
			ConversionRate: 25,
			RecentLeads:    []service.LeadResponse{},
		}, nil)

		recorder := httpSuite.MakeRequest(http.MethodGet, "/api/dashboard/stats", nil)

		var response service.DashboardSummary
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, 25.0, response.ConversionRate)
		assert.Equal(t, int64(2), response.Campaigns.Total)
	})

	t.Run("failure", func(t *testing.T) {
		mockService.EXPECT().Summary(gomock.Any(), testUserID).Return(nil, errors.New("timeout"))

		recorder := httpSuite.MakeRequest(http.MethodGet, "/api/dashboard/stats", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusInternalServerError, "Failed to fetch dashboard stats")
	})
}

func TestDiagnosticsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockDiagnosticsServiceInterface(ctrl)
	handler := NewDiagnosticsHandler(mockService)
	httpSuite := testutils.SetupHTTPTestAs(testUserID)
	httpSuite.Router.GET("/api/check-data", handler.CheckData)
	httpSuite.Router.GET("/api/debug", handler.Debug)

	mockService.EXPECT().CheckData(gomock.Any(), testUserID).Return(&service.CheckDataResponse{
		UserID: testUserID, CampaignCount: 1, LeadCount: 2,
	}, nil)
	recorder := httpSuite.MakeRequest(http.MethodGet, "/api/check-data", nil)
	var check service.CheckDataResponse
	testutils.AssertJSONResponse(t, recorder, http.StatusOK, &check)
	assert.Equal(t, int64(2), check.LeadCount)

	mockService.EXPECT().Debug(gomock.Any()).Return(&service.DebugResponse{
		Environment: "development",
		Tables:      map[string]int64{"campaigns": 1, "leads": 2},
		Pool:        &repository.PoolStats{MaxOpen: 20},
		Timestamp:   time.Now(),
	}, nil)
	recorder = httpSuite.MakeRequest(http.MethodGet, "/api/debug", nil)
	var debug service.DebugResponse
	testutils.AssertJSONResponse(t, recorder, http.StatusOK, &debug)
	assert.Equal(t, int64(2), debug.Tables["leads"])
}

func TestRequireUserWithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewCampaignHandler(mocks.NewMockCampaignServiceInterface(ctrl))
	httpSuite := testutils.SetupHTTPTest()
	httpSuite.Router.GET("/api/campaigns", handler.ListCampaigns)

	recorder := httpSuite.MakeRequest(http.MethodGet, "/api/campaigns", nil)

	testutils.AssertErrorResponse(t, recorder, http.StatusUnauthorized, "Unauthorized")
}

func TestHealthLive(t *testing.T) {
	httpSuite := testutils.SetupHTTPTest()
	h := NewHealthHandler(nil)
	httpSuite.Router.GET("/health/live", h.Live)

	recorder := httpSuite.MakeRequest(http.MethodGet, "/health/live", nil)

	var live map[string]interface{}
	testutils.AssertJSONResponse(t, recorder, http.StatusOK, &live)
	assert.Equal(t, true, live["alive"])
}
