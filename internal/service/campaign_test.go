package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkbird-backend/internal/database/models"
	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/events"
	"linkbird-backend/internal/mocks"
	"linkbird-backend/internal/repository"
	"linkbird-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const testUserID = "user-1"

// recordingPublisher collects published events
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// CampaignServiceTestSuite defines the test suite for CampaignService
type CampaignServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockCampaignRepo *mocks.MockCampaignRepositoryInterface
	mockLeadRepo     *mocks.MockLeadRepositoryInterface
	publisher        *recordingPublisher
	campaignService  *service.CampaignService
	ctx              context.Context
}

// SetupTest sets up the test suite
func (suite *CampaignServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockCampaignRepo = mocks.NewMockCampaignRepositoryInterface(suite.ctrl)
	suite.mockLeadRepo = mocks.NewMockLeadRepositoryInterface(suite.ctrl)
	suite.publisher = &recordingPublisher{}
	suite.ctx = context.Background()

	suite.campaignService = service.NewCampaignService(suite.mockCampaignRepo, suite.mockLeadRepo, suite.publisher, service.NewValidator())
}

// TearDownTest cleans up after each test
func (suite *CampaignServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func campaign(id uint, name string, status models.CampaignStatus) *models.Campaign {
	return &models.Campaign{
		BaseModel: models.BaseModel{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:      name,
		Status:    status,
		UserID:    testUserID,
	}
}

// TestCreateDefaultsToDraft tests that a new campaign starts as draft
func (suite *CampaignServiceTestSuite) TestCreateDefaultsToDraft() {
	suite.mockCampaignRepo.EXPECT().
		Create(suite.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Campaign) error {
			c.ID = 42
			c.CreatedAt = time.Now()
			return nil
		}).
		Times(1)

	resp, err := suite.campaignService.Create(suite.ctx, testUserID, &service.CreateCampaignRequest{Name: "  Q1 Outreach "})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), uint(42), resp.ID)
	assert.Equal(suite.T(), "Q1 Outreach", resp.Name)
	assert.Equal(suite.T(), models.CampaignStatusDraft, resp.Status)
	assert.Equal(suite.T(), testUserID, resp.UserID)
	assert.False(suite.T(), resp.CreatedAt.IsZero())
	assert.Equal(suite.T(), int64(0), resp.TotalLeads)
}

// TestCreateValidationError tests that a blank name is rejected with details
func (suite *CampaignServiceTestSuite) TestCreateValidationError() {
	resp, err := suite.campaignService.Create(suite.ctx, testUserID, &service.CreateCampaignRequest{Name: "   ", Status: "paused"})

	assert.Nil(suite.T(), resp)
	assert.True(suite.T(), apperrors.IsValidation(err))
	details := apperrors.ValidationDetails(err)
	suite.Require().Len(details, 2)
	assert.Equal(suite.T(), "name", details[0].Field)
	assert.Equal(suite.T(), "is required", details[0].Message)
	assert.Equal(suite.T(), "status", details[1].Field)
}

// TestListAttachesStats tests that each campaign in a page carries its lead stats
func (suite *CampaignServiceTestSuite) TestListAttachesStats() {
	q := &service.CampaignListQuery{Page: 2, Limit: 2, Search: "Q", SortBy: "name", SortOrder: "asc"}

	suite.mockCampaignRepo.EXPECT().
		List(suite.ctx, repository.ListParams{
			UserID:     testUserID,
			Search:     "Q",
			SortColumn: "name",
			Descending: false,
			Limit:      2,
			Offset:     2,
		}).
		Return([]models.Campaign{*campaign(3, "Q3", models.CampaignStatusActive), *campaign(4, "Q4", models.CampaignStatusDraft)}, int64(5), nil)
	suite.mockLeadRepo.EXPECT().
		CountByStatus(suite.ctx, testUserID, []uint{3, 4}).
		Return([]repository.StatusCount{
			{CampaignID: 3, Status: "pending", Count: 2},
			{CampaignID: 3, Status: "converted", Count: 1},
		}, nil)

	resp, err := suite.campaignService.List(suite.ctx, testUserID, q)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 2)
	assert.Equal(suite.T(), int64(2), resp.Data[0].Stats.Pending)
	assert.Equal(suite.T(), int64(1), resp.Data[0].Stats.Converted)
	assert.Equal(suite.T(), int64(3), resp.Data[0].TotalLeads)
	assert.Equal(suite.T(), service.LeadStats{}, resp.Data[1].Stats)
	assert.Equal(suite.T(), service.Pagination{Page: 2, Limit: 2, Total: 5, Pages: 3, HasMore: true}, resp.Pagination)
}

// TestListRejectsUnknownSort tests that sortBy outside the allow-list fails validation
func (suite *CampaignServiceTestSuite) TestListRejectsUnknownSort() {
	resp, err := suite.campaignService.List(suite.ctx, testUserID, &service.CampaignListQuery{Page: 1, Limit: 10, SortBy: "userId"})

	assert.Nil(suite.T(), resp)
	assert.True(suite.T(), apperrors.IsValidation(err))
	assert.Equal(suite.T(), "sortBy", apperrors.ValidationDetails(err)[0].Field)
}

// TestListRejectsZeroPage tests that page must be positive
func (suite *CampaignServiceTestSuite) TestListRejectsZeroPage() {
	_, err := suite.campaignService.List(suite.ctx, testUserID, &service.CampaignListQuery{Page: 0, Limit: 10})

	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestGetNotOwned tests that a campaign of another user is reported as not found
func (suite *CampaignServiceTestSuite) TestGetNotOwned() {
	suite.mockCampaignRepo.EXPECT().
		GetByIDForUser(suite.ctx, uint(9), testUserID).
		Return(nil, gorm.ErrRecordNotFound)

	resp, err := suite.campaignService.Get(suite.ctx, testUserID, 9)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCampaignNotFound)
}

// TestGetWithStats tests the stats of a campaign with one pending lead
func (suite *CampaignServiceTestSuite) TestGetWithStats() {
	suite.mockCampaignRepo.EXPECT().
		GetByIDForUser(suite.ctx, uint(1), testUserID).
		Return(campaign(1, "Q1 Outreach", models.CampaignStatusDraft), nil)
	suite.mockLeadRepo.EXPECT().
		CountByStatus(suite.ctx, testUserID, []uint{1}).
		Return([]repository.StatusCount{{CampaignID: 1, Status: "pending", Count: 1}}, nil)

	resp, err := suite.campaignService.Get(suite.ctx, testUserID, 1)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), service.LeadStats{Pending: 1}, resp.Stats)
	assert.Equal(suite.T(), int64(1), resp.TotalLeads)
}

// TestUpdateStatusPublishesEvent tests that a status change is published
func (suite *CampaignServiceTestSuite) TestUpdateStatusPublishesEvent() {
	active := models.CampaignStatusActive
	gomock.InOrder(
		suite.mockCampaignRepo.EXPECT().
			GetByIDForUser(suite.ctx, uint(1), testUserID).
			Return(campaign(1, "Q1", models.CampaignStatusDraft), nil),
		suite.mockCampaignRepo.EXPECT().
			Update(suite.ctx, uint(1), testUserID, map[string]interface{}{"status": active}).
			Return(nil),
		suite.mockCampaignRepo.EXPECT().
			GetByIDForUser(suite.ctx, uint(1), testUserID).
			Return(campaign(1, "Q1", models.CampaignStatusActive), nil),
	)
	suite.mockLeadRepo.EXPECT().CountByStatus(suite.ctx, testUserID, []uint{1}).Return(nil, nil)

	resp, err := suite.campaignService.Update(suite.ctx, testUserID, 1, &service.UpdateCampaignRequest{Status: &active})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.CampaignStatusActive, resp.Status)
	suite.Require().Len(suite.publisher.events, 1)
	assert.Equal(suite.T(), events.CampaignStatusChanged, suite.publisher.events[0].Type)
	assert.Equal(suite.T(), "draft", suite.publisher.events[0].From)
	assert.Equal(suite.T(), "active", suite.publisher.events[0].To)
}

// TestUpdatePublishFailureIsIgnored tests that a broker error does not fail the update
func (suite *CampaignServiceTestSuite) TestUpdatePublishFailureIsIgnored() {
	suite.publisher.err = errors.New("broker down")
	inactive := models.CampaignStatusInactive
	gomock.InOrder(
		suite.mockCampaignRepo.EXPECT().GetByIDForUser(suite.ctx, uint(1), testUserID).
			Return(campaign(1, "Q1", models.CampaignStatusActive), nil),
		suite.mockCampaignRepo.EXPECT().Update(suite.ctx, uint(1), testUserID, gomock.Any()).Return(nil),
		suite.mockCampaignRepo.EXPECT().GetByIDForUser(suite.ctx, uint(1), testUserID).
			Return(campaign(1, "Q1", models.CampaignStatusInactive), nil),
	)
	suite.mockLeadRepo.EXPECT().CountByStatus(suite.ctx, testUserID, []uint{1}).Return(nil, nil)

	resp, err := suite.campaignService.Update(suite.ctx, testUserID, 1, &service.UpdateCampaignRequest{Status: &inactive})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.CampaignStatusInactive, resp.Status)
}

// TestUpdateBlankName tests that an explicit empty name is rejected
func (suite *CampaignServiceTestSuite) TestUpdateBlankName() {
	blank := " "
	_, err := suite.campaignService.Update(suite.ctx, testUserID, 1, &service.UpdateCampaignRequest{Name: &blank})

	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestUpdateNotOwned tests updating another user's campaign
func (suite *CampaignServiceTestSuite) TestUpdateNotOwned() {
	name := "x"
	suite.mockCampaignRepo.EXPECT().GetByIDForUser(suite.ctx, uint(5), testUserID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.campaignService.Update(suite.ctx, testUserID, 5, &service.UpdateCampaignRequest{Name: &name})

	assert.ErrorIs(suite.T(), err, apperrors.ErrCampaignNotFound)
	assert.Empty(suite.T(), suite.publisher.events)
}

// TestDeleteWithLeads tests the deletion guard
func (suite *CampaignServiceTestSuite) TestDeleteWithLeads() {
	suite.mockCampaignRepo.EXPECT().DeleteIfEmpty(suite.ctx, uint(1), testUserID).Return(apperrors.ErrCampaignHasLeads)

	err := suite.campaignService.Delete(suite.ctx, testUserID, 1)

	assert.ErrorIs(suite.T(), err, apperrors.ErrCampaignHasLeads)
	assert.True(suite.T(), apperrors.IsBusinessRule(err))
}

// TestDeleteNotOwned tests deleting another user's campaign
func (suite *CampaignServiceTestSuite) TestDeleteNotOwned() {
	suite.mockCampaignRepo.EXPECT().DeleteIfEmpty(suite.ctx, uint(1), testUserID).Return(gorm.ErrRecordNotFound)

	assert.ErrorIs(suite.T(), suite.campaignService.Delete(suite.ctx, testUserID, 1), apperrors.ErrCampaignNotFound)
}

// TestDeleteDatabaseError tests that infrastructure errors are wrapped
func (suite *CampaignServiceTestSuite) TestDeleteDatabaseError() {
	suite.mockCampaignRepo.EXPECT().DeleteIfEmpty(suite.ctx, uint(1), testUserID).Return(errors.New("connection reset"))

	err := suite.campaignService.Delete(suite.ctx, testUserID, 1)

	assert.ErrorContains(suite.T(), err, "failed to delete campaign")
	assert.False(suite.T(), apperrors.IsNotFound(err))
}

// TestListLeadsScopesToCampaign tests the campaign leads listing
func (suite *CampaignServiceTestSuite) TestListLeadsScopesToCampaign() {
	suite.mockCampaignRepo.EXPECT().GetByIDForUser(suite.ctx, uint(1), testUserID).
		Return(campaign(1, "Q1", models.CampaignStatusActive), nil)
	suite.mockLeadRepo.EXPECT().
		List(suite.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p repository.ListParams) ([]models.Lead, int64, error) {
			suite.Require().NotNil(p.CampaignID)
			assert.Equal(suite.T(), uint(1), *p.CampaignID)
			assert.Equal(suite.T(), "created_at", p.SortColumn)
			assert.True(suite.T(), p.Descending)
			return []models.Lead{{FirstName: "Ann", CampaignID: 1}}, 1, nil
		})

	resp, err := suite.campaignService.ListLeads(suite.ctx, testUserID, 1, &service.LeadListQuery{Page: 1, Limit: 10})

	suite.Require().NoError(err)
	assert.Len(suite.T(), resp.Data, 1)
	assert.False(suite.T(), resp.Pagination.HasMore)
}

// TestListLeadsCampaignNotOwned tests that another user's campaign leads are hidden
func (suite *CampaignServiceTestSuite) TestListLeadsCampaignNotOwned() {
	suite.mockCampaignRepo.EXPECT().GetByIDForUser(suite.ctx, uint(1), testUserID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.campaignService.ListLeads(suite.ctx, testUserID, 1, &service.LeadListQuery{Page: 1, Limit: 10})

	assert.ErrorIs(suite.T(), err, apperrors.ErrCampaignNotFound)
}

// TestCampaignServiceTestSuite runs the test suite
func TestCampaignServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}
