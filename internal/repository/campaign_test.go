//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"linkbird-backend/internal/database/models"
	apperrors "linkbird-backend/internal/errors"
	"linkbird-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const (
	owner    = "user-1"
	stranger = "user-2"
)

// CampaignRepositoryTestSuite tests the CampaignRepository
type CampaignRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *CampaignRepository
	leadRepo      *LeadRepository
	campaigns     *testutils.CampaignFactory
	ctx           context.Context
}

// SetupSuite runs before all tests in the suite
func (suite *CampaignRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewCampaignRepository(suite.baseTestSuite.DB)
	suite.leadRepo = NewLeadRepository(suite.baseTestSuite.DB)
	suite.campaigns = testutils.NewCampaignFactory(owner)
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *CampaignRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.CleanTestDB()
}

// SetupTest runs before each test
func (suite *CampaignRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *CampaignRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *CampaignRepositoryTestSuite) create(c *models.Campaign) *models.Campaign {
	suite.Require().NoError(suite.repo.Create(suite.ctx, c))
	return c
}

func (suite *CampaignRepositoryTestSuite) TestCreate() {
	campaign := suite.campaigns.Create()

	err := suite.repo.Create(suite.ctx, campaign)

	suite.NoError(err)
	suite.NotZero(campaign.ID)
	suite.NotZero(campaign.CreatedAt)
	suite.NotZero(campaign.UpdatedAt)
}

func (suite *CampaignRepositoryTestSuite) TestGetByIDForUser() {
	campaign := suite.create(suite.campaigns.Create())

	found, err := suite.repo.GetByIDForUser(suite.ctx, campaign.ID, owner)
	suite.NoError(err)
	suite.Equal(campaign.Name, found.Name)

	_, err = suite.repo.GetByIDForUser(suite.ctx, campaign.ID, stranger)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *CampaignRepositoryTestSuite) TestListFiltersByOwnerStatusAndSearch() {
	suite.create(suite.campaigns.WithName("Spring outreach"))
	active := suite.campaigns.WithName("Summer outreach")
	active.Status = models.CampaignStatusActive
	suite.create(active)
	suite.create(testutils.NewCampaignFactory(stranger).WithName("Summer outreach"))

	all, total, err := suite.repo.List(suite.ctx, ListParams{UserID: owner, Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(all, 2)

	_, total, err = suite.repo.List(suite.ctx, ListParams{UserID: owner, Search: "Summer", Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(1), total)

	_, total, err = suite.repo.List(suite.ctx, ListParams{UserID: owner, Search: "summer", Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(0), total, "search is case-sensitive")

	got, total, err := suite.repo.List(suite.ctx, ListParams{UserID: owner, Status: "active", Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(active.ID, got[0].ID)
}

func (suite *CampaignRepositoryTestSuite) TestListEscapesLikeWildcards() {
	suite.create(suite.campaigns.WithName("100% growth"))
	suite.create(suite.campaigns.WithName("1000 growth"))

	got, total, err := suite.repo.List(suite.ctx, ListParams{UserID: owner, Search: "100%", Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("100% growth", got[0].Name)

	_, total, err = suite.repo.List(suite.ctx, ListParams{UserID: owner, Search: "_", Limit: 10})
	suite.NoError(err)
	suite.Equal(int64(0), total)
}

func (suite *CampaignRepositoryTestSuite) TestListPaginatesAndSorts() {
	for _, name := range []string{"b", "a", "c", "e", "d"} {
		suite.create(suite.campaigns.WithName(name))
	}

	page, total, err := suite.repo.List(suite.ctx, ListParams{
		UserID: owner, SortColumn: "name", Limit: 2, Offset: 2,
	})
	suite.NoError(err)
	suite.Equal(int64(5), total)
	suite.Require().Len(page, 2)
	suite.Equal("c", page[0].Name)
	suite.Equal("d", page[1].Name)

	page, _, err = suite.repo.List(suite.ctx, ListParams{
		UserID: owner, SortColumn: "name", Descending: true, Limit: 1,
	})
	suite.NoError(err)
	suite.Equal("e", page[0].Name)
}

func (suite *CampaignRepositoryTestSuite) TestUpdate() {
	campaign := suite.create(suite.campaigns.Create())

	err := suite.repo.Update(suite.ctx, campaign.ID, owner, map[string]interface{}{"status": models.CampaignStatusActive})
	suite.NoError(err)

	found, err := suite.repo.GetByIDForUser(suite.ctx, campaign.ID, owner)
	suite.NoError(err)
	suite.Equal(models.CampaignStatusActive, found.Status)

	err = suite.repo.Update(suite.ctx, campaign.ID, stranger, map[string]interface{}{"name": "stolen"})
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *CampaignRepositoryTestSuite) TestDeleteIfEmpty() {
	campaign := suite.create(suite.campaigns.Create())

	suite.NoError(suite.repo.DeleteIfEmpty(suite.ctx, campaign.ID, owner))

	_, err := suite.repo.GetByIDForUser(suite.ctx, campaign.ID, owner)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *CampaignRepositoryTestSuite) TestDeleteIfEmptyRefusesCampaignWithLeads() {
	campaign := suite.create(suite.campaigns.Create())
	lead := testutils.NewLeadFactory(owner, campaign.ID).Create()
	suite.Require().NoError(suite.leadRepo.CreateInCampaign(suite.ctx, lead))

	err := suite.repo.DeleteIfEmpty(suite.ctx, campaign.ID, owner)
	suite.ErrorIs(err, apperrors.ErrCampaignHasLeads)

	_, err = suite.repo.GetByIDForUser(suite.ctx, campaign.ID, owner)
	suite.NoError(err)
}

func (suite *CampaignRepositoryTestSuite) TestDeleteIfEmptyForeignCampaign() {
	campaign := suite.create(suite.campaigns.Create())

	err := suite.repo.DeleteIfEmpty(suite.ctx, campaign.ID, stranger)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *CampaignRepositoryTestSuite) TestForeignKeyRestrictsDelete() {
	campaign := suite.create(suite.campaigns.Create())
	lead := testutils.NewLeadFactory(owner, campaign.ID).Create()
	suite.Require().NoError(suite.leadRepo.CreateInCampaign(suite.ctx, lead))

	err := suite.baseTestSuite.DB.Delete(&models.Campaign{}, campaign.ID).Error
	suite.Error(err)
}

// assertBlocked fails when done yields within the wait
func (suite *CampaignRepositoryTestSuite) assertBlocked(done <-chan error) {
	select {
	case err := <-done:
		suite.Failf("expected the statement to wait for the row lock", "returned early with %v", err)
	case <-time.After(300 * time.Millisecond):
	}
}

func (suite *CampaignRepositoryTestSuite) TestLeadInsertWaitsForGuardedDelete() {
	campaign := suite.create(suite.campaigns.Create())

	tx := suite.baseTestSuite.DB.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()
	suite.Require().NoError(NewCampaignRepository(tx).DeleteIfEmpty(suite.ctx, campaign.ID, owner))

	done := make(chan error, 1)
	go func() {
		done <- suite.leadRepo.CreateInCampaign(suite.ctx, testutils.NewLeadFactory(owner, campaign.ID).Create())
	}()
	suite.assertBlocked(done)

	suite.Require().NoError(tx.Commit().Error)
	suite.ErrorIs(<-done, gorm.ErrRecordNotFound, "the insert sees the campaign gone")

	var leads int64
	suite.Require().NoError(suite.baseTestSuite.DB.Model(&models.Lead{}).Where("campaign_id = ?", campaign.ID).Count(&leads).Error)
	suite.Zero(leads)
}

func (suite *CampaignRepositoryTestSuite) TestGuardedDeleteWaitsForLeadInsert() {
	campaign := suite.create(suite.campaigns.Create())

	tx := suite.baseTestSuite.DB.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()
	suite.Require().NoError(NewLeadRepository(tx).CreateInCampaign(suite.ctx, testutils.NewLeadFactory(owner, campaign.ID).Create()))

	done := make(chan error, 1)
	go func() {
		done <- suite.repo.DeleteIfEmpty(suite.ctx, campaign.ID, owner)
	}()
	suite.assertBlocked(done)

	suite.Require().NoError(tx.Commit().Error)
	suite.ErrorIs(<-done, apperrors.ErrCampaignHasLeads, "the delete sees the committed lead")

	_, err := suite.repo.GetByIDForUser(suite.ctx, campaign.ID, owner)
	suite.NoError(err)
}

func (suite *CampaignRepositoryTestSuite) TestCountByStatusAndSample() {
	suite.create(suite.campaigns.WithStatus(models.CampaignStatusActive))
	suite.create(suite.campaigns.WithStatus(models.CampaignStatusActive))
	suite.create(suite.campaigns.WithStatus(models.CampaignStatusDraft))
	suite.create(testutils.NewCampaignFactory(stranger).Create())

	rows, err := suite.repo.CountByStatus(suite.ctx, owner)
	suite.NoError(err)
	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	suite.Equal(map[string]int64{"active": 2, "draft": 1}, counts)

	total, err := suite.repo.Count(suite.ctx, owner)
	suite.NoError(err)
	suite.Equal(int64(3), total)

	sample, err := suite.repo.Sample(suite.ctx, owner, 2)
	suite.NoError(err)
	suite.Len(sample, 2)
}

// TestCampaignRepositoryTestSuite runs the test suite
func TestCampaignRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignRepositoryTestSuite))
}
