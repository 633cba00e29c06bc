package testutils

import (
	"testing"

	"linkbird-backend/internal/database/models"

	"github.com/stretchr/testify/assert"
)

func TestFactoriesProduceDistinctValidRows(t *testing.T) {
	campaigns := NewCampaignFactory("user-1")
	a, b := campaigns.Create(), campaigns.WithStatus(models.CampaignStatusActive)
	assert.NotEqual(t, a.Name, b.Name)
	assert.Equal(t, "user-1", a.UserID)
	assert.Equal(t, models.CampaignStatusActive, b.Status)

	leads := NewLeadFactory("user-1", 3)
	x, y := leads.Create(), leads.WithName("Ann", "Lee")
	assert.NotEqual(t, x.Email, y.Email)
	assert.Equal(t, uint(3), y.CampaignID)
	assert.Equal(t, "Ann", y.FirstName)
	assert.True(t, x.Status.IsValid())
}
