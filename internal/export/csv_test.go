package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"linkbird-backend/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLeadsCSV(t *testing.T) {
	contacted := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{
			BaseModel:       models.BaseModel{ID: 1, CreatedAt: created, UpdatedAt: created},
			FirstName:       "Ann",
			LastName:        "Lee",
			Email:           "ann@x.com",
			Company:         "Acme, Inc.",
			Status:          models.LeadStatusContacted,
			CampaignID:      4,
			LastContactDate: &contacted,
			Campaign:        &models.Campaign{Name: "Q1 Outreach"},
		},
		{
			BaseModel:  models.BaseModel{ID: 2, CreatedAt: created, UpdatedAt: created},
			FirstName:  "Bo",
			LastName:   "Kim",
			Email:      "bo@x.com",
			Status:     models.LeadStatusPending,
			CampaignID: 4,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, leads))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, LeadColumns, records[0])

	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Ann", records[1][1])
	assert.Equal(t, "Acme, Inc.", records[1][4])
	assert.Equal(t, "contacted", records[1][6])
	assert.Equal(t, "Q1 Outreach", records[1][8])
	assert.Equal(t, "2024-03-01T09:30:00Z", records[1][9])

	assert.Equal(t, "Bo", records[2][1])
	assert.Equal(t, "pending", records[2][6])
}

func TestWriteLeadsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, LeadColumns, records[0])
}

func TestWriteLeadsCSV_KeepsMissingValueLookalikes(t *testing.T) {
	leads := []models.Lead{{
		BaseModel: models.BaseModel{ID: 1},
		FirstName: "NA",
		LastName:  "NaN",
		Email:     "na@x.com",
		Company:   "<nil>",
		Notes:     "N/A",
		Status:    models.LeadStatusPending,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteLeadsCSV(&buf, leads))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "NA", records[1][1])
	assert.Equal(t, "NaN", records[1][2])
	assert.Equal(t, "<nil>", records[1][4])
	assert.Equal(t, "N/A", records[1][11])
}
