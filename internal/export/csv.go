package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"linkbird-backend/internal/database/models"

	"github.com/go-gota/gota/dataframe"
)

// leadRow is the flat CSV shape of a lead; field order is column order
type leadRow struct {
	ID              int    `dataframe:"id"`
	FirstName       string `dataframe:"firstName"`
	LastName        string `dataframe:"lastName"`
	Email           string `dataframe:"email"`
	Company         string `dataframe:"company"`
	Position        string `dataframe:"position"`
	Status          string `dataframe:"status"`
	CampaignID      int    `dataframe:"campaignId"`
	CampaignName    string `dataframe:"campaignName"`
	LastContactDate string `dataframe:"lastContactDate"`
	ResponseDate    string `dataframe:"responseDate"`
	Notes           string `dataframe:"notes"`
	CreatedAt       string `dataframe:"createdAt"`
	UpdatedAt       string `dataframe:"updatedAt"`
}

// LeadColumns is the CSV header row
var LeadColumns = []string{
	"id", "firstName", "lastName", "email", "company", "position", "status",
	"campaignId", "campaignName", "lastContactDate", "responseDate", "notes",
	"createdAt", "updatedAt",
}

// WriteLeadsCSV writes a header row followed by one row per lead
func WriteLeadsCSV(w io.Writer, leads []models.Lead) error {
	if len(leads) == 0 {
		// gota refuses to build a frame without rows
		cw := csv.NewWriter(w)
		if err := cw.Write(LeadColumns); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
		cw.Flush()
		return cw.Error()
	}

	rows := make([]leadRow, len(leads))
	for i := range leads {
		rows[i] = toRow(&leads[i])
	}

	// lead fields are free text; a name like "NA" is not a missing value
	df := dataframe.LoadStructs(rows, dataframe.NaNValues(nil))
	if df.Err != nil {
		return fmt.Errorf("failed to build lead frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func toRow(l *models.Lead) leadRow {
	row := leadRow{
		ID:              int(l.ID),
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Company:         l.Company,
		Position:        l.Position,
		Status:          string(l.Status),
		CampaignID:      int(l.CampaignID),
		LastContactDate: formatTime(l.LastContactDate),
		ResponseDate:    formatTime(l.ResponseDate),
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.Campaign != nil {
		row.CampaignName = l.Campaign.Name
	}
	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
