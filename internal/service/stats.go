package service

import (
	"linkbird-backend/internal/database/models"
	"linkbird-backend/internal/repository"
)

// LeadStats holds the number of leads in each outreach status
type LeadStats struct {
	Pending   int64 `json:"pending"`
	Contacted int64 `json:"contacted"`
	Responded int64 `json:"responded"`
	Converted int64 `json:"converted"`
	Rejected  int64 `json:"rejected"`
}

// Total returns the sum over all statuses
func (s LeadStats) Total() int64 {
	return s.Pending + s.Contacted + s.Responded + s.Converted + s.Rejected
}

// newLeadStats builds stats from per-status counts. Unknown statuses are ignored.
func newLeadStats(counts map[models.LeadStatus]int64) LeadStats {
	var stats LeadStats
	for _, status := range models.LeadStatuses {
		n := counts[status]
		switch status {
		case models.LeadStatusPending:
			stats.Pending = n
		case models.LeadStatusContacted:
			stats.Contacted = n
		case models.LeadStatusResponded:
			stats.Responded = n
		case models.LeadStatusConverted:
			stats.Converted = n
		case models.LeadStatusRejected:
			stats.Rejected = n
		}
	}
	return stats
}

// leadStatsByCampaign groups aggregate rows per campaign
func leadStatsByCampaign(rows []repository.StatusCount) map[uint]LeadStats {
	grouped := make(map[uint]map[models.LeadStatus]int64)
	for _, row := range rows {
		if grouped[row.CampaignID] == nil {
			grouped[row.CampaignID] = make(map[models.LeadStatus]int64)
		}
		grouped[row.CampaignID][models.LeadStatus(row.Status)] += row.Count
	}
	out := make(map[uint]LeadStats, len(grouped))
	for id, counts := range grouped {
		out[id] = newLeadStats(counts)
	}
	return out
}

// leadStatsOverall folds aggregate rows of every campaign into one
func leadStatsOverall(rows []repository.StatusCount) LeadStats {
	counts := make(map[models.LeadStatus]int64)
	for _, row := range rows {
		counts[models.LeadStatus(row.Status)] += row.Count
	}
	return newLeadStats(counts)
}

// CampaignCounts holds the number of campaigns in each lifecycle status
type CampaignCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Draft    int64 `json:"draft"`
}

func newCampaignCounts(rows []repository.StatusCount) CampaignCounts {
	counts := make(map[models.CampaignStatus]int64)
	for _, row := range rows {
		counts[models.CampaignStatus(row.Status)] += row.Count
	}
	var out CampaignCounts
	for _, status := range models.CampaignStatuses {
		n := counts[status]
		switch status {
		case models.CampaignStatusActive:
			out.Active = n
		case models.CampaignStatusInactive:
			out.Inactive = n
		case models.CampaignStatusDraft:
			out.Draft = n
		}
		out.Total += n
	}
	return out
}
