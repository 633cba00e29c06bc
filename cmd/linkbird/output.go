package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"linkbird-backend/internal/client"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// render writes v as YAML or t as a table, depending on --output
func (a *app) render(w io.Writer, v interface{}, t *table.Table) error {
	if a.output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func pageCaption(p client.Pagination) string {
	return fmt.Sprintf("page %d of %d, %d total", p.Page, p.Pages, p.Total)
}

func campaignTable(page *client.Page[client.Campaign]) *table.Table {
	t := newTable("ID", "NAME", "STATUS", "START", "LEADS", "CONVERTED")
	for _, c := range page.Data {
		t.Row(itoa(int64(c.ID)), c.Name, c.Status, formatDate(c.StartDate), itoa(c.TotalLeads), itoa(c.Stats.Converted))
	}
	t.Row("", pageCaption(page.Pagination), "", "", "", "")
	return t
}

func campaignDetail(c *client.Campaign) *table.Table {
	return newTable("FIELD", "VALUE").Rows(
		[]string{"id", itoa(int64(c.ID))},
		[]string{"name", c.Name},
		[]string{"status", c.Status},
		[]string{"start date", formatDate(c.StartDate)},
		[]string{"total leads", itoa(c.TotalLeads)},
		[]string{"pending", itoa(c.Stats.Pending)},
		[]string{"contacted", itoa(c.Stats.Contacted)},
		[]string{"responded", itoa(c.Stats.Responded)},
		[]string{"converted", itoa(c.Stats.Converted)},
		[]string{"rejected", itoa(c.Stats.Rejected)},
	)
}

func leadTable(page *client.Page[client.Lead]) *table.Table {
	t := newTable("ID", "NAME", "EMAIL", "COMPANY", "STATUS", "CAMPAIGN")
	for _, l := range page.Data {
		t.Row(itoa(int64(l.ID)), l.FirstName+" "+l.LastName, l.Email, l.Company, l.Status, l.CampaignName)
	}
	t.Row("", pageCaption(page.Pagination), "", "", "", "")
	return t
}

func leadDetail(l *client.Lead) *table.Table {
	return newTable("FIELD", "VALUE").Rows(
		[]string{"id", itoa(int64(l.ID))},
		[]string{"name", l.FirstName + " " + l.LastName},
		[]string{"email", l.Email},
		[]string{"company", l.Company},
		[]string{"position", l.Position},
		[]string{"status", l.Status},
		[]string{"campaign", l.CampaignName},
		[]string{"last contact", formatDate(l.LastContactDate)},
		[]string{"response", formatDate(l.ResponseDate)},
		[]string{"notes", l.Notes},
	)
}

func dashboardTable(s *client.DashboardSummary) *table.Table {
	return newTable("METRIC", "VALUE").Rows(
		[]string{"campaigns", itoa(s.Campaigns.Total)},
		[]string{"active campaigns", itoa(s.Campaigns.Active)},
		[]string{"draft campaigns", itoa(s.Campaigns.Draft)},
		[]string{"inactive campaigns", itoa(s.Campaigns.Inactive)},
		[]string{"leads", itoa(s.TotalLeads)},
		[]string{"converted", itoa(s.Leads.Converted)},
		[]string{"conversion rate", strconv.FormatFloat(s.ConversionRate, 'f', 1, 64) + "%"},
	)
}

func sessionTable(s *client.Session) *table.Table {
	expires := "-"
	if s.ExpiresAt != nil {
		expires = s.ExpiresAt.Format(time.RFC3339)
	}
	return newTable("FIELD", "VALUE").Rows(
		[]string{"user", s.UserID},
		[]string{"email", s.Email},
		[]string{"name", s.Name},
		[]string{"expires", expires},
	)
}
