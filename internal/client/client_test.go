package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	t.Run("rejects non-http schemes", func(t *testing.T) {
		_, err := New("ftp://example.com/api")
		assert.Error(t, err)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := New("http://localhost:7008/api/")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:7008/api", c.baseURL.String())
	})
}

func TestAPIErrorDecoding(t *testing.T) {
	t.Run("error envelope with details", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   "Validation failed",
				"details": []map[string]string{{"field": "name", "message": "is required"}},
			})
		}))

		_, err := c.CreateCampaign(context.Background(), CreateCampaignInput{})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Validation failed", apiErr.Message)
		assert.Equal(t, []FieldError{{Field: "name", Message: "is required"}}, apiErr.Details)
		assert.Contains(t, err.Error(), "name: is required")
		assert.True(t, IsStatus(err, http.StatusBadRequest))
	})

	t.Run("non-JSON body falls back to status text", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))

		err := c.DeleteLead(context.Background(), 1)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
		assert.False(t, IsStatus(err, http.StatusNotFound))
	})
}

func TestRequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAuth = r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, Page[Lead]{Data: []Lead{{ID: 3, FirstName: "Ada"}}, Pagination: Pagination{Page: 2, Limit: 5, Total: 6}})
	}), WithToken("tok"))

	page, err := c.ListLeads(context.Background(), ListQuery{Page: 2, Limit: 5, Status: LeadPending, CampaignID: 7})
	require.NoError(t, err)

	assert.Equal(t, "/api/leads", gotPath)
	assert.Equal(t, "campaignId=7&limit=5&page=2&status=pending", gotQuery)
	assert.Equal(t, "Bearer tok", gotAuth)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Ada", page.Data[0].FirstName)
	assert.Equal(t, int64(6), page.Pagination.Total)
}

func TestDemoPaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/campaigns/demo", "/api/leads-demo":
			writeJSON(w, http.StatusOK, Page[Lead]{})
		default:
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": 4})
		}
	}), WithDemo())

	ctx := context.Background()
	_, err := c.ListCampaigns(ctx, ListQuery{})
	require.NoError(t, err)
	_, err = c.GetCampaign(ctx, 4)
	require.NoError(t, err)
	_, err = c.ListLeads(ctx, ListQuery{})
	require.NoError(t, err)
	_, err = c.GetLead(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/campaigns/demo", "/api/campaigns/demo/4", "/api/leads-demo", "/api/leads-demo/4"}, paths)
}

func TestCampaignLeadsDropsCampaignFilter(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		writeJSON(w, http.StatusOK, Page[Lead]{})
	}))

	_, err := c.ListCampaignLeads(context.Background(), 9, ListQuery{CampaignID: 3, Search: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, "/api/campaigns/9/leads", gotPath)
	assert.Equal(t, "search=Jo", gotQuery)
}

func TestExportLeadsStreamsCSV(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,firstName\n1,Ada\n"))
	}))

	var buf bytes.Buffer
	err := c.ExportLeads(context.Background(), ListQuery{Page: 3, Limit: 10, Status: LeadConverted}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "status=converted", gotQuery)
	assert.Equal(t, "id,firstName\n1,Ada\n", buf.String())
}

func TestUpdateLeadSendsOnlySetFields(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, Lead{ID: 1, Status: LeadContacted})
	}))

	status := LeadContacted
	lead, err := c.UpdateLead(context.Background(), 1, UpdateLeadInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, LeadContacted, lead.Status)
	assert.Equal(t, map[string]interface{}{"status": "contacted"}, body)
}
