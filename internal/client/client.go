package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FieldError is one entry of the details of a validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for every non-2xx response
type APIError struct {
	Status  int
	Message string
	Details []FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if d.Field == "" {
			parts = append(parts, d.Message)
			continue
		}
		parts = append(parts, d.Field+": "+d.Message)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client is a typed client of the LinkBird API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	demo       bool
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken authenticates requests with a bearer session token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithDemo routes list and get calls to the unauthenticated demo endpoints
func WithDemo() Option {
	return func(c *Client) { c.demo = true }
}

// New creates a client for the API served at baseURL, e.g. http://localhost:7008/api
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL '%s': scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type errorEnvelope struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details"`
}

// do sends a request and decodes a JSON response into out, or copies the raw body to out when it is an io.Writer
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env errorEnvelope
		if raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); json.Unmarshal(raw, &env) == nil && env.Error != "" {
			apiErr.Message = env.Error
			apiErr.Details = env.Details
		}
		return apiErr
	}

	switch dst := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case io.Writer:
		_, err := io.Copy(dst, resp.Body)
		return err
	default:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	}
}

func idPath(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "/")
}

// ListCampaigns fetches one page of campaigns
func (c *Client) ListCampaigns(ctx context.Context, q ListQuery) (*Page[Campaign], error) {
	path := "campaigns"
	if c.demo {
		path = "campaigns/demo"
	}
	var page Page[Campaign]
	if err := c.do(ctx, http.MethodGet, path, q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCampaign fetches a campaign with its lead stats
func (c *Client) GetCampaign(ctx context.Context, id uint) (*Campaign, error) {
	path := idPath("campaigns", id)
	if c.demo {
		path = idPath("campaigns", "demo", id)
	}
	var campaign Campaign
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// CreateCampaign creates a campaign
func (c *Client) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*Campaign, error) {
	var campaign Campaign
	if err := c.do(ctx, http.MethodPost, "campaigns", nil, in, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// UpdateCampaign applies a partial update to a campaign
func (c *Client) UpdateCampaign(ctx context.Context, id uint, in UpdateCampaignInput) (*Campaign, error) {
	var campaign Campaign
	if err := c.do(ctx, http.MethodPut, idPath("campaigns", id), nil, in, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// DeleteCampaign deletes a campaign that has no leads
func (c *Client) DeleteCampaign(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("campaigns", id), nil, nil, nil)
}

// ListCampaignLeads fetches one page of the leads of a campaign
func (c *Client) ListCampaignLeads(ctx context.Context, campaignID uint, q ListQuery) (*Page[Lead], error) {
	q.CampaignID = 0
	var page Page[Lead]
	if err := c.do(ctx, http.MethodGet, idPath("campaigns", campaignID, "leads"), q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListLeads fetches one page of leads
func (c *Client) ListLeads(ctx context.Context, q ListQuery) (*Page[Lead], error) {
	path := "leads"
	if c.demo {
		path = "leads-demo"
	}
	var page Page[Lead]
	if err := c.do(ctx, http.MethodGet, path, q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListLeadsInfinite fetches one page from the infinite-scroll endpoint
func (c *Client) ListLeadsInfinite(ctx context.Context, q ListQuery) (*Page[Lead], error) {
	var page Page[Lead]
	if err := c.do(ctx, http.MethodGet, "leads-infinite", q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLead fetches a lead
func (c *Client) GetLead(ctx context.Context, id uint) (*Lead, error) {
	path := idPath("leads", id)
	if c.demo {
		path = idPath("leads-demo", id)
	}
	var lead Lead
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// CreateLead creates a lead in one of the caller's campaigns
func (c *Client) CreateLead(ctx context.Context, in CreateLeadInput) (*Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPost, "leads", nil, in, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateLead applies a partial update to a lead
func (c *Client) UpdateLead(ctx context.Context, id uint, in UpdateLeadInput) (*Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPut, idPath("leads", id), nil, in, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// DeleteLead deletes a lead
func (c *Client) DeleteLead(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("leads", id), nil, nil, nil)
}

// ExportLeads streams the CSV export of the matching leads into w
func (c *Client) ExportLeads(ctx context.Context, q ListQuery, w io.Writer) error {
	q.Page, q.Limit = 0, 0
	return c.do(ctx, http.MethodGet, "leads/export", q.Values(), nil, w)
}

// DashboardStats fetches the dashboard summary
func (c *Client) DashboardStats(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.do(ctx, http.MethodGet, "dashboard/stats", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Session returns the identity the client's token resolves to
func (c *Client) Session(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "auth/session", nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
