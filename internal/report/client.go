// Package report exports tabular event data: authenticate against the
// platform API, fetch one set of table rows with a filter/sort query, and
// serialize them to CSV.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trop3n/samc/internal/metrics"
)

// Config holds client construction parameters.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client

	// Metrics receives per-call timings when set.
	Metrics *metrics.Collector
}

// Client talks to the platform's table API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
	metrics      *metrics.Collector
}

// NewClient creates a report API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("report base URL required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("report client credentials required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         httpClient,
		metrics:      cfg.Metrics,
	}, nil
}

// Token obtains an OAuth2 access token via the client-credentials grant.
func (c *Client) Token(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response carries no access_token")
	}
	return payload.AccessToken, nil
}

// Row is one table row as returned by the API.
type Row map[string]any

// Query selects which rows to export and in what order.
type Query struct {
	Table   string
	Select  []string // column names, also the CSV column order
	Filter  string   // OData-style $filter expression, optional
	OrderBy string   // OData-style $orderby expression, optional
	Top     int      // row limit, 0 for the API default
}

// FetchRows fetches one page set of table rows.
func (c *Client) FetchRows(ctx context.Context, token string, q Query) ([]Row, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("table name required")
	}

	started := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordTiming(metrics.OpReportFetch, time.Since(started))
		}
	}()

	query := url.Values{}
	if len(q.Select) > 0 {
		query.Set("$select", strings.Join(q.Select, ","))
	}
	if q.Filter != "" {
		query.Set("$filter", q.Filter)
	}
	if q.OrderBy != "" {
		query.Set("$orderby", q.OrderBy)
	}
	if q.Top > 0 {
		query.Set("$top", strconv.Itoa(q.Top))
	}

	u := c.baseURL + "/tables/" + url.PathEscape(q.Table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("row fetch failed (status %d): %s", resp.StatusCode, string(body))
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
