package vimeo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/trop3n/samc/internal/metrics"
)

const (
	// DefaultBaseURL is the production Vimeo API host.
	DefaultBaseURL = "https://api.vimeo.com"

	// DefaultPerPage is the largest page size the API allows.
	DefaultPerPage = 100

	// apiVersion pins the response representation; Vimeo requires it in Accept.
	apiVersion = "application/vnd.vimeo.*+json;version=3.4"

	// maxErrorBody bounds how much of an error response is kept for diagnostics.
	maxErrorBody = 512
)

// Config holds client construction parameters.
type Config struct {
	Token   string
	BaseURL string // defaults to DefaultBaseURL

	// RequestsPerSecond throttles outgoing calls; Vimeo enforces per-token
	// quotas. Zero disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the underlying client (tests). Nil uses a
	// client with a 30s timeout.
	HTTPClient *http.Client

	// Metrics receives per-call timings when set.
	Metrics *metrics.Collector
}

// Client talks to the Vimeo API. All methods issue at most one network
// call; retries and caching are the caller's concern.
type Client struct {
	token   string
	baseURL string
	perPage int
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Collector
}

// NewClient creates a Vimeo API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		token:   cfg.Token,
		baseURL: baseURL,
		perPage: DefaultPerPage,
		http:    httpClient,
		limiter: limiter,
		metrics: cfg.Metrics,
	}
}

// get performs a GET against an API path with query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "get", Err: err}
	}
	return resp, nil
}

// patch performs a PATCH with a JSON body against an API path.
func (c *Client) patch(ctx context.Context, path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "patch", Err: err}
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Accept", apiVersion)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: "wait", Err: err}
	}
	return nil
}

func (c *Client) observe(op string, started time.Time) {
	if c.metrics != nil {
		c.metrics.RecordTiming(op, time.Since(started))
	}
}

// checkStatus converts a non-2xx response into a StatusError, consuming a
// bounded prefix of the body. The caller still owns resp.Body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: string(body)}
}

// UpdateTitle rewrites the name field of one video. No response body is
// consumed beyond status checking.
func (c *Client) UpdateTitle(ctx context.Context, videoID int64, name string) error {
	started := time.Now()
	defer c.observe(metrics.OpUpdateTitle, started)

	resp, err := c.patch(ctx, fmt.Sprintf("/videos/%d", videoID), map[string]string{"name": name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return nil
}
