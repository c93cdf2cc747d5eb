// Package gateway provides the HTTP client for the remote scraping platform API.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/common"
	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/service"
)

// DefaultBaseURL is used when no gateway URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Config holds gateway client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string
	// Timeout bounds each request; zero means 30s.
	Timeout time.Duration
	// OnUnauthorized is invoked when the backend returns 401, so the caller
	// can reset the session. Optional.
	OnUnauthorized func()
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: gateway base URL is required", common.ErrMissingConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: invalid gateway base URL: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// Client implements service.Gateway against the platform's HTTP API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized func()
}

var _ service.Gateway = (*Client)(nil)

// NewClient creates a gateway client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:         slog.Default().With("component", "gateway"),
		onUnauthorized: cfg.OnUnauthorized,
	}, nil
}

// ListRetailers fetches all known retailers.
func (c *Client) ListRetailers(ctx context.Context) ([]model.Retailer, error) {
	var retailers []model.Retailer
	if err := c.getJSON(ctx, "/retailers", nil, &retailers); err != nil {
		return nil, err
	}
	return retailers, nil
}

// GetRetailerSummary fetches per-retailer product metrics.
func (c *Client) GetRetailerSummary(ctx context.Context) ([]model.RetailerStats, error) {
	var stats []model.RetailerStats
	if err := c.getJSON(ctx, "/retailers/summary", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetCategoryStats fetches raw per-retailer category counts.
func (c *Client) GetCategoryStats(ctx context.Context, filter service.StatsFilter) (map[string]model.CategoryStats, error) {
	params := url.Values{}
	if filter.RetailerCode != "" {
		params.Set("retailer", filter.RetailerCode)
	}

	var payload struct {
		RetailerStats map[string]model.CategoryStats `json:"retailer_stats"`
	}
	if err := c.getJSON(ctx, "/categories/stats", params, &payload); err != nil {
		return nil, err
	}
	if payload.RetailerStats == nil {
		payload.RetailerStats = map[string]model.CategoryStats{}
	}
	return payload.RetailerStats, nil
}

// GetCategoryChanges fetches category changes within the lookback window.
func (c *Client) GetCategoryChanges(ctx context.Context, filter service.ChangesFilter) ([]model.Change, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(filter.Days))
	if filter.RetailerCode != "" {
		params.Set("retailer", filter.RetailerCode)
	}

	var changes []model.Change
	if err := c.getJSON(ctx, "/categories/changes", params, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// GetCategoryHealth fetches the focused health detail for one retailer.
func (c *Client) GetCategoryHealth(ctx context.Context, retailerCode string) (*model.HealthDetail, error) {
	if retailerCode == "" {
		return nil, fmt.Errorf("retailer code is required")
	}

	var detail model.HealthDetail
	if err := c.getJSON(ctx, "/categories/health/"+url.PathEscape(retailerCode), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// TriggerCategoryMonitor requests an out-of-schedule monitoring run. The
// response only acknowledges that the run was queued.
func (c *Client) TriggerCategoryMonitor(ctx context.Context, retailerCode string) (*service.TriggerAck, error) {
	params := url.Values{}
	if retailerCode != "" {
		params.Set("retailer", retailerCode)
	}

	var ack service.TriggerAck
	if err := c.doJSON(ctx, http.MethodPost, "/monitoring/trigger", params, &ack); err != nil {
		return nil, err
	}

	c.logger.Info("Monitoring run triggered",
		"retailer", retailerCode,
		"job_id", ack.JobID)
	return &ack, nil
}

// ListMonitoringTriggers lists scheduled triggers. The backend has no such
// endpoint yet, so this always resolves to an empty list rather than an
// error; callers need no special casing.
func (c *Client) ListMonitoringTriggers(_ context.Context, _ string) ([]model.Trigger, error) {
	return []model.Trigger{}, nil
}

// CreateMonitoringTrigger is not available in the backend yet.
func (c *Client) CreateMonitoringTrigger(_ context.Context, _ model.Trigger) error {
	return &common.NotImplementedError{Resource: "monitoring trigger creation"}
}

// DeleteMonitoringTrigger is not available in the backend yet.
func (c *Client) DeleteMonitoringTrigger(_ context.Context, _ string) error {
	return &common.NotImplementedError{Resource: "monitoring trigger deletion"}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, params, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to build request URL: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &common.HTTPError{Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &common.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// transportError normalizes network failures into the retryable taxonomy.
func (c *Client) transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", common.ErrRequestTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrRequestTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrGatewayUnavailable, err)
}
