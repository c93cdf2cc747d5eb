// Package service defines the interfaces the dashboard core consumes.
package service

import (
	"context"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/model"
)

// ChangesFilter narrows the recent-changes query. Days is the whole-day
// lookback; RetailerCode optionally scopes the result to one retailer.
type ChangesFilter struct {
	Days         int
	RetailerCode string
}

// StatsFilter optionally scopes the category-stats query to one retailer.
// An empty RetailerCode means all retailers.
type StatsFilter struct {
	RetailerCode string
}

// TriggerAck acknowledges a manually requested monitoring run. It carries the
// queued job id only; the run itself completes asynchronously.
type TriggerAck struct {
	JobID string `json:"job_id"`
}

// Gateway is the contract for the remote data API. Implementations must map
// failures onto the common error taxonomy: transport problems and 5xx
// responses as retryable errors, other HTTP failures as non-retryable, and
// endpoints the backend lacks as NotImplementedError.
type Gateway interface {
	// ListRetailers returns all known retailers in the backend's stable order.
	ListRetailers(ctx context.Context) ([]model.Retailer, error)

	// GetRetailerSummary returns per-retailer product metrics.
	GetRetailerSummary(ctx context.Context) ([]model.RetailerStats, error)

	// GetCategoryStats returns raw per-retailer category counts keyed by
	// retailer code.
	GetCategoryStats(ctx context.Context, filter StatsFilter) (map[string]model.CategoryStats, error)

	// GetCategoryChanges returns category changes within the lookback window.
	GetCategoryChanges(ctx context.Context, filter ChangesFilter) ([]model.Change, error)

	// GetCategoryHealth returns the focused health detail for one retailer.
	GetCategoryHealth(ctx context.Context, retailerCode string) (*model.HealthDetail, error)

	// TriggerCategoryMonitor requests an out-of-schedule monitoring run.
	// An empty code triggers all retailers.
	TriggerCategoryMonitor(ctx context.Context, retailerCode string) (*TriggerAck, error)

	// ListMonitoringTriggers lists scheduled triggers. The backend does not
	// implement this yet; implementations return an empty slice, not an error.
	ListMonitoringTriggers(ctx context.Context, retailerCode string) ([]model.Trigger, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
