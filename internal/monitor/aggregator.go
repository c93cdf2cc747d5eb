// Package monitor aggregates monitoring data for the currently selected
// retailers. It folds heterogeneous gateway resources, each fetched through
// the query cache with its own staleness and retry policy, into a single
// overview the dashboard renders from. Failures are scoped per resource so
// one failed fetch never blocks independently successful ones.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/cache"
	"github.com/shelfwatch/shelfwatch/internal/common"
	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/selection"
	"github.com/shelfwatch/shelfwatch/internal/service"
)

// Resource names double as cache key prefixes.
const (
	ResourceRetailers = "retailers"
	ResourceSummary   = "retailerStats"
	ResourceStats     = "categoryStats"
	ResourceChanges   = "categoryChanges"
	ResourceHealth    = "categoryHealth"
	ResourceTriggers  = "monitoringTriggers"
)

// Inactive-rate thresholds for issue generation. Fixed policy for now; a
// candidate extension point if retailers ever need per-tier thresholds.
const (
	issueThreshold        = 0.8
	highSeverityThreshold = 0.5
)

// Summary is the aggregate roll-up across the selected retailers.
type Summary struct {
	TotalCategories        int
	CategoriesWithIssues   int
	AverageHealthScore     float64
	TotalProducts          int
	HighSeverityIssueCount int
}

// Overview is one settled aggregation pass. Errors are keyed by resource
// name; a resource absent from the map fetched successfully.
type Overview struct {
	Selection selection.State
	Window    model.TimeWindow
	Health    []model.CategoryHealth
	Changes   []model.Change
	Summary   Summary
	Errors    map[string]error
}

// Failed reports whether any dependent resource failed.
func (o Overview) Failed() bool {
	return len(o.Errors) > 0
}

// Aggregator folds selection state and cached gateway data into overviews.
type Aggregator struct {
	gateway   service.Gateway
	cache     *cache.Store
	selection *selection.Store
	logger    *slog.Logger

	mu       sync.Mutex
	preset   model.WindowPreset
	window   model.TimeWindow
	readOpts cache.Options

	now func() time.Time
}

// New creates an aggregator over the given collaborators, starting with the
// seven day window preset.
func New(gw service.Gateway, cs *cache.Store, sel *selection.Store) *Aggregator {
	a := &Aggregator{
		gateway:   gw,
		cache:     cs,
		selection: sel,
		logger:    slog.Default().With("component", "monitor"),
		preset:    model.WindowWeek,
		readOpts:  cache.ReadOptions(),
		now:       time.Now,
	}
	a.window = model.WindowFromPreset(a.preset, a.now())
	return a
}

// SetCachePolicy tunes staleness and passive polling for the aggregator's
// read queries. Zero values keep the defaults.
func (a *Aggregator) SetCachePolicy(staleAfter, refetchInterval time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if staleAfter > 0 {
		a.readOpts.StaleAfter = staleAfter
	}
	if refetchInterval > 0 {
		a.readOpts.RefetchInterval = refetchInterval
	}
}

func (a *Aggregator) readOptions() cache.Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readOpts
}

// SetWindowPreset applies a preset, re-anchoring its start to now even when
// the preset is unchanged.
func (a *Aggregator) SetWindowPreset(preset model.WindowPreset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.preset = preset
	a.window = model.WindowFromPreset(preset, a.now())
}

// Window returns the currently applied time window.
func (a *Aggregator) Window() model.TimeWindow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window
}

// SyncRetailers refreshes the retailer list and summary stats through the
// cache and feeds them into the selection store. The retailer list error is
// returned; a summary failure only logs, stats are decorative.
func (a *Aggregator) SyncRetailers(ctx context.Context) error {
	retailers, err := cache.Get(ctx, a.cache, cache.Key(ResourceRetailers), a.gateway.ListRetailers, a.readOptions())
	if err != nil {
		return fmt.Errorf("failed to refresh retailers: %w", err)
	}
	a.selection.SyncRetailers(retailers)

	stats, err := cache.Get(ctx, a.cache, cache.Key(ResourceSummary), a.gateway.GetRetailerSummary, a.readOptions())
	if err != nil {
		a.logger.Warn("Retailer summary refresh failed", "error", err)
		return nil
	}
	a.selection.SyncStats(stats)
	return nil
}

// Snapshot produces one aggregation pass for the current selection and
// window. Resources are fetched concurrently; each failure lands in
// Overview.Errors under its resource name while the rest of the overview
// still reflects every successful fetch.
func (a *Aggregator) Snapshot(ctx context.Context) Overview {
	out := Overview{
		Window: a.Window(),
		Errors: make(map[string]error),
	}

	if err := a.SyncRetailers(ctx); err != nil {
		out.Errors[ResourceRetailers] = err
	}
	sel := a.selection.Snapshot()
	out.Selection = sel

	scope := ""
	if sel.Mode == selection.ModeSingle {
		scope = sel.Single
	}
	days := out.Window.Days()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		stats   map[string]model.CategoryStats
		changes []model.Change
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		got, err := cache.Get(ctx, a.cache, cache.Key(ResourceStats, scope), func(ctx context.Context) (map[string]model.CategoryStats, error) {
			return a.gateway.GetCategoryStats(ctx, service.StatsFilter{RetailerCode: scope})
		}, a.readOptions())
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			out.Errors[ResourceStats] = err
			return
		}
		stats = got
	}()
	go func() {
		defer wg.Done()
		got, err := cache.Get(ctx, a.cache, cache.Key(ResourceChanges, strconv.Itoa(days), scope), func(ctx context.Context) ([]model.Change, error) {
			return a.gateway.GetCategoryChanges(ctx, service.ChangesFilter{Days: days, RetailerCode: scope})
		}, a.readOptions())
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			out.Errors[ResourceChanges] = err
			return
		}
		changes = got
	}()
	wg.Wait()

	selected := sel.Selected()
	if stats != nil {
		out.Health = deriveHealthList(selected, stats)
		out.Summary = summarize(out.Health)
	}
	out.Changes = filterChanges(changes, out.Window, selected)

	return out
}

// FocusDetail lazily fetches the per-retailer health detail. It is only
// called for a focused retailer, never eagerly for the whole list.
func (a *Aggregator) FocusDetail(ctx context.Context, retailerCode string) (*model.HealthDetail, error) {
	if retailerCode == "" {
		return nil, fmt.Errorf("%w: no retailer focused", common.ErrUnknownRetailer)
	}
	return cache.Get(ctx, a.cache, cache.Key(ResourceHealth, retailerCode), func(ctx context.Context) (*model.HealthDetail, error) {
		return a.gateway.GetCategoryHealth(ctx, retailerCode)
	}, a.readOptions())
}

// Triggers lists scheduled monitoring triggers. The backend gap makes this
// an empty list today; callers render it like any other collection.
func (a *Aggregator) Triggers(ctx context.Context, retailerCode string) ([]model.Trigger, error) {
	return cache.Get(ctx, a.cache, cache.Key(ResourceTriggers, retailerCode), func(ctx context.Context) ([]model.Trigger, error) {
		return a.gateway.ListMonitoringTriggers(ctx, retailerCode)
	}, a.readOptions())
}

// TriggerMonitoring requests an out-of-schedule monitoring run and, once the
// trigger is acknowledged, invalidates the dependent caches so the next read
// reflects the run. It does not wait for the run itself.
func (a *Aggregator) TriggerMonitoring(ctx context.Context, retailerCode string) (*service.TriggerAck, error) {
	var ack *service.TriggerAck
	err := common.WithRetry(ctx, func() error {
		var opErr error
		ack, opErr = a.gateway.TriggerCategoryMonitor(ctx, retailerCode)
		return opErr
	}, service.RetryOptions{
		MaxAttempts:  cache.DefaultWriteRetry,
		InitialDelay: cache.DefaultInitialDelay,
		MaxDelay:     cache.DefaultMaxDelay,
		Multiplier:   2.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to trigger monitoring: %w", err)
	}

	a.cache.Invalidate(ResourceHealth)
	a.cache.Invalidate(ResourceChanges)
	a.cache.Invalidate(ResourceStats)

	a.logger.Info("Monitoring triggered", "retailer", retailerCode, "job_id", ack.JobID)
	return ack, nil
}

// RetryAll invalidates every dependent cache entry regardless of individual
// success or failure, forcing the next snapshot to re-fetch everything.
func (a *Aggregator) RetryAll() {
	for _, resource := range []string{
		ResourceRetailers,
		ResourceSummary,
		ResourceStats,
		ResourceChanges,
		ResourceHealth,
		ResourceTriggers,
	} {
		a.cache.Invalidate(resource)
	}
}
