package gateway

import (
	"context"
	"sync"

	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/service"
)

// Mock is a mock implementation of service.Gateway for testing. Call
// tracking is mutex-guarded and read through accessor methods so tests may
// poll while background refetches are still recording calls.
type Mock struct {
	// Functions that can be set by tests to control behavior
	ListRetailersFn          func(ctx context.Context) ([]model.Retailer, error)
	GetRetailerSummaryFn     func(ctx context.Context) ([]model.RetailerStats, error)
	GetCategoryStatsFn       func(ctx context.Context, filter service.StatsFilter) (map[string]model.CategoryStats, error)
	GetCategoryChangesFn     func(ctx context.Context, filter service.ChangesFilter) ([]model.Change, error)
	GetCategoryHealthFn      func(ctx context.Context, retailerCode string) (*model.HealthDetail, error)
	TriggerCategoryMonitorFn func(ctx context.Context, retailerCode string) (*service.TriggerAck, error)

	mu sync.Mutex

	listRetailersCalls      int
	getRetailerSummaryCalls int
	getCategoryStatsCalls   []service.StatsFilter
	getCategoryChangesCalls []service.ChangesFilter
	getCategoryHealthCalls  []string
	triggerCalls            []string
	listTriggersCalls       int
}

var _ service.Gateway = (*Mock)(nil)

// NewMock creates a new mock gateway.
func NewMock() *Mock {
	return &Mock{}
}

// ListRetailersCalls reports how many times ListRetailers was invoked.
func (m *Mock) ListRetailersCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRetailersCalls
}

// SummaryCalls reports how many times GetRetailerSummary was invoked.
func (m *Mock) SummaryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getRetailerSummaryCalls
}

// StatsCalls returns a copy of the filters passed to GetCategoryStats.
func (m *Mock) StatsCalls() []service.StatsFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.StatsFilter, len(m.getCategoryStatsCalls))
	copy(out, m.getCategoryStatsCalls)
	return out
}

// ChangesCalls returns a copy of the filters passed to GetCategoryChanges.
func (m *Mock) ChangesCalls() []service.ChangesFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.ChangesFilter, len(m.getCategoryChangesCalls))
	copy(out, m.getCategoryChangesCalls)
	return out
}

// HealthCalls returns a copy of the retailer codes passed to GetCategoryHealth.
func (m *Mock) HealthCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.getCategoryHealthCalls))
	copy(out, m.getCategoryHealthCalls)
	return out
}

// TriggerCalls returns a copy of the retailer codes passed to
// TriggerCategoryMonitor.
func (m *Mock) TriggerCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.triggerCalls))
	copy(out, m.triggerCalls)
	return out
}

// ListTriggersCalls reports how many times ListMonitoringTriggers was invoked.
func (m *Mock) ListTriggersCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTriggersCalls
}

// ListRetailers implements service.Gateway.
func (m *Mock) ListRetailers(ctx context.Context) ([]model.Retailer, error) {
	m.mu.Lock()
	m.listRetailersCalls++
	m.mu.Unlock()

	if m.ListRetailersFn != nil {
		return m.ListRetailersFn(ctx)
	}
	return []model.Retailer{}, nil
}

// GetRetailerSummary implements service.Gateway.
func (m *Mock) GetRetailerSummary(ctx context.Context) ([]model.RetailerStats, error) {
	m.mu.Lock()
	m.getRetailerSummaryCalls++
	m.mu.Unlock()

	if m.GetRetailerSummaryFn != nil {
		return m.GetRetailerSummaryFn(ctx)
	}
	return []model.RetailerStats{}, nil
}

// GetCategoryStats implements service.Gateway.
func (m *Mock) GetCategoryStats(ctx context.Context, filter service.StatsFilter) (map[string]model.CategoryStats, error) {
	m.mu.Lock()
	m.getCategoryStatsCalls = append(m.getCategoryStatsCalls, filter)
	m.mu.Unlock()

	if m.GetCategoryStatsFn != nil {
		return m.GetCategoryStatsFn(ctx, filter)
	}
	return map[string]model.CategoryStats{}, nil
}

// GetCategoryChanges implements service.Gateway.
func (m *Mock) GetCategoryChanges(ctx context.Context, filter service.ChangesFilter) ([]model.Change, error) {
	m.mu.Lock()
	m.getCategoryChangesCalls = append(m.getCategoryChangesCalls, filter)
	m.mu.Unlock()

	if m.GetCategoryChangesFn != nil {
		return m.GetCategoryChangesFn(ctx, filter)
	}
	return []model.Change{}, nil
}

// GetCategoryHealth implements service.Gateway.
func (m *Mock) GetCategoryHealth(ctx context.Context, retailerCode string) (*model.HealthDetail, error) {
	m.mu.Lock()
	m.getCategoryHealthCalls = append(m.getCategoryHealthCalls, retailerCode)
	m.mu.Unlock()

	if m.GetCategoryHealthFn != nil {
		return m.GetCategoryHealthFn(ctx, retailerCode)
	}
	return &model.HealthDetail{RetailerCode: retailerCode}, nil
}

// TriggerCategoryMonitor implements service.Gateway.
func (m *Mock) TriggerCategoryMonitor(ctx context.Context, retailerCode string) (*service.TriggerAck, error) {
	m.mu.Lock()
	m.triggerCalls = append(m.triggerCalls, retailerCode)
	m.mu.Unlock()

	if m.TriggerCategoryMonitorFn != nil {
		return m.TriggerCategoryMonitorFn(ctx, retailerCode)
	}
	return &service.TriggerAck{JobID: "job-1"}, nil
}

// ListMonitoringTriggers implements service.Gateway.
func (m *Mock) ListMonitoringTriggers(_ context.Context, _ string) ([]model.Trigger, error) {
	m.mu.Lock()
	m.listTriggersCalls++
	m.mu.Unlock()

	return []model.Trigger{}, nil
}
