package model

import "time"

// IssueType identifies a class of monitoring issue.
type IssueType string

// IssueTypeHighInactiveRate is raised when too large a share of a retailer's
// monitored products is inactive.
const IssueTypeHighInactiveRate IssueType = "high_inactive_rate"

// Severity ranks how urgent an issue is.
type Severity string

const (
	// SeverityHigh marks issues needing immediate attention.
	SeverityHigh Severity = "high"
	// SeverityMedium marks issues worth watching.
	SeverityMedium Severity = "medium"
)

// Issue is a single problem detected for a monitored retailer or category.
type Issue struct {
	Type          IssueType `json:"type"`
	Severity      Severity  `json:"severity"`
	Message       string    `json:"message"`
	AffectedCount int       `json:"affected_count"`
}

// Trend classifies the recent direction of a health score.
type Trend string

const (
	// TrendImproving indicates the health score is rising.
	TrendImproving Trend = "improving"
	// TrendStable indicates no significant movement.
	TrendStable Trend = "stable"
	// TrendDeclining indicates the health score is falling.
	TrendDeclining Trend = "declining"
)

// CategoryHealth is the derived health view for one retailer's monitored
// categories. It is computed locally from CategoryStats, never fetched in
// this shape.
type CategoryHealth struct {
	RetailerCode  string  `json:"retailer_code"`
	HealthScore   float64 `json:"health_score"` // 0-100
	TotalCount    int     `json:"total_count"`
	ActiveCount   int     `json:"active_count"`
	InactiveCount int     `json:"inactive_count"`
	TotalProducts int     `json:"total_products"`
	Issues        []Issue `json:"issues"`
	Trend         Trend   `json:"trend"`
}

// CategoryStats is the raw per-retailer count bundle returned by the stats
// endpoint.
type CategoryStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Inactive      int `json:"inactive"`
	TotalProducts int `json:"total_products"`
}

// Change records one observed category change within a time window.
type Change struct {
	ID           string    `json:"id"`
	RetailerCode string    `json:"retailer_code"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	ChangeType   string    `json:"change_type"`
	Detail       string    `json:"detail"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// HealthDetail is the focused, per-retailer detail payload fetched lazily
// when a single retailer is inspected.
type HealthDetail struct {
	RetailerCode string           `json:"retailer_code"`
	Categories   []CategoryStatus `json:"categories"`
	CheckedAt    time.Time        `json:"checked_at"`
}

// CategoryStatus is one category's status inside a HealthDetail.
type CategoryStatus struct {
	CategoryID   string    `json:"category_id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	ProductCount int       `json:"product_count"`
	LastScanAt   time.Time `json:"last_scan_at"`
}

// Trigger is a manually scheduled monitoring run. The backend does not
// implement trigger listing yet; reads always yield an empty collection.
type Trigger struct {
	ID           string    `json:"id"`
	RetailerCode string    `json:"retailer_code"`
	CategoryID   string    `json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`
}
