// Package model defines the core domain types shared across the application.
package model

import "time"

// Retailer describes a tracked storefront. Retailers are owned by the remote
// scraping platform; the dashboard treats them as read-only.
type Retailer struct {
	Code           string         `json:"code"` // short stable identifier, e.g. "HP"
	Name           string         `json:"name"`
	BaseURL        string         `json:"base_url"`
	MarketPosition string         `json:"market_position"`
	Active         bool           `json:"active"`
	Scraping       ScrapingParams `json:"scraping"`
}

// ScrapingParams holds the per-retailer scraping tunables.
type ScrapingParams struct {
	RateLimitDelayMs int      `json:"rate_limit_delay_ms"`
	MaxConcurrency   int      `json:"max_concurrency"`
	FocusCategories  []string `json:"focus_categories"`
	PriceVolatility  string   `json:"price_volatility"`
}

// RetailerStats holds per-retailer product metrics refreshed by the backend.
type RetailerStats struct {
	RetailerCode     string            `json:"retailer_code"`
	ProductCount     int               `json:"product_count"`
	InStockCount     int               `json:"in_stock_count"`
	PricedCount      int               `json:"priced_count"`
	MinPrice         float64           `json:"min_price"`
	MaxPrice         float64           `json:"max_price"`
	AvgPrice         float64           `json:"avg_price"`
	Priority         PriorityBreakdown `json:"priority"`
	StockCoveragePct float64           `json:"stock_coverage_pct"`
	PriceCoveragePct float64           `json:"price_coverage_pct"`
	LastScrapedAt    time.Time         `json:"last_scraped_at"`
}

// PriorityBreakdown counts products per monitoring-priority tier.
type PriorityBreakdown struct {
	UltraCritical int `json:"ultra_critical"`
	HighValue     int `json:"high_value"`
	Standard      int `json:"standard"`
	LowPriority   int `json:"low_priority"`
}

// ActiveCodes returns the codes of active retailers in list order. Ordering
// matters: the selection store's multi-to-single transition picks the first
// element.
func ActiveCodes(retailers []Retailer) []string {
	codes := make([]string, 0, len(retailers))
	for _, r := range retailers {
		if r.Active {
			codes = append(codes, r.Code)
		}
	}
	return codes
}
