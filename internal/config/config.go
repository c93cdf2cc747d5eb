// Package config provides configuration loading for the application.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/shelfwatch/shelfwatch/internal/gateway"
	"github.com/shelfwatch/shelfwatch/internal/selection"
)

// Config is the resolved application configuration.
type Config struct {
	Gateway   GatewayConfig
	Dashboard DashboardConfig
	Cache     CacheConfig
}

// GatewayConfig configures the remote data gateway client.
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DashboardConfig configures dashboard behavior.
type DashboardConfig struct {
	DefaultRetailer string
	WindowPreset    string
}

// CacheConfig tunes the query cache.
type CacheConfig struct {
	StaleAfter      time.Duration
	RefetchInterval time.Duration
}

// Load resolves configuration from Viper (config file or SHELFWATCH_ env
// vars) with built-in defaults.
func Load() Config {
	cfg := Config{
		Gateway: GatewayConfig{
			BaseURL: gateway.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Dashboard: DashboardConfig{
			DefaultRetailer: selection.DefaultRetailerCode,
			WindowPreset:    "7d",
		},
		Cache: CacheConfig{
			StaleAfter: 30 * time.Second,
		},
	}

	if v := viper.GetString("gateway.base_url"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := viper.GetDuration("gateway.timeout"); v > 0 {
		cfg.Gateway.Timeout = v
	}
	if v := viper.GetString("dashboard.default_retailer"); v != "" {
		cfg.Dashboard.DefaultRetailer = v
	}
	if v := viper.GetString("dashboard.window"); v != "" {
		cfg.Dashboard.WindowPreset = v
	}
	if v := viper.GetDuration("cache.stale_after"); v > 0 {
		cfg.Cache.StaleAfter = v
	}
	if v := viper.GetDuration("cache.refetch_interval"); v > 0 {
		cfg.Cache.RefetchInterval = v
	}

	return cfg
}
