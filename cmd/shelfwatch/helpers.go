package main

import (
	"fmt"

	"github.com/shelfwatch/shelfwatch/internal/cache"
	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/gateway"
	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/monitor"
	"github.com/shelfwatch/shelfwatch/internal/selection"
)

// app bundles the core collaborators for one command invocation. The
// selection store, cache, and aggregator are session singletons: created
// here at startup and discarded when the command exits.
type app struct {
	gateway    *gateway.Client
	cache      *cache.Store
	selection  *selection.Store
	aggregator *monitor.Aggregator
	config     config.Config
}

// newApp wires the core from configuration.
func newApp() (*app, error) {
	cfg := config.Load()

	gw, err := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}

	sel := selection.NewStore(cfg.Dashboard.DefaultRetailer)
	cs := cache.NewStore()
	agg := monitor.New(gw, cs, sel)
	agg.SetCachePolicy(cfg.Cache.StaleAfter, cfg.Cache.RefetchInterval)
	if cfg.Dashboard.WindowPreset != "" {
		agg.SetWindowPreset(model.WindowPreset(cfg.Dashboard.WindowPreset))
	}

	return &app{
		gateway:    gw,
		cache:      cs,
		selection:  sel,
		aggregator: agg,
		config:     cfg,
	}, nil
}
