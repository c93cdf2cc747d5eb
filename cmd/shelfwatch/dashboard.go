package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the live monitoring dashboard",
		Long: `Open the interactive terminal dashboard. The dashboard polls the platform
in the background and re-renders whenever the selection, the time window, or
the cached data changes.`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.aggregator.SyncRetailers(ctx); err != nil {
		return fmt.Errorf("failed to load retailer list: %w", err)
	}

	return tui.Run(ctx, tui.Config{
		Aggregator: a.aggregator,
		Selection:  a.selection,
	})
}
