package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/cli"
	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/selection"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the monitoring overview for the selected retailers",
		Long: `Show aggregate monitoring health.

By default all active retailers are included (multi mode). Pass --retailer
to scope the overview to a single retailer.

Sections fetched from the platform fail independently: a failed resource is
reported as a warning while every other section still renders.`,
		RunE: runStatus,
	}

	cmd.Flags().String("retailer", "", "scope to a single retailer code")
	cmd.Flags().String("window", "", "time window preset (24h, 7d, 30d)")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	if window, _ := cmd.Flags().GetString("window"); window != "" {
		a.aggregator.SetWindowPreset(model.WindowPreset(window))
	}

	if err := a.aggregator.SyncRetailers(ctx); err != nil {
		return err
	}

	if retailer, _ := cmd.Flags().GetString("retailer"); retailer != "" {
		a.selection.SetSingle(retailer)
		if a.selection.Snapshot().Single != retailer {
			return fmt.Errorf("unknown retailer code %q", retailer)
		}
	} else {
		a.selection.SetMode(true)
	}

	overview := a.aggregator.Snapshot(ctx)

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Monitoring overview (%dd window)", overview.Window.Days())))

	if len(overview.Health) > 0 {
		for _, h := range overview.Health {
			line := fmt.Sprintf("%-6s health %5.1f  %d/%d active, %d products",
				h.RetailerCode, h.HealthScore, h.ActiveCount, h.TotalCount, h.TotalProducts)
			switch {
			case h.HealthScore < 50:
				fmt.Println(cli.ErrorStyle.Render(line))
			case h.HealthScore < 80:
				fmt.Println(cli.WarningStyle.Render(line))
			default:
				fmt.Println(line)
			}
			for _, issue := range h.Issues {
				fmt.Println("       " + cli.FormatWarning(fmt.Sprintf("%s (%s): %s", issue.Type, issue.Severity, issue.Message)))
			}
		}

		s := overview.Summary
		fmt.Println()
		fmt.Printf("categories: %d (%d with issues)  avg health: %.1f  products: %d  high severity issues: %d\n",
			s.TotalCategories, s.CategoriesWithIssues, s.AverageHealthScore, s.TotalProducts, s.HighSeverityIssueCount)
	}

	fmt.Printf("recent changes: %d\n", len(overview.Changes))

	// Focused detail only makes sense for a single retailer.
	if overview.Selection.Mode == selection.ModeSingle && overview.Selection.Single != "" {
		if detail, detailErr := a.aggregator.FocusDetail(ctx, overview.Selection.Single); detailErr == nil {
			fmt.Printf("monitored categories for %s: %d\n", detail.RetailerCode, len(detail.Categories))
		}
	}

	for resource, resErr := range overview.Errors {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s unavailable: %v", resource, resErr)))
	}

	return nil
}
