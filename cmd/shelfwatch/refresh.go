package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/cli"
)

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate all cached data and re-fetch it",
		Long: `Drop every cached resource and fetch it again from the platform. This is
the manual "retry all" action: each resource is re-fetched regardless of
whether its last fetch succeeded or failed.`,
		RunE: runRefresh,
	}
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	a.aggregator.RetryAll()

	steps := []struct {
		name string
		run  func() error
	}{
		{"retailers", func() error { return a.aggregator.SyncRetailers(ctx) }},
		{"monitoring data", func() error {
			overview := a.aggregator.Snapshot(ctx)
			for resource, resErr := range overview.Errors {
				fmt.Println()
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", resource, resErr)))
			}
			return nil
		}},
		{"triggers", func() error {
			_, listErr := a.aggregator.Triggers(ctx, "")
			return listErr
		}},
	}

	bar := progressbar.NewOptions(len(steps),
		progressbar.OptionSetDescription("refreshing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for _, step := range steps {
		if stepErr := step.run(); stepErr != nil {
			fmt.Println()
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", step.name, stepErr)))
		}
		_ = bar.Add(1)
	}

	fmt.Println(cli.FormatSuccess("caches refreshed"))
	return nil
}
