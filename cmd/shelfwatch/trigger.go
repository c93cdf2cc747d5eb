package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/cli"
)

func triggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger [retailer]",
		Short: "Trigger an out-of-schedule monitoring run",
		Long: `Trigger a monitoring run for one retailer, or for all retailers when no
code is given. The command returns as soon as the run is queued; it does not
wait for the run to finish.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTrigger,
	}
}

func runTrigger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	scope := ""
	if len(args) > 0 {
		scope = args[0]
	}

	ack, err := a.aggregator.TriggerMonitoring(ctx, scope)
	if err != nil {
		return err
	}

	target := "all retailers"
	if scope != "" {
		target = scope
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("monitoring run queued for %s (job %s)", target, ack.JobID)))
	return nil
}
