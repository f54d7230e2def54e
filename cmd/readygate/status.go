package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/client"
	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:               "status",
	Short:             "Show the state of a served gate",
	GroupID:           "gate",
	PersistentPreRunE: connect,
	PersistentPostRun: disconnect,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		out := cmd.OutOrStdout()

		show := func(st *model.GateStatus) error {
			if jsonOutput {
				return printJSON(out, st)
			}
			printGateStatus(out, st)
			return nil
		}

		if !watch {
			st, err := gateClient.Gate(context.Background())
			if err != nil {
				return fmt.Errorf("getting gate status: %w", err)
			}
			return show(st)
		}

		hc, ok := gateClient.(*client.HTTPClient)
		if !ok {
			return fmt.Errorf("--watch requires --transport=http")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return hc.Watch(ctx, func(st model.GateStatus) error {
			return show(&st)
		})
	},
}

var healthCmd = &cobra.Command{
	Use:               "health",
	Short:             "Check the health of a readygate server",
	GroupID:           "system",
	PersistentPreRunE: connect,
	PersistentPostRun: disconnect,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := gateClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), map[string]string{"status": status}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("watch", false, "stream transitions until interrupted")
}
