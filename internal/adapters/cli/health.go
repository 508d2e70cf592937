package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/colony-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := grpcadapter.NewDaemonClientGRPC(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if status != "SERVING" {
				fmt.Fprintf(out, "✗ Daemon is not serving (%s)\n", status)
				return fmt.Errorf("daemon status %s", status)
			}
			fmt.Fprintln(out, "✓ Daemon is healthy")
			fmt.Fprintf(out, "  Socket: %s\n", socketPath)
			return nil
		},
	}

	return cmd
}

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's scheduler status",
		Long: `Show the tick the daemon reached, the faults of its last tick and the
state of every operation it schedules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := grpcadapter.NewDaemonClientGRPC(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			status, err := client.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Started:      %s (%s ago)\n",
				formatTimestamp(status.StartedAt), formatDuration(time.Since(status.StartedAt)))
			fmt.Fprintf(out, "Last Tick:    %d\n", status.LastTick)
			fmt.Fprintf(out, "Ticks Run:    %d\n", status.TicksRun)
			fmt.Fprintf(out, "Faults:       %d total, %d last tick\n", status.Faults, status.LastFaults)
			fmt.Fprintf(out, "Inactive:     %d missions last tick\n\n", status.Deactivated)

			if len(status.Operations) == 0 {
				fmt.Fprintln(out, "No operations")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tROOM\tSTATUS\tMISSIONS")
			for _, op := range status.Operations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncate(op.Name, 30), op.Room, op.Status, strings.Join(op.Missions, ", "))
			}
			return w.Flush()
		},
	}

	return cmd
}
