package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewMemoryCommand creates the memory command with subcommands
func NewMemoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect persisted mission memory",
		Long: `Inspect the mission memory stored by 'colony run --persist' and the daemon.

Each mission stores its memory under the namespace "<operation>.<mission>".

Examples:
  colony memory list
  colony memory list --prefix alpha
  colony memory show alpha.upgrade
  colony memory reset alpha.upgrade`,
	}

	cmd.AddCommand(newMemoryListCommand())
	cmd.AddCommand(newMemoryShowCommand())
	cmd.AddCommand(newMemoryResetCommand())

	return cmd
}

func newMemoryListCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored namespaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			repo := persistence.NewGormMissionMemoryRepository(db, nil)
			records, err := repo.List(ctx, prefix)
			if err != nil {
				return err
			}
			return printMemoryList(cmd, records)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only namespaces starting with this prefix")

	return cmd
}

func printMemoryList(cmd *cobra.Command, records []persistence.MissionMemoryRecord) error {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No mission memory found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAMESPACE\tOPERATION\tTICK\tSIZE\tUPDATED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.Namespace, r.Operation, r.UpdatedTick, len(r.Data), formatTimestamp(r.UpdatedAt))
	}
	return w.Flush()
}

func newMemoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <namespace>",
		Short: "Print the memory of one mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			repo := persistence.NewGormMissionMemoryRepository(db, nil)
			record, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no memory stored for %s", args[0])
			}
			return printMemoryRecord(cmd, record)
		},
	}
	return cmd
}

func printMemoryRecord(cmd *cobra.Command, record *persistence.MissionMemoryRecord) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Namespace:  %s\n", record.Namespace)
	fmt.Fprintf(out, "Operation:  %s\n", record.Operation)
	fmt.Fprintf(out, "Tick:       %d\n", record.UpdatedTick)
	fmt.Fprintf(out, "Updated:    %s\n\n", formatTimestamp(record.UpdatedAt))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, record.Data, "", "  "); err != nil {
		// not JSON; print as stored
		fmt.Fprintln(out, string(record.Data))
		return nil
	}
	fmt.Fprintln(out, pretty.String())
	return nil
}

func newMemoryResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <namespace>",
		Short: "Delete the memory of one mission",
		Long: `Delete a mission's stored memory. The mission recomputes every cached
value the next time it is loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			repo := persistence.NewGormMissionMemoryRepository(db, nil)
			if err := repo.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Memory for %s reset\n", args[0])
			return nil
		},
	}
	return cmd
}
