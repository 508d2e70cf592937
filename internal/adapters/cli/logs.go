package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	var (
		scope string
		level string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show persisted tick logs",
		Long: `Show log entries the daemon persisted to the database (logging.persist).

Scope is the "<operation>.<mission>" namespace a line was logged under, or
the component name for daemon lines.

Examples:
  colony logs
  colony logs --scope alpha.upgrade --limit 50
  colony logs --level ERROR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var scopePtr, levelPtr *string
			if scope != "" {
				scopePtr = &scope
			}
			if level != "" {
				upper := strings.ToUpper(level)
				levelPtr = &upper
			}

			repo := persistence.NewGormTickLogRepository(db, nil)
			entries, err := repo.Recent(ctx, limit, scopePtr, levelPtr)
			if err != nil {
				return fmt.Errorf("failed to get logs: %w", err)
			}
			printLogEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Filter by scope")
	cmd.Flags().StringVar(&level, "level", "", "Filter by level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of entries")

	return cmd
}

// printLogEntries prints oldest first; Recent returns newest first
func printLogEntries(cmd *cobra.Command, entries []persistence.TickLogEntry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No logs found")
		return
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		line := fmt.Sprintf("[%s] tick=%d [%s] %s: %s",
			formatTimestamp(e.Timestamp), e.Tick, e.Scope, e.Level, e.Message)
		if len(e.Metadata) > 0 {
			keys := make([]string, 0, len(e.Metadata))
			for k := range e.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				line += fmt.Sprintf(" %s=%v", k, e.Metadata[k])
			}
		}
		fmt.Fprintln(out, line)
	}
}
