package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colony",
		Short: "Colony CLI - run and inspect the mission scheduler",
		Long: `Colony CLI runs operations against a simulated world, inspects stored
mission memory and tick logs, and talks to a running colony daemon over its
Unix socket.

Examples:
  colony run --ticks 500 --seed 42
  colony run --scenario configs/scenario.yaml --roster configs/operations.yaml --telemetry-dir out
  colony analyze transport --distance 40 --throughput 15
  colony memory list --prefix alpha
  colony logs --level ERROR --limit 20
  colony status`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: ./config.yaml, ./configs/config.yaml, /etc/colony/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewMemoryCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("COLONY_SOCKET"); path != "" {
		return path
	}
	return "/tmp/colony-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
