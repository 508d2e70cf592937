package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage colony configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (COLONY_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default scenario and roster) are stored in ~/.colony/config.json

Examples:
  colony config show
  colony config set-defaults --scenario configs/scenario.yaml --roster configs/operations.yaml
  colony config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetDefaultsCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Colony Configuration")
			fmt.Fprintln(out, "====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Default Scenario: %s\n", orNotSet(userCfg.DefaultScenario))
			fmt.Fprintf(out, "  Default Roster:   %s\n", orNotSet(userCfg.DefaultRoster))

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nScheduler:")
			fmt.Fprintf(out, "  Scenario:         %s\n", cfg.Scheduler.ScenarioPath)
			fmt.Fprintf(out, "  Roster:           %s\n", cfg.Scheduler.RosterPath)
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Scheduler.TickInterval)
			fmt.Fprintf(out, "  Max Ticks:        %d\n", cfg.Scheduler.MaxTicks)
			fmt.Fprintf(out, "  Memory Flush:     every %d ticks\n", cfg.Scheduler.MemoryFlushInterval)

			fmt.Fprintln(out, "\nMissions:")
			fmt.Fprintf(out, "  Potency Refresh:  every %d ticks\n", cfg.Missions.PotencyRefreshInterval)
			fmt.Fprintf(out, "  Transport Reset:  p=%.3f\n", cfg.Missions.TransportInvalidationProbability)
			fmt.Fprintf(out, "  Position Reset:   p=%.3f\n", cfg.Missions.PositionInvalidationProbability)
			fmt.Fprintf(out, "  Distance Reset:   p=%.3f\n", cfg.Missions.DistanceInvalidationProbability)
			fmt.Fprintf(out, "  Max Upgraders:    %d\n", cfg.Missions.MaxUpgraders)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         %s\n", cfg.Metrics.Endpoint())

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
			fmt.Fprintf(out, "  Persist:          %t\n", cfg.Logging.Persist)

			return nil
		},
	}

	return cmd
}

// newConfigSetDefaultsCommand creates the config set-defaults subcommand
func newConfigSetDefaultsCommand() *cobra.Command {
	var scenario, roster string

	cmd := &cobra.Command{
		Use:   "set-defaults",
		Short: "Set the default scenario and roster",
		Long: `Set the scenario and roster 'colony run' uses when its flags are omitted.

Examples:
  colony config set-defaults --scenario configs/scenario.yaml
  colony config set-defaults --roster configs/operations.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenario == "" && roster == "" {
				return fmt.Errorf("either --scenario or --roster flag is required")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaults(scenario, roster); err != nil {
				return fmt.Errorf("failed to set defaults: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Defaults set successfully")
			fmt.Fprintf(out, "  Scenario: %s\n", orNotSet(userCfg.DefaultScenario))
			fmt.Fprintf(out, "  Roster:   %s\n", orNotSet(userCfg.DefaultRoster))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Default scenario YAML file")
	cmd.Flags().StringVar(&roster, "roster", "", "Default roster YAML file")

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
