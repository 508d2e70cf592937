package cli

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// openDatabase loads the config and opens a migrated connection
func openDatabase() (*gorm.DB, *config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, cfg, nil
}

// runPaths holds the resolved scenario and roster files
type runPaths struct {
	Scenario string
	Roster   string
}

// resolveRunPaths picks each file from the flag, then the user defaults,
// then the system config
func resolveRunPaths(scenarioFlag, rosterFlag string, user *config.UserConfig, cfg *config.Config) runPaths {
	paths := runPaths{Scenario: scenarioFlag, Roster: rosterFlag}
	if paths.Scenario == "" && user != nil {
		paths.Scenario = user.DefaultScenario
	}
	if paths.Roster == "" && user != nil {
		paths.Roster = user.DefaultRoster
	}
	if paths.Scenario == "" {
		paths.Scenario = cfg.Scheduler.ScenarioPath
	}
	if paths.Roster == "" {
		paths.Roster = cfg.Scheduler.RosterPath
	}
	return paths
}

// formatTimestamp renders a time for tables
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// truncate shortens s to max runes, marking the cut
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
