package config

import "time"

// SchedulerConfig controls the tick loop
type SchedulerConfig struct {
	// Wall time between ticks; 0 runs ticks back to back
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"min=0"`

	// Stop after this many ticks; 0 runs until stopped
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`

	// Seed of the random source used for cache invalidation; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`

	// YAML operations roster
	RosterPath string `mapstructure:"roster_path" validate:"required"`

	// YAML scenario of the simulated world
	ScenarioPath string `mapstructure:"scenario_path" validate:"required"`

	// Mission memory is written to the database every this many ticks
	MemoryFlushInterval int `mapstructure:"memory_flush_interval" validate:"min=1"`

	// Directory for CSV telemetry; empty disables it
	TelemetryDir string `mapstructure:"telemetry_dir"`
}
