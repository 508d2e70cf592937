package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "colony.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "colony"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "colony"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9101
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/colony-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/colony-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Scheduler defaults
	if cfg.Scheduler.RosterPath == "" {
		cfg.Scheduler.RosterPath = "configs/operations.yaml"
	}
	if cfg.Scheduler.ScenarioPath == "" {
		cfg.Scheduler.ScenarioPath = "configs/scenario.yaml"
	}
	if cfg.Scheduler.MemoryFlushInterval == 0 {
		cfg.Scheduler.MemoryFlushInterval = 20
	}

	setMissionDefaults(&cfg.Missions)
}

// missionDefaults are registered with viper so a partial missions section
// keeps the remaining values, zero probabilities included
var missionDefaults = map[string]interface{}{
	"potency_refresh_interval":           10,
	"transport_invalidation_probability": 0.1,
	"position_invalidation_probability":  0.01,
	"distance_invalidation_probability":  0.1,
	"cart_retirement_margin":             50,
	"load_overhead":                      0,
	"need_energy_threshold":              200000,
	"supply_energy_threshold":            250000,
	"storage_energy_per_potency":         1500,
	"link_capacity":                      800,
	"max_upgraders":                      5,
	"supply_distance":                    25,
	"pave_interval":                      100,
	"local_source_threshold":             100000,
}

// setMissionDefaults fills an empty missions section, for configs built
// without viper
func setMissionDefaults(m *MissionsConfig) {
	if *m != (MissionsConfig{}) {
		return
	}
	*m = MissionsConfig{
		PotencyRefreshInterval:           10,
		TransportInvalidationProbability: 0.1,
		PositionInvalidationProbability:  0.01,
		DistanceInvalidationProbability:  0.1,
		CartRetirementMargin:             50,
		NeedEnergyThreshold:              200000,
		SupplyEnergyThreshold:            250000,
		StorageEnergyPerPotency:          1500,
		LinkCapacity:                     800,
		MaxUpgraders:                     5,
		SupplyDistance:                   25,
		PaveInterval:                     100,
		LocalSourceThreshold:             100000,
	}
}
