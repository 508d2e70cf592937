package config

// MissionsConfig holds the tuning constants shared by every mission
type MissionsConfig struct {
	PotencyRefreshInterval           int     `mapstructure:"potency_refresh_interval" validate:"min=1"`
	TransportInvalidationProbability float64 `mapstructure:"transport_invalidation_probability" validate:"probability"`
	PositionInvalidationProbability  float64 `mapstructure:"position_invalidation_probability" validate:"probability"`
	DistanceInvalidationProbability  float64 `mapstructure:"distance_invalidation_probability" validate:"probability"`
	CartRetirementMargin             int     `mapstructure:"cart_retirement_margin" validate:"min=0"`
	LoadOverhead                     int     `mapstructure:"load_overhead" validate:"min=0"`
	NeedEnergyThreshold              int     `mapstructure:"need_energy_threshold" validate:"min=0"`
	SupplyEnergyThreshold            int     `mapstructure:"supply_energy_threshold" validate:"min=0"`
	StorageEnergyPerPotency          int     `mapstructure:"storage_energy_per_potency" validate:"min=1"`
	LinkCapacity                     int     `mapstructure:"link_capacity" validate:"min=1"`
	MaxUpgraders                     int     `mapstructure:"max_upgraders" validate:"min=1"`
	SupplyDistance                   int     `mapstructure:"supply_distance" validate:"min=1"`
	PaveInterval                     int     `mapstructure:"pave_interval" validate:"min=1"`
	LocalSourceThreshold             int     `mapstructure:"local_source_threshold" validate:"min=0"`
}
