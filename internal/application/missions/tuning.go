package missions

// Tuning holds the empirically tuned constants shared by every mission
type Tuning struct {
	PotencyRefreshInterval           int
	TransportInvalidationProbability float64
	PositionInvalidationProbability  float64
	DistanceInvalidationProbability  float64
	CartRetirementMargin             int
	LoadOverhead                     int
	NeedEnergyThreshold              int
	SupplyEnergyThreshold            int
	StorageEnergyPerPotency          int
	LinkCapacity                     int
	MaxUpgraders                     int
	SupplyDistance                   int
	PaveInterval                     int
	LocalSourceThreshold             int
}

// DefaultTuning returns the values the missions were tuned with
func DefaultTuning() Tuning {
	return Tuning{
		PotencyRefreshInterval:           10,
		TransportInvalidationProbability: 0.1,
		PositionInvalidationProbability:  0.01,
		DistanceInvalidationProbability:  0.1,
		CartRetirementMargin:             50,
		LoadOverhead:                     0,
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
