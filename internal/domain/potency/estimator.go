package potency

import (
	"math"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// Config holds the tuning constants of the estimator
type Config struct {
	// RefreshInterval recomputes the cached value every Nth tick
	RefreshInterval int

	// NeedEnergyThreshold is the storage reserve that unlocks full potency at max tier
	NeedEnergyThreshold int

	// EnergyPerPotency is the storage energy that backs one unit of potency
	EnergyPerPotency int

	// LinkCapacity is the energy one link moves per transfer
	LinkCapacity int

	// LinkEfficiency is the fraction of LinkCapacity that arrives after transfer loss
	LinkEfficiency float64

	// MaxTierPotency is the potency at max tier with a large reserve
	MaxTierPotency int

	// TricklePotency is the potency at max tier without a large reserve
	TricklePotency int

	// SourceYield is the potency each source contributes when no storage exists
	SourceYield int
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		RefreshInterval:     10,
		NeedEnergyThreshold: 200000,
		EnergyPerPotency:    1500,
		LinkCapacity:        world.LinkCapacity,
		LinkEfficiency:      0.97,
		MaxTierPotency:      15,
		TricklePotency:      1,
		SourceYield:         10,
	}
}

// Input is the world state the estimator reads
type Input struct {
	// Battery is the feeder structure, nil if none exists
	Battery *world.Structure

	// Storage is the room's storage, nil if none exists
	Storage *world.Structure

	// HostilesPresent dominates every other input
	HostilesPresent bool

	// ControllerAtMaxLevel switches to the max tier constants
	ControllerAtMaxLevel bool

	// LinksNearStorage counts links within 2 tiles of storage
	LinksNearStorage int

	// SourceCount is the number of primary resource nodes in the room
	SourceCount int
}

// Estimator computes the sustainable upgrade rate of a controller
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator, filling zero config fields with defaults
func NewEstimator(cfg Config) *Estimator {
	defaults := DefaultConfig()
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaults.RefreshInterval
	}
	if cfg.EnergyPerPotency <= 0 {
		cfg.EnergyPerPotency = defaults.EnergyPerPotency
	}
	if cfg.LinkCapacity <= 0 {
		cfg.LinkCapacity = defaults.LinkCapacity
	}
	if cfg.LinkEfficiency <= 0 {
		cfg.LinkEfficiency = defaults.LinkEfficiency
	}
	if cfg.NeedEnergyThreshold <= 0 {
		cfg.NeedEnergyThreshold = defaults.NeedEnergyThreshold
	}
	if cfg.MaxTierPotency <= 0 {
		cfg.MaxTierPotency = defaults.MaxTierPotency
	}
	if cfg.TricklePotency <= 0 {
		cfg.TricklePotency = defaults.TricklePotency
	}
	if cfg.SourceYield <= 0 {
		cfg.SourceYield = defaults.SourceYield
	}
	return &Estimator{cfg: cfg}
}

// Estimate returns the potency for the tick. The value in *cache is reused
// verbatim unless it is nil or tick falls on the refresh interval, in which case
// it is recomputed and written back. No battery or hostiles always yields 0.
//
// An UnrecognizedBatteryError is returned alongside a potency of 0 when the
// battery type cannot be rated, including a link with no storage to feed it.
func (e *Estimator) Estimate(in Input, cache **int, tick uint64) (int, error) {
	if in.Battery == nil || in.HostilesPresent {
		return 0, nil
	}

	if *cache != nil && tick%uint64(e.cfg.RefreshInterval) != 0 {
		return **cache, nil
	}

	value, err := e.compute(in)
	if err != nil {
		return 0, err
	}
	*cache = &value
	return value, nil
}

func (e *Estimator) compute(in Input) (int, error) {
	if in.ControllerAtMaxLevel {
		if in.Storage != nil && in.Storage.Energy > e.cfg.NeedEnergyThreshold {
			return e.cfg.MaxTierPotency, nil
		}
		return e.cfg.TricklePotency, nil
	}

	storageCapacity := 0
	if in.Storage != nil {
		storageCapacity = in.Storage.Energy / e.cfg.EnergyPerPotency
	}

	switch in.Battery.Type {
	case world.StructureLink:
		if in.Storage == nil {
			return 0, shared.NewUnrecognizedBatteryError("", string(in.Battery.Type))
		}
		return minInt(e.LinkThroughput(in.Battery.Pos.RangeTo(in.Storage.Pos), in.LinksNearStorage), storageCapacity), nil
	case world.StructureContainer:
		if in.Storage != nil {
			return storageCapacity, nil
		}
		return in.SourceCount * e.cfg.SourceYield, nil
	case world.StructureStorage:
		return storageCapacity, nil
	default:
		return 0, shared.NewUnrecognizedBatteryError("", string(in.Battery.Type))
	}
}

// LinkThroughput is floor(linkCapacity * efficiency * linkCount / cooldown)
// where cooldown is the link distance plus three ticks.
func (e *Estimator) LinkThroughput(rangeToStorage, linkCount int) int {
	cooldown := rangeToStorage + 3
	return int(math.Floor(float64(e.cfg.LinkCapacity) * e.cfg.LinkEfficiency * float64(linkCount) / float64(cooldown)))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
