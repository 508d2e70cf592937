package bootstrap

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/application/missions"
	"github.com/andrescamacho/colony-go/internal/application/roster"
	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

// Options describe the colony to assemble
type Options struct {
	ScenarioPath string
	RosterPath   string

	// Seed of the invalidation random source; 0 seeds from the clock
	Seed int64

	Tuning missions.Tuning

	// Memory backend; nil keeps mission memory in process only
	MemoryRepo persistence.MissionMemoryRepository

	// Recorder receives scheduler measurements; may be nil
	Recorder scheduler.Recorder

	// InstrumentSpawns wraps spawn groups so submissions reach the metrics recorder
	InstrumentSpawns bool
}

// Colony is a fully wired simulated colony
type Colony struct {
	World      *sim.World
	Scheduler  *scheduler.TickScheduler
	Store      *persistence.CachedMemoryStore
	Operations []*mission.Operation
	Seed       int64
}

// Build loads the scenario and roster and wires every collaborator
func Build(opts Options) (*Colony, error) {
	sc, err := sim.LoadScenario(opts.ScenarioPath)
	if err != nil {
		return nil, err
	}
	r, err := roster.Load(opts.RosterPath)
	if err != nil {
		return nil, err
	}
	return BuildFrom(sc, r, opts)
}

// BuildFrom wires an already loaded scenario and roster
func BuildFrom(sc *sim.Scenario, r *roster.Roster, opts Options) (*Colony, error) {
	w, err := sim.NewWorld(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to build world: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := persistence.NewCachedMemoryStore(opts.MemoryRepo)
	deps := missions.Dependencies{World: w, Store: store, Tuning: opts.Tuning}

	resolver := func(room string) (world.SpawnGroup, error) {
		g, ok := w.SpawnGroup(room)
		if !ok {
			return nil, fmt.Errorf("no spawn group in room %s", room)
		}
		if opts.InstrumentSpawns {
			return metrics.InstrumentSpawnGroup(g), nil
		}
		return g, nil
	}

	ops, err := r.Build(missions.NewRegistry(), resolver, deps, w.Tick())
	if err != nil {
		return nil, err
	}

	schedOpts := []scheduler.Option{}
	if opts.Recorder != nil {
		schedOpts = append(schedOpts, scheduler.WithRecorder(opts.Recorder))
	}
	sched := scheduler.NewTickScheduler(shared.NewSeededRandom(seed), schedOpts...)
	for _, op := range ops {
		if err := sched.AddOperation(op); err != nil {
			return nil, err
		}
	}

	return &Colony{World: w, Scheduler: sched, Store: store, Operations: ops, Seed: seed}, nil
}

// TuningFromConfig converts the missions config section
func TuningFromConfig(c config.MissionsConfig) missions.Tuning {
	return missions.Tuning{
		PotencyRefreshInterval:           c.PotencyRefreshInterval,
		TransportInvalidationProbability: c.TransportInvalidationProbability,
		PositionInvalidationProbability:  c.PositionInvalidationProbability,
		DistanceInvalidationProbability:  c.DistanceInvalidationProbability,
		CartRetirementMargin:             c.CartRetirementMargin,
		LoadOverhead:                     c.LoadOverhead,
		NeedEnergyThreshold:              c.NeedEnergyThreshold,
		SupplyEnergyThreshold:            c.SupplyEnergyThreshold,
		StorageEnergyPerPotency:          c.StorageEnergyPerPotency,
		LinkCapacity:                     c.LinkCapacity,
		MaxUpgraders:                     c.MaxUpgraders,
		SupplyDistance:                   c.SupplyDistance,
		PaveInterval:                     c.PaveInterval,
		LocalSourceThreshold:             c.LocalSourceThreshold,
	}
}
