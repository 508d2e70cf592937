package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/potency"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

type potencyContext struct {
	input  potency.Input
	cache  *int
	result int
	err    error
}

func (pc *potencyContext) reset() {
	pc.input = potency.Input{}
	pc.cache = nil
	pc.result = 0
	pc.err = nil
}

func (pc *potencyContext) aBattery(kind string) error {
	pc.input.Battery = &world.Structure{
		ID:   "battery",
		Type: world.StructureType(kind),
		Pos:  shared.NewPosition("W1N1", 25, 25),
	}
	return nil
}

func (pc *potencyContext) noBattery() error {
	pc.input.Battery = nil
	return nil
}

func (pc *potencyContext) storageHolding(energy string) error {
	if energy == "none" {
		pc.input.Storage = nil
		return nil
	}
	amount, err := strconv.Atoi(energy)
	if err != nil {
		return fmt.Errorf("invalid storage energy %q", energy)
	}
	pc.input.Storage = &world.Structure{
		ID:     "storage",
		Type:   world.StructureStorage,
		Pos:    shared.NewPosition("W1N1", 20, 25),
		Energy: amount,
	}
	// a storage battery is the storage itself
	if pc.input.Battery != nil && pc.input.Battery.Type == world.StructureStorage {
		pc.input.Battery = pc.input.Storage
	}
	// links near storage feed a link battery
	pc.input.LinksNearStorage = 1
	return nil
}

func (pc *potencyContext) sourcesInTheRoom(count int) error {
	pc.input.SourceCount = count
	return nil
}

func (pc *potencyContext) hostilesInTheRoom() error {
	pc.input.HostilesPresent = true
	return nil
}

func (pc *potencyContext) theControllerIsAtMaxLevel() error {
	pc.input.ControllerAtMaxLevel = true
	return nil
}

func (pc *potencyContext) aCachedPotencyOf(value int) error {
	pc.cache = &value
	return nil
}

func (pc *potencyContext) potencyIsEstimatedAtTick(tick int) error {
	estimator := potency.NewEstimator(potency.DefaultConfig())
	pc.result, pc.err = estimator.Estimate(pc.input, &pc.cache, uint64(tick))
	return nil
}

func (pc *potencyContext) potencyShouldBe(expected int) error {
	if pc.err != nil {
		return fmt.Errorf("estimate failed: %w", pc.err)
	}
	if pc.result != expected {
		return fmt.Errorf("expected potency %d, got %d", expected, pc.result)
	}
	return nil
}

func (pc *potencyContext) theBatteryShouldBeReportedAsUnrecognized() error {
	var unrecognized *shared.UnrecognizedBatteryError
	if !errors.As(pc.err, &unrecognized) {
		return fmt.Errorf("expected an unrecognized battery error, got %v", pc.err)
	}
	return nil
}

func (pc *potencyContext) theEstimateShouldBe(expected int) error {
	if pc.result != expected {
		return fmt.Errorf("expected estimate %d, got %d", expected, pc.result)
	}
	return nil
}

func InitializePotencyScenario(sc *godog.ScenarioContext) {
	pc := &potencyContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^a "([^"]*)" battery$`, pc.aBattery)
	sc.Step(`^no battery$`, pc.noBattery)
	sc.Step(`^storage holding (\w+) energy$`, pc.storageHolding)
	sc.Step(`^(\d+) sources in the room$`, pc.sourcesInTheRoom)
	sc.Step(`^hostiles in the room$`, pc.hostilesInTheRoom)
	sc.Step(`^the controller is at max level$`, pc.theControllerIsAtMaxLevel)
	sc.Step(`^a cached potency of (\d+)$`, pc.aCachedPotencyOf)
	sc.Step(`^potency is estimated at tick (\d+)$`, pc.potencyIsEstimatedAtTick)
	sc.Step(`^potency should be (\d+)$`, pc.potencyShouldBe)
	sc.Step(`^the battery should be reported as unrecognized$`, pc.theBatteryShouldBeReportedAsUnrecognized)
	sc.Step(`^the estimate should be (\d+)$`, pc.theEstimateShouldBe)
}
