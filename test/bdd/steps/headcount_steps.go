package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/workforce"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/test/helpers"
)

var standardWorker = world.Body{Work: 1, Carry: 1, Move: 1}

type headcountContext struct {
	group     *helpers.MockSpawnGroup
	namespace string
	result    workforce.Result
	err       error
}

func (hc *headcountContext) reset() {
	hc.group = nil
	hc.namespace = ""
	hc.result = workforce.Result{}
	hc.err = nil
}

func (hc *headcountContext) aSpawnGroupInRoom(room string, maxEnergy int) error {
	hc.group = helpers.NewMockSpawnGroup(room, maxEnergy)
	return nil
}

func (hc *headcountContext) theMissionNamespace(namespace string) error {
	hc.namespace = namespace
	return nil
}

func (hc *headcountContext) liveUnitsWithTicksToLive(count int, role string, ttl int) error {
	for i := 0; i < count; i++ {
		hc.group.AddUnit(&world.Unit{
			ID:          fmt.Sprintf("%s-%d", role, i),
			Body:        standardWorker,
			TicksToLive: ttl,
			Memory:      world.UnitMemory{Namespace: hc.namespace, Role: role},
		})
	}
	return nil
}

func (hc *headcountContext) queuedRequests(count int, role string) error {
	hc.group.QueuedBy[hc.namespace+"|"+role] = count
	return nil
}

func (hc *headcountContext) theSpawnGroupAcceptsAtMost(limit int, role string) error {
	hc.group.Capacity[hc.namespace+"|"+role] = limit
	return nil
}

func (hc *headcountContext) iRequestUnits(desired int, role string, leadTime int) error {
	planner := workforce.NewPlanner(hc.group, hc.namespace, nil)
	hc.result, hc.err = planner.HeadCount(role,
		func() world.Body { return standardWorker },
		func() int { return desired },
		workforce.Options{PrespawnLeadTime: leadTime},
	)
	return nil
}

func (hc *headcountContext) spawnRequestsShouldBeSubmitted(expected int) error {
	if got := len(hc.group.Submitted); got != expected {
		return fmt.Errorf("expected %d spawn requests, got %d", expected, got)
	}
	if hc.result.Requested != expected {
		return fmt.Errorf("result reports %d requests, expected %d", hc.result.Requested, expected)
	}
	return nil
}

func (hc *headcountContext) noErrorShouldBeReturned() error {
	if hc.err != nil {
		return fmt.Errorf("expected no error, got %v", hc.err)
	}
	return nil
}

func (hc *headcountContext) everyRequestShouldHave(namespace, role string) error {
	for _, req := range hc.group.Submitted {
		if req.Namespace != namespace || req.Memory.Namespace != namespace {
			return fmt.Errorf("request %s has namespace %s", req.Name, req.Namespace)
		}
		if req.Role != role || req.Memory.Role != role {
			return fmt.Errorf("request %s has role %s", req.Name, req.Role)
		}
	}
	return nil
}

func InitializeHeadcountScenario(sc *godog.ScenarioContext) {
	hc := &headcountContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		hc.reset()
		return ctx, nil
	})

	sc.Step(`^a spawn group in room "([^"]*)" with max spawn energy (\d+)$`, hc.aSpawnGroupInRoom)
	sc.Step(`^the mission namespace "([^"]*)"$`, hc.theMissionNamespace)
	sc.Step(`^(\d+) live "([^"]*)" units? with (\d+) ticks to live$`, hc.liveUnitsWithTicksToLive)
	sc.Step(`^(\d+) queued "([^"]*)" requests?$`, hc.queuedRequests)
	sc.Step(`^the spawn group accepts at most (\d+) "([^"]*)" units?$`, hc.theSpawnGroupAcceptsAtMost)
	sc.Step(`^I request (\d+) "([^"]*)" units with lead time (\d+)$`, hc.iRequestUnits)
	sc.Step(`^(\d+) spawn requests? should be submitted$`, hc.spawnRequestsShouldBeSubmitted)
	sc.Step(`^no error should be returned$`, hc.noErrorShouldBeReturned)
	sc.Step(`^every submitted request should have namespace "([^"]*)" and role "([^"]*)"$`, hc.everyRequestShouldHave)
}
