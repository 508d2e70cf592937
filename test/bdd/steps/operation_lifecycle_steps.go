package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

type operationLifecycleContext struct {
	operation *mission.Operation
	createErr error
	lastErr   error
}

func (oc *operationLifecycleContext) reset() {
	oc.operation = nil
	oc.createErr = nil
	oc.lastErr = nil
}

func (oc *operationLifecycleContext) anOperationInRoom(name, room string) error {
	oc.operation, oc.createErr = mission.NewOperation(name, room, "")
	return nil
}

func (oc *operationLifecycleContext) requireOperation() error {
	if oc.operation == nil {
		return fmt.Errorf("no operation created: %v", oc.createErr)
	}
	return nil
}

func (oc *operationLifecycleContext) theOperationIsStartedAtTick(tick int) error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	oc.lastErr = oc.operation.Start(uint64(tick))
	return nil
}

func (oc *operationLifecycleContext) theOperationIsStoppedAtTick(tick int) error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	oc.lastErr = oc.operation.Stop(uint64(tick))
	return nil
}

func (oc *operationLifecycleContext) theOperationFailsAtTickWith(tick int, message string) error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	oc.lastErr = oc.operation.Fail(uint64(tick), errors.New(message))
	return nil
}

func (oc *operationLifecycleContext) theOperationStatusShouldBe(expected string) error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	if got := string(oc.operation.Status()); got != expected {
		return fmt.Errorf("expected status %s, got %s", expected, got)
	}
	return nil
}

func (oc *operationLifecycleContext) theOperationShouldNotBeRunning() error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	if oc.operation.IsRunning() {
		return fmt.Errorf("expected operation not to be running")
	}
	return nil
}

func (oc *operationLifecycleContext) theLastTransitionShouldHaveFailed() error {
	if oc.lastErr == nil {
		return fmt.Errorf("expected the last transition to fail")
	}
	return nil
}

func (oc *operationLifecycleContext) theSpawnRoomShouldBe(expected string) error {
	if err := oc.requireOperation(); err != nil {
		return err
	}
	if got := oc.operation.SpawnRoom(); got != expected {
		return fmt.Errorf("expected spawn room %s, got %s", expected, got)
	}
	return nil
}

func (oc *operationLifecycleContext) theOperationShouldBeRejected() error {
	if oc.createErr == nil {
		return fmt.Errorf("expected operation creation to fail")
	}
	return nil
}

func InitializeOperationLifecycleScenario(sc *godog.ScenarioContext) {
	oc := &operationLifecycleContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		oc.reset()
		return ctx, nil
	})

	sc.Step(`^an operation "([^"]*)" in room "([^"]*)"$`, oc.anOperationInRoom)
	sc.Step(`^the operation is started at tick (\d+)$`, oc.theOperationIsStartedAtTick)
	sc.Step(`^the operation is stopped at tick (\d+)$`, oc.theOperationIsStoppedAtTick)
	sc.Step(`^the operation fails at tick (\d+) with "([^"]*)"$`, oc.theOperationFailsAtTickWith)
	sc.Step(`^the operation status should be "([^"]*)"$`, oc.theOperationStatusShouldBe)
	sc.Step(`^the operation should not be running$`, oc.theOperationShouldNotBeRunning)
	sc.Step(`^the last transition should have failed$`, oc.theLastTransitionShouldHaveFailed)
	sc.Step(`^the spawn room should be "([^"]*)"$`, oc.theSpawnRoomShouldBe)
	sc.Step(`^the operation should be rejected$`, oc.theOperationShouldBeRejected)
}
