package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type phaseCall struct {
	mission string
	phase   mission.Phase
}

// scriptedMission records every phase call and misbehaves on request
type scriptedMission struct {
	name     string
	calls    *[]phaseCall
	failIn   mission.Phase
	panicIn  mission.Phase
	noTarget bool
}

func (m *scriptedMission) Name() string      { return m.name }
func (m *scriptedMission) Namespace() string { return "bdd." + m.name }

func (m *scriptedMission) run(tc *mission.TickContext) error {
	*m.calls = append(*m.calls, phaseCall{mission: m.name, phase: tc.Phase})
	if tc.Phase == mission.PhaseInit && m.noTarget {
		return shared.NewMissingTargetError(m.name + "_target")
	}
	if tc.Phase == m.panicIn {
		panic(fmt.Sprintf("%s blew up", m.name))
	}
	if tc.Phase == m.failIn {
		return fmt.Errorf("%s failed in %s", m.name, tc.Phase)
	}
	return nil
}

func (m *scriptedMission) Init(tc *mission.TickContext) error            { return m.run(tc) }
func (m *scriptedMission) RoleCall(tc *mission.TickContext) error        { return m.run(tc) }
func (m *scriptedMission) Actions(tc *mission.TickContext) error         { return m.run(tc) }
func (m *scriptedMission) InvalidateCache(tc *mission.TickContext) error { return m.run(tc) }
func (m *scriptedMission) Finalize(tc *mission.TickContext) error        { return m.run(tc) }

type tickSchedulerContext struct {
	scheduler *scheduler.TickScheduler
	missions  map[string]*scriptedMission
	calls     []phaseCall
	report    scheduler.TickReport
}

func (tc *tickSchedulerContext) reset() {
	tc.scheduler = scheduler.NewTickScheduler(shared.NewSeededRandom(1))
	tc.missions = make(map[string]*scriptedMission)
	tc.calls = nil
	tc.report = scheduler.TickReport{}
}

func (tc *tickSchedulerContext) addOperation(name, missionList string, running bool) error {
	op, err := mission.NewOperation(name, "W1N1", "")
	if err != nil {
		return err
	}
	for _, raw := range strings.Split(missionList, ",") {
		missionName := strings.TrimSpace(raw)
		if missionName == "" {
			continue
		}
		m := &scriptedMission{name: missionName, calls: &tc.calls}
		if err := op.AddMission(m); err != nil {
			return err
		}
		tc.missions[missionName] = m
	}
	if running {
		if err := op.Start(0); err != nil {
			return err
		}
	}
	return tc.scheduler.AddOperation(op)
}

func (tc *tickSchedulerContext) aRunningOperationWithMissions(name, missionList string) error {
	return tc.addOperation(name, missionList, true)
}

func (tc *tickSchedulerContext) aStoppedOperationWithMissions(name, missionList string) error {
	return tc.addOperation(name, missionList, false)
}

func (tc *tickSchedulerContext) mission(name string) (*scriptedMission, error) {
	m, ok := tc.missions[name]
	if !ok {
		return nil, fmt.Errorf("unknown mission %q", name)
	}
	return m, nil
}

func (tc *tickSchedulerContext) missionFailsInPhase(name, phase string) error {
	m, err := tc.mission(name)
	if err != nil {
		return err
	}
	m.failIn = mission.Phase(phase)
	return nil
}

func (tc *tickSchedulerContext) missionPanicsInPhase(name, phase string) error {
	m, err := tc.mission(name)
	if err != nil {
		return err
	}
	m.panicIn = mission.Phase(phase)
	return nil
}

func (tc *tickSchedulerContext) missionHasNoTarget(name string) error {
	m, err := tc.mission(name)
	if err != nil {
		return err
	}
	m.noTarget = true
	return nil
}

func (tc *tickSchedulerContext) tickRuns(tick int) error {
	report, err := tc.scheduler.RunTick(context.Background(), uint64(tick))
	if err != nil {
		return err
	}
	tc.report = report
	return nil
}

func (tc *tickSchedulerContext) theCallsShouldBe(table *godog.Table) error {
	if err := requireRows(table); err != nil {
		return err
	}
	expected := table.Rows[1:]
	if len(expected) != len(tc.calls) {
		return fmt.Errorf("expected %d calls, got %d", len(expected), len(tc.calls))
	}
	for i, row := range expected {
		name := getCellValue(table, row, "mission")
		phase := getCellValue(table, row, "phase")
		got := tc.calls[i]
		if got.mission != name || string(got.phase) != phase {
			return fmt.Errorf("call %d: expected %s/%s, got %s/%s", i+1, name, phase, got.mission, got.phase)
		}
	}
	return nil
}

func (tc *tickSchedulerContext) faultsShouldBeReported(expected int) error {
	if got := tc.report.FaultCount(); got != expected {
		return fmt.Errorf("expected %d faults, got %d", expected, got)
	}
	return nil
}

func (tc *tickSchedulerContext) theFaultShouldNameMissionInPhase(name, phase string) error {
	if len(tc.report.Faults) == 0 {
		return fmt.Errorf("no faults reported")
	}
	fault := tc.report.Faults[0]
	if fault.Mission != name || string(fault.Phase) != phase {
		return fmt.Errorf("expected fault in %s/%s, got %s/%s", name, phase, fault.Mission, fault.Phase)
	}
	return nil
}

func (tc *tickSchedulerContext) missionShouldHaveRunPhases(name string, expected int) error {
	got := 0
	for _, call := range tc.calls {
		if call.mission == name {
			got++
		}
	}
	if got != expected {
		return fmt.Errorf("expected mission %s to run %d phases, got %d", name, expected, got)
	}
	return nil
}

func (tc *tickSchedulerContext) missionsShouldBeInactive(expected int) error {
	if tc.report.Deactivated != expected {
		return fmt.Errorf("expected %d inactive missions, got %d", expected, tc.report.Deactivated)
	}
	return nil
}

func (tc *tickSchedulerContext) theReportShouldCountOperations(expected int) error {
	if tc.report.Operations != expected {
		return fmt.Errorf("expected %d operations, got %d", expected, tc.report.Operations)
	}
	return nil
}

func InitializeTickSchedulerScenario(sc *godog.ScenarioContext) {
	tc := &tickSchedulerContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	sc.Step(`^a running operation "([^"]*)" with missions "([^"]*)"$`, tc.aRunningOperationWithMissions)
	sc.Step(`^a stopped operation "([^"]*)" with missions "([^"]*)"$`, tc.aStoppedOperationWithMissions)
	sc.Step(`^mission "([^"]*)" fails in phase "([^"]*)"$`, tc.missionFailsInPhase)
	sc.Step(`^mission "([^"]*)" panics in phase "([^"]*)"$`, tc.missionPanicsInPhase)
	sc.Step(`^mission "([^"]*)" has no target$`, tc.missionHasNoTarget)
	sc.Step(`^tick (\d+) runs$`, tc.tickRuns)
	sc.Step(`^the calls should be:$`, tc.theCallsShouldBe)
	sc.Step(`^(\d+) faults? should be reported$`, tc.faultsShouldBeReported)
	sc.Step(`^the fault should name mission "([^"]*)" in phase "([^"]*)"$`, tc.theFaultShouldNameMissionInPhase)
	sc.Step(`^mission "([^"]*)" should have run (\d+) phases?$`, tc.missionShouldHaveRunPhases)
	sc.Step(`^(\d+) missions? should be inactive$`, tc.missionsShouldBeInactive)
	sc.Step(`^the report should count (\d+) operations?$`, tc.theReportShouldCountOperations)
}
