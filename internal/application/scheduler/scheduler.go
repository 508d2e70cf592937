package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Recorder receives scheduler measurements. Implemented by the metrics adapter.
type Recorder interface {
	RecordPhase(phase mission.Phase, duration time.Duration)
	RecordFault(operation, missionName string, phase mission.Phase)
	RecordTick(report TickReport)
}

// TickReport summarises one tick
type TickReport struct {
	Tick           uint64
	Operations     int
	Missions       int
	Deactivated    int
	Faults         []*PhaseError
	PhaseDurations map[mission.Phase]time.Duration
	Duration       time.Duration
}

// FaultCount returns the number of isolated faults
func (r TickReport) FaultCount() int {
	return len(r.Faults)
}

// TickScheduler drives every running operation's missions through the phase
// sequence once per tick. Each phase is a barrier: all missions finish phase k
// before any starts phase k+1.
type TickScheduler struct {
	mu         sync.Mutex
	operations []*mission.Operation
	random     shared.RandomSource
	clock      shared.Clock
	recorder   Recorder
}

// Option configures a TickScheduler
type Option func(*TickScheduler)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *TickScheduler) { s.recorder = r }
}

// WithClock sets the clock used to time phases
func WithClock(c shared.Clock) Option {
	return func(s *TickScheduler) { s.clock = c }
}

// NewTickScheduler creates a scheduler drawing cache invalidation from random
func NewTickScheduler(random shared.RandomSource, opts ...Option) *TickScheduler {
	s := &TickScheduler{
		random: random,
		clock:  shared.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddOperation registers an operation. Only running operations are scheduled.
func (s *TickScheduler) AddOperation(op *mission.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.operations {
		if existing.Name() == op.Name() {
			return fmt.Errorf("operation %s already scheduled", op.Name())
		}
	}
	s.operations = append(s.operations, op)
	return nil
}

// Operations returns the registered operations
func (s *TickScheduler) Operations() []*mission.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*mission.Operation(nil), s.operations...)
}

type scheduled struct {
	op       *mission.Operation
	mission  mission.Mission
	inactive bool
}

// RunTick runs the five phases for tick. Faults are isolated per mission and
// phase and reported; RunTick itself only fails when ctx is cancelled before
// the tick starts.
func (s *TickScheduler) RunTick(ctx context.Context, tick uint64) (TickReport, error) {
	if err := ctx.Err(); err != nil {
		return TickReport{Tick: tick}, err
	}
	logger := common.LoggerFromContext(ctx)

	active := s.snapshot()
	report := TickReport{
		Tick:           tick,
		PhaseDurations: make(map[mission.Phase]time.Duration, len(mission.Phases)),
		Missions:       len(active),
	}
	seen := make(map[string]bool)
	for _, entry := range active {
		seen[entry.op.Name()] = true
	}
	report.Operations = len(seen)

	tickStart := s.clock.Now()
	for _, phase := range mission.Phases {
		phaseStart := s.clock.Now()
		for _, entry := range active {
			if entry.inactive {
				continue
			}
			tc := &mission.TickContext{
				Ctx: common.WithLogger(ctx, common.WithFields(logger, map[string]interface{}{
					"operation": entry.op.Name(),
					"mission":   entry.mission.Name(),
					"tick":      tick,
				})),
				Tick:   tick,
				Phase:  phase,
				Random: s.random,
			}

			err := s.runPhase(entry, tc)
			if err == nil {
				continue
			}

			var missing *shared.MissingTargetError
			if phase == mission.PhaseInit && errors.As(err, &missing) {
				entry.inactive = true
				report.Deactivated++
				logger.Log(common.LevelDebug, "mission inactive this tick", map[string]interface{}{
					"operation": entry.op.Name(),
					"mission":   entry.mission.Name(),
					"reason":    missing.Error(),
				})
				continue
			}

			fault := asPhaseError(err, entry, phase, tick)
			report.Faults = append(report.Faults, fault)
			if phase == mission.PhaseInit {
				entry.inactive = true
			}
			if s.recorder != nil {
				s.recorder.RecordFault(entry.op.Name(), entry.mission.Name(), phase)
			}
			logger.Log(common.LevelError, fault.Error(), map[string]interface{}{
				"operation": entry.op.Name(),
				"mission":   entry.mission.Name(),
				"phase":     string(phase),
				"tick":      tick,
			})
		}

		elapsed := s.clock.Now().Sub(phaseStart)
		report.PhaseDurations[phase] = elapsed
		if s.recorder != nil {
			s.recorder.RecordPhase(phase, elapsed)
		}
	}
	report.Duration = s.clock.Now().Sub(tickStart)

	if n := report.FaultCount(); n > 0 {
		logger.Log(common.LevelWarning, fmt.Sprintf("faults this tick: %d", n), map[string]interface{}{"tick": tick})
	}
	if s.recorder != nil {
		s.recorder.RecordTick(report)
	}
	return report, nil
}

// snapshot lists the missions of running operations. Operations stopped
// between ticks drop out here.
func (s *TickScheduler) snapshot() []*scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*scheduled
	for _, op := range s.operations {
		if !op.IsRunning() {
			continue
		}
		for _, m := range op.Missions() {
			out = append(out, &scheduled{op: op, mission: m})
		}
	}
	return out
}

// runPhase calls one phase of one mission, turning a panic into a PhaseError
func (s *TickScheduler) runPhase(entry *scheduled, tc *mission.TickContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PhaseError{
				Operation: entry.op.Name(),
				Mission:   entry.mission.Name(),
				Phase:     tc.Phase,
				Tick:      tc.Tick,
				Cause:     fmt.Errorf("panic: %v", r),
				Panicked:  true,
			}
		}
	}()

	m := entry.mission
	switch tc.Phase {
	case mission.PhaseInit:
		return m.Init(tc)
	case mission.PhaseRoleCall:
		return m.RoleCall(tc)
	case mission.PhaseActions:
		return m.Actions(tc)
	case mission.PhaseInvalidateCache:
		return m.InvalidateCache(tc)
	case mission.PhaseFinalize:
		return m.Finalize(tc)
	default:
		return fmt.Errorf("unknown phase %q", tc.Phase)
	}
}

func asPhaseError(err error, entry *scheduled, phase mission.Phase, tick uint64) *PhaseError {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe
	}
	return &PhaseError{
		Operation: entry.op.Name(),
		Mission:   entry.mission.Name(),
		Phase:     phase,
		Tick:      tick,
		Cause:     err,
	}
}
