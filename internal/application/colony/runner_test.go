package colony

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type fakeEnv struct{ tick uint64 }

func (e *fakeEnv) Tick() uint64 { return e.tick }
func (e *fakeEnv) Step()        { e.tick++ }

type fakeFlusher struct {
	ticks []uint64
	err   error
}

func (f *fakeFlusher) Flush(ctx context.Context, tick uint64) (int, error) {
	f.ticks = append(f.ticks, tick)
	return 1, f.err
}

type fakeObserver struct{ ticks []uint64 }

func (o *fakeObserver) ObserveTick(report scheduler.TickReport) error {
	o.ticks = append(o.ticks, report.Tick)
	return nil
}

type countingMission struct{ finalized []uint64 }

func (m *countingMission) Name() string                                  { return "counting" }
func (m *countingMission) Namespace() string                             { return "alpha.counting" }
func (m *countingMission) Init(tc *mission.TickContext) error            { return nil }
func (m *countingMission) RoleCall(tc *mission.TickContext) error        { return nil }
func (m *countingMission) Actions(tc *mission.TickContext) error         { return nil }
func (m *countingMission) InvalidateCache(tc *mission.TickContext) error { return nil }
func (m *countingMission) Finalize(tc *mission.TickContext) error {
	m.finalized = append(m.finalized, tc.Tick)
	return nil
}

func newScheduler(t *testing.T, m mission.Mission) *scheduler.TickScheduler {
	op, err := mission.NewOperation("alpha", "W1N1", "")
	require.NoError(t, err)
	require.NoError(t, op.AddMission(m))
	require.NoError(t, op.Start(0))
	s := scheduler.NewTickScheduler(shared.NewSeededRandom(1))
	require.NoError(t, s.AddOperation(op))
	return s
}

func TestRunner_RunsTicksInLockstep(t *testing.T) {
	// Arrange
	m := &countingMission{}
	env := &fakeEnv{tick: 10}
	observer := &fakeObserver{}
	r := NewRunner(newScheduler(t, m), env, WithObserver(observer))

	// Act
	ran, err := r.Run(context.Background(), 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, ran)
	assert.Equal(t, []uint64{10, 11, 12}, m.finalized)
	assert.Equal(t, []uint64{10, 11, 12}, observer.ticks)
	assert.Equal(t, uint64(13), env.tick)
}

func TestRunner_FlushesOnIntervalAndExit(t *testing.T) {
	// Arrange
	env := &fakeEnv{}
	flusher := &fakeFlusher{}
	r := NewRunner(newScheduler(t, &countingMission{}), env, WithMemoryFlusher(flusher, 2))

	// Act
	_, err := r.Run(context.Background(), 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3, 5}, flusher.ticks)
}

func TestRunner_FlushErrorDoesNotStop(t *testing.T) {
	flusher := &fakeFlusher{err: errors.New("disk full")}
	r := NewRunner(newScheduler(t, &countingMission{}), &fakeEnv{}, WithMemoryFlusher(flusher, 1))

	ran, err := r.Run(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, ran)
}

func TestRunner_CancelledContextStopsCleanly(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	flusher := &fakeFlusher{}
	r := NewRunner(newScheduler(t, &countingMission{}), &fakeEnv{}, WithMemoryFlusher(flusher, 10), WithTickInterval(time.Hour))

	// Act
	ran, err := r.Run(ctx, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, ran)
	assert.Equal(t, []uint64{0}, flusher.ticks)
}
