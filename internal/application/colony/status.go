package colony

import (
	"sync"
	"time"

	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

// OperationStatus describes one scheduled operation
type OperationStatus struct {
	Name     string
	Room     string
	Status   string
	Missions []string
}

// Status is a point-in-time view of the running colony
type Status struct {
	StartedAt   time.Time
	LastTick    uint64
	TicksRun    int
	Faults      int
	LastFaults  int
	Deactivated int
	Operations  []OperationStatus
}

// StatusTracker follows finished ticks so other goroutines can read the
// colony's status while the tick loop runs
type StatusTracker struct {
	mu        sync.RWMutex
	scheduler *scheduler.TickScheduler
	status    Status
}

func NewStatusTracker(s *scheduler.TickScheduler, startedAt time.Time) *StatusTracker {
	t := &StatusTracker{scheduler: s, status: Status{StartedAt: startedAt}}
	t.status.Operations = describe(s.Operations())
	return t
}

func (t *StatusTracker) ObserveTick(report scheduler.TickReport) error {
	ops := describe(t.scheduler.Operations())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.LastTick = report.Tick
	t.status.TicksRun++
	t.status.Faults += report.FaultCount()
	t.status.LastFaults = report.FaultCount()
	t.status.Deactivated = report.Deactivated
	t.status.Operations = ops
	return nil
}

// Status returns a copy of the current status
func (t *StatusTracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.status
	s.Operations = append([]OperationStatus(nil), t.status.Operations...)
	return s
}

func describe(ops []*mission.Operation) []OperationStatus {
	out := make([]OperationStatus, 0, len(ops))
	for _, op := range ops {
		names := make([]string, 0, len(op.Missions()))
		for _, m := range op.Missions() {
			names = append(names, m.Namespace())
		}
		out = append(out, OperationStatus{
			Name:     op.Name(),
			Room:     op.Room(),
			Status:   string(op.Status()),
			Missions: names,
		})
	}
	return out
}
