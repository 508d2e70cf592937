package shared

import "fmt"

// LifecycleStatus represents the state of an entity in its lifecycle
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the entity is registered but not scheduled yet
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusRunning indicates the entity is scheduled every tick
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusFailed indicates the entity could not be built or started
	LifecycleStatusFailed LifecycleStatus = "FAILED"

	// LifecycleStatusStopped indicates the entity was removed from the active set
	LifecycleStatusStopped LifecycleStatus = "STOPPED"
)

// LifecycleStateMachine manages PENDING → RUNNING → STOPPED/FAILED transitions,
// stamped with the simulation tick on which they happened.
//
// Invariants:
// - State transitions must follow valid paths
// - A stopped entity can be started again; a failed one must be reset first
type LifecycleStateMachine struct {
	status      LifecycleStatus
	startedTick uint64
	stoppedTick uint64
	lastError   error
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine() *LifecycleStateMachine {
	return &LifecycleStateMachine{status: LifecycleStatusPending}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) StartedTick() uint64     { return sm.startedTick }
func (sm *LifecycleStateMachine) StoppedTick() uint64     { return sm.stoppedTick }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Start transitions from PENDING or STOPPED to RUNNING
func (sm *LifecycleStateMachine) Start(tick uint64) error {
	if sm.status != LifecycleStatusPending && sm.status != LifecycleStatusStopped {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	sm.status = LifecycleStatusRunning
	sm.startedTick = tick
	return nil
}

// Stop transitions a RUNNING or PENDING entity to STOPPED
func (sm *LifecycleStateMachine) Stop(tick uint64) error {
	if sm.status == LifecycleStatusStopped || sm.status == LifecycleStatusFailed {
		return fmt.Errorf("cannot stop from %s state", sm.status)
	}
	sm.status = LifecycleStatusStopped
	sm.stoppedTick = tick
	return nil
}

// Fail records err and transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(tick uint64, err error) error {
	if sm.status == LifecycleStatusStopped || sm.status == LifecycleStatusFailed {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.stoppedTick = tick
	return nil
}

// Reset clears error state and returns to PENDING
func (sm *LifecycleStateMachine) Reset() {
	sm.status = LifecycleStatusPending
	sm.lastError = nil
	sm.startedTick = 0
	sm.stoppedTick = 0
}

func (sm *LifecycleStateMachine) IsRunning() bool {
	return sm.status == LifecycleStatusRunning
}

func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusStopped || sm.status == LifecycleStatusFailed
}
