package scheduler

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

// PhaseError is a mission fault isolated by the scheduler
type PhaseError struct {
	Operation string
	Mission   string
	Phase     mission.Phase
	Tick      uint64
	Cause     error

	// Panicked is set when the fault was a recovered panic
	Panicked bool
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("tick %d: %s/%s %s: %v", e.Tick, e.Operation, e.Mission, e.Phase, e.Cause)
}

func (e *PhaseError) Unwrap() error {
	return e.Cause
}
