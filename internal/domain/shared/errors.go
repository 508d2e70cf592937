package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Mission errors

// MissingTargetError means the object a mission works on (controller, target
// marker, vision of the room) is absent this tick. The mission idles and is
// re-checked next tick.
type MissingTargetError struct {
	*DomainError
	Target string
}

func NewMissingTargetError(target string) *MissingTargetError {
	return &MissingTargetError{
		DomainError: NewDomainError(fmt.Sprintf("target %s not found", target)),
		Target:      target,
	}
}

// NoBatteryError means no feeder structure exists and no placement candidate
// could be found. Retried on a later tick.
type NoBatteryError struct {
	*DomainError
	Operation string
}

func NewNoBatteryError(operation string) *NoBatteryError {
	return &NoBatteryError{
		DomainError: NewDomainError(fmt.Sprintf("couldn't find controller battery position in %s", operation)),
		Operation:   operation,
	}
}

// CapacityExceededError is returned when a spawn request would push a role past
// its maximum. Callers treat it as a no-op.
type CapacityExceededError struct {
	*DomainError
	Role string
	Max  int
}

func NewCapacityExceededError(role string, max int) *CapacityExceededError {
	return &CapacityExceededError{
		DomainError: NewDomainError(fmt.Sprintf("role %s already at capacity %d", role, max)),
		Role:        role,
		Max:         max,
	}
}

// TransientQueryFailure means a lookup for an id expected to exist returned
// nothing. The dependent unit idles this tick.
type TransientQueryFailure struct {
	*DomainError
	ID string
}

func NewTransientQueryFailure(id string) *TransientQueryFailure {
	return &TransientQueryFailure{
		DomainError: NewDomainError(fmt.Sprintf("object %s not visible", id)),
		ID:          id,
	}
}

// UnrecognizedBatteryError is reported when a feeder structure has a type the
// potency estimator cannot rate.
type UnrecognizedBatteryError struct {
	*DomainError
	StructureType string
}

func NewUnrecognizedBatteryError(operation, structureType string) *UnrecognizedBatteryError {
	return &UnrecognizedBatteryError{
		DomainError:   NewDomainError(fmt.Sprintf("unrecognized controller battery type in %s, %s", operation, structureType)),
		StructureType: structureType,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
