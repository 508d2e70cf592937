package mission

import (
	"context"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Phase is one step of the per-tick lifecycle
type Phase string

const (
	PhaseInit            Phase = "init"
	PhaseRoleCall        Phase = "roleCall"
	PhaseActions         Phase = "actions"
	PhaseInvalidateCache Phase = "invalidateCache"
	PhaseFinalize        Phase = "finalize"
)

// Phases lists the lifecycle in execution order
var Phases = []Phase{PhaseInit, PhaseRoleCall, PhaseActions, PhaseInvalidateCache, PhaseFinalize}

// TickContext is handed to every phase call. It is built by the scheduler when
// the phase starts and lives for that phase only.
type TickContext struct {
	Ctx    context.Context
	Tick   uint64
	Phase  Phase
	Random shared.RandomSource
}

// Mission is one recurring objective driven through the five phases each tick.
// Init may return a MissingTargetError to sit the rest of the tick out.
type Mission interface {
	Name() string
	Namespace() string

	Init(tc *TickContext) error
	RoleCall(tc *TickContext) error
	Actions(tc *TickContext) error
	InvalidateCache(tc *TickContext) error
	Finalize(tc *TickContext) error
}

// Namespace builds the memory namespace of a mission inside an operation
func Namespace(operation, missionName string) string {
	return operation + "." + missionName
}

// MemoryStore persists mission memory by namespace. Load returns false when
// nothing was stored yet.
type MemoryStore interface {
	Load(ctx context.Context, namespace string, dst interface{}) (bool, error)
	Save(ctx context.Context, namespace string, src interface{}) error
}
