package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	// QuickLoad is the energy a locally spawned upgrader takes before leaving
	QuickLoad = 100

	// RemoteRefillLevel is the carried amount below which a standing upgrader withdraws
	RemoteRefillLevel = 120

	// RoadRepairThreshold is the health ratio below which a passing unit repairs its road
	RoadRepairThreshold = 0.6

	standingStuckValue = 4
)

// RemoteUpgraderAssignment is what a remote upgrader needs to know this tick
type RemoteUpgraderAssignment struct {
	// LocalStorage is the spawn room storage for a quick load, nil for long-range spawns
	LocalStorage *world.Structure

	// Positions is false until the container exists and standing tiles are known
	Positions bool

	// Position is the standing tile picked by ordinal index
	Position *shared.Position

	Container  *world.Structure
	Controller *world.Controller
	Target     shared.Position
}

// RemoteUpgrader works a remote controller from a fixed standing tile next to
// the container
func RemoteUpgrader(w world.World, u *world.Unit, a RemoteUpgraderAssignment) Outcome {
	act := newActor(w, u)

	if a.LocalStorage != nil && !u.Memory.HasLoad && u.Pos.Room == a.LocalStorage.Pos.Room {
		if !u.Pos.IsNearTo(a.LocalStorage.Pos) {
			act.moveTo(a.LocalStorage.Pos, world.MoveOptions{Range: 1})
			return act.finish(Seeking)
		}
		if act.withdraw(a.LocalStorage, QuickLoad) != nil {
			return act.finish(Seeking)
		}
		u.Memory.HasLoad = true
	}

	if !a.Positions || a.Target.IsZero() {
		act.idleOffRoad(a.Target)
		return act.finish(Idle)
	}

	if a.Position == nil || a.Container == nil {
		act.idleNear(a.Target, WorkRange)
		return act.finish(Idle)
	}

	if u.Pos == *a.Position {
		state := Delivering
		if u.Carried < RemoteRefillLevel {
			act.withdraw(a.Container, 0)
			state = Seeking
		}
		if a.Container.NeedsRepair(RepairThreshold) {
			act.repair(a.Container)
		} else if a.Controller != nil {
			act.upgrade(a.Controller)
		}
		return act.finish(state)
	}

	if road, ok := w.StructureAt(u.Pos, world.StructureRoad); ok && road.NeedsRepair(RoadRepairThreshold) {
		act.repair(road)
	}
	act.moveTo(*a.Position, world.MoveOptions{StuckValue: standingStuckValue})
	return act.finish(Delivering)
}
