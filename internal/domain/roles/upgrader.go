package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	// RepairThreshold is the health ratio below which a feeder is repaired before work
	RepairThreshold = 0.8

	// WorkRange is the range of repair, upgrade and build actions
	WorkRange = 3
)

// UpgraderAssignment is what an upgrader needs to know this tick
type UpgraderAssignment struct {
	Controller *world.Controller
	Battery    *world.Structure

	// Position is the standing tile picked by ordinal index, nil if none is left
	Position *shared.Position

	// Rally is where the unit idles when the battery is missing
	Rally shared.Position
}

// Upgrader feeds the controller from its battery. The battery is repaired
// instead of upgrading while below RepairThreshold.
func Upgrader(w world.World, u *world.Unit, a UpgraderAssignment) Outcome {
	act := newActor(w, u)

	if a.Battery == nil || a.Controller == nil {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle)
	}
	battery := a.Battery

	state := seekLoad(u, QuarterRefill(u.CarryCapacity()))

	if u.Carried > 0 {
		if battery.NeedsRepair(RepairThreshold) && u.Pos.InRangeTo(battery.Pos, WorkRange) {
			act.repair(battery)
		} else if u.Pos.InRangeTo(a.Controller.Pos, WorkRange) {
			act.upgrade(a.Controller)
		}
	}

	if a.Position != nil {
		if u.Pos.RangeTo(*a.Position) > 0 {
			act.moveTo(*a.Position, world.MoveOptions{})
		}
	} else if u.Pos.InRangeTo(battery.Pos, WorkRange) {
		act.yieldRoad(battery.Pos)
	} else {
		act.moveTo(battery.Pos, world.MoveOptions{Range: 1})
	}

	if state == Seeking && u.Pos.IsNearTo(battery.Pos) {
		act.withdraw(battery, 0)
	}

	return act.finish(state)
}
