package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// approachRange is how close a loaded cart gets before checking whether its sink has room
const approachRange = 3

// SupplyCartAssignment is what a battery supply cart needs to know this tick
type SupplyCartAssignment struct {
	Battery *world.Structure

	// Supply is where energy is procured, typically the room storage
	Supply *world.Structure

	Rally shared.Position
}

// SupplyCart shuttles energy from Supply into a container battery
func SupplyCart(w world.World, u *world.Unit, a SupplyCartAssignment) Outcome {
	act := newActor(w, u)

	if a.Battery == nil {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle)
	}

	state := seekLoad(u, FullLoad)
	if state == Seeking {
		if a.Supply == nil || a.Supply.Energy <= 0 {
			act.idleOffRoad(a.Rally)
			return act.finish(Idle)
		}
		act.procure(a.Supply)
		return act.finish(Seeking)
	}

	rangeToBattery := u.Pos.RangeTo(a.Battery.Pos)
	if rangeToBattery > approachRange {
		act.moveTo(a.Battery.Pos, world.MoveOptions{Range: 1})
		return act.finish(state)
	}
	if a.Battery.IsFull() {
		act.yieldRoad(a.Battery.Pos)
		return act.finish(state)
	}
	if rangeToBattery > 1 {
		act.moveTo(a.Battery.Pos, world.MoveOptions{Range: 1})
		return act.finish(state)
	}

	act.transfer(a.Battery)
	return act.finish(state)
}

// procure moves next to source and withdraws once there
func (a *actor) procure(source *world.Structure) error {
	if !a.u.Pos.IsNearTo(source.Pos) {
		a.moveTo(source.Pos, world.MoveOptions{Range: 1})
		return world.ErrNotInRange
	}
	return a.withdraw(source, 0)
}
