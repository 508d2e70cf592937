package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// InfluxCartAssignment is what a long-range influx cart needs to know this tick
type InfluxCartAssignment struct {
	// Destination is the storage of the room being fed
	Destination *world.Structure

	Rally shared.Position
}

// InfluxCart hauls energy from the storage named by its OriginID memory into
// Destination. A missing origin idles the unit and is reported as a
// TransientQueryFailure.
func InfluxCart(w world.World, u *world.Unit, a InfluxCartAssignment) (Outcome, error) {
	act := newActor(w, u)

	origin, ok := w.LookupStructure(u.Memory.OriginID)
	if !ok {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle), shared.NewTransientQueryFailure(u.Memory.OriginID)
	}
	if a.Destination == nil {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle), nil
	}

	state := seekLoad(u, FullLoad)
	if state == Seeking {
		if u.Pos.IsNearTo(origin.Pos) {
			act.withdraw(origin, 0)
			act.moveTo(a.Destination.Pos, world.MoveOptions{Range: 1})
		} else {
			act.moveTo(origin.Pos, world.MoveOptions{Range: 1, OffRoad: true})
		}
		return act.finish(state), nil
	}

	if u.Pos.IsNearTo(a.Destination.Pos) {
		act.transfer(a.Destination)
		act.moveTo(origin.Pos, world.MoveOptions{Range: 1})
	} else {
		act.moveTo(a.Destination.Pos, world.MoveOptions{Range: 1})
	}
	return act.finish(state), nil
}
