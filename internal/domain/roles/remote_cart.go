package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	// InboundIdleThreshold is the energy headed to a container above which full carts wait
	InboundIdleThreshold = 1200

	deliverApproachRange = 5
	cartIdleRange        = 4
)

// Inbound accumulates the energy known to be headed for a container during
// one tick. It starts at the container's own energy the first time a cart
// arrives and is discarded with the rest of the tick's state.
type Inbound struct {
	Energy      int
	Initialized bool
}

// RemoteCartAssignment is what a remote cart needs to know this tick
type RemoteCartAssignment struct {
	Source    *world.Structure
	Container *world.Structure

	// Builder receives energy while the container is still a construction site
	Builder *world.Unit

	Inbound *Inbound

	// Distance is the source-to-target path length
	Distance int

	// RetirementMargin is added to the round trip when deciding to retire
	RetirementMargin int

	Rally shared.Position
}

// RemoteCart carries energy to a remote container, or to the first builder
// before the container exists. A cart that empties itself with too little
// lifetime left for another round trip retires.
func RemoteCart(w world.World, u *world.Unit, a RemoteCartAssignment) Outcome {
	act := newActor(w, u)

	state := seekLoad(u, FullLoad)
	if state == Seeking {
		if a.Source == nil {
			act.idleOffRoad(a.Rally)
			return act.finish(Idle)
		}
		if act.procure(a.Source) == nil && a.Container != nil {
			act.moveTo(a.Container.Pos, world.MoveOptions{Range: 1})
		}
		return act.finish(state)
	}

	if a.Container != nil {
		if u.Pos.RangeTo(a.Container.Pos) > deliverApproachRange {
			act.moveTo(a.Container.Pos, world.MoveOptions{Range: 1})
			return act.finish(state)
		}

		if a.Inbound != nil {
			if !a.Inbound.Initialized {
				a.Inbound.Energy = a.Container.Energy
				a.Inbound.Initialized = true
			}
			if u.IsFull() && a.Inbound.Energy > InboundIdleThreshold {
				act.idleNear(a.Container.Pos, cartIdleRange)
				return act.finish(state)
			}
			a.Inbound.Energy += u.Carried
		}

		space := a.Container.FreeCapacity()
		if !u.Pos.IsNearTo(a.Container.Pos) {
			act.moveTo(a.Container.Pos, world.MoveOptions{Range: 1})
			return act.finish(state)
		}
		carried := u.Carried
		if act.transfer(a.Container) == nil {
			act.afterDelivery(carried, space, a)
		}
		return act.finish(state)
	}

	if a.Builder == nil {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle)
	}

	space := a.Builder.FreeCapacity()
	if !u.Pos.IsNearTo(a.Builder.Pos) {
		act.moveTo(a.Builder.Pos, world.MoveOptions{Range: 1})
		return act.finish(state)
	}
	carried := u.Carried
	if act.transferToUnit(a.Builder) == nil {
		act.afterDelivery(carried, space, a)
	}
	return act.finish(state)
}

// afterDelivery retires or returns a cart that emptied itself into the drop off
func (a *actor) afterDelivery(carried, space int, assignment RemoteCartAssignment) {
	if carried >= space {
		return
	}
	if a.u.TicksToLive < assignment.Distance*2+assignment.RetirementMargin {
		a.retire()
		return
	}
	if assignment.Source != nil {
		a.moveTo(assignment.Source.Pos, world.MoveOptions{Range: 1})
	}
}
