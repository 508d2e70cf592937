package roles

import (
	"math"

	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// BuilderAssignment is what a remote builder needs to know this tick
type BuilderAssignment struct {
	Site *world.ConstructionSite

	// Group reassigns the builder once construction is finished
	Group world.SpawnGroup

	// NextRole is the role a builder takes over when the site is gone
	NextRole string
}

// Builder builds the container site, first making sure the tile it stands on
// has a healthy road. With no site left it takes over NextRole.
func Builder(w world.World, u *world.Unit, a BuilderAssignment) Outcome {
	act := newActor(w, u)

	if a.Site == nil {
		if a.Group != nil && a.NextRole != "" {
			a.Group.Reassign(u, a.NextRole)
			act.record(ActionReassign, a.NextRole, u.Pos, nil)
		}
		return act.finish(Idle)
	}

	opts := world.MoveOptions{OffRoad: true, StuckValue: math.MaxInt32}
	if u.Pos.IsNearExit(0) {
		act.moveTo(a.Site.Pos, opts)
		return act.finish(Delivering)
	}

	road, ok := w.StructureAt(u.Pos, world.StructureRoad)
	if !ok {
		if site, found := w.ConstructionSiteAt(u.Pos); found {
			act.build(site)
		} else {
			act.placeSite(u.Pos, world.StructureRoad)
		}
		return act.finish(Delivering)
	}

	if road.Hits < road.HitsMax {
		act.repair(road)
		return act.finish(Delivering)
	}

	if u.Pos.IsNearTo(a.Site.Pos) {
		act.build(a.Site)
	} else {
		act.moveTo(a.Site.Pos, opts)
	}
	return act.finish(Delivering)
}
