package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// PaverAssignment is what a paver needs to know this tick
type PaverAssignment struct {
	// RoadRepairIDs lists the roads recorded as damaged by the last paving pass
	RoadRepairIDs []string

	// RoadSites lists tiles where the last paving pass placed road sites
	RoadSites []shared.Position

	Supply *world.Structure
	Rally  shared.Position
}

// Paver repairs the recorded roads in order, then builds the recorded road
// sites, refilling from Supply when empty
func Paver(w world.World, u *world.Unit, a PaverAssignment) Outcome {
	act := newActor(w, u)

	road := nextDamagedRoad(w, a.RoadRepairIDs)
	site := nextRoadSite(w, a.RoadSites)
	if road == nil && site == nil {
		act.idleOffRoad(a.Rally)
		return act.finish(Idle)
	}

	state := seekLoad(u, QuarterRefill(u.CarryCapacity()))
	if state == Seeking {
		if a.Supply == nil || a.Supply.Energy <= 0 {
			act.idleOffRoad(a.Rally)
			return act.finish(Idle)
		}
		act.procure(a.Supply)
		return act.finish(state)
	}

	if road != nil {
		if u.Pos.InRangeTo(road.Pos, WorkRange) {
			act.repair(road)
		} else {
			act.moveTo(road.Pos, world.MoveOptions{Range: WorkRange})
		}
		return act.finish(state)
	}

	if u.Pos.InRangeTo(site.Pos, WorkRange) {
		act.build(site)
	} else {
		act.moveTo(site.Pos, world.MoveOptions{Range: WorkRange})
	}
	return act.finish(state)
}

func nextRoadSite(w world.Query, tiles []shared.Position) *world.ConstructionSite {
	for _, pos := range tiles {
		if site, ok := w.ConstructionSiteAt(pos); ok && site.Type == world.StructureRoad {
			return site
		}
	}
	return nil
}

// nextDamagedRoad returns the first listed road that still resolves and is below full health
func nextDamagedRoad(w world.Query, ids []string) *world.Structure {
	for _, id := range ids {
		road, ok := w.LookupStructure(id)
		if !ok {
			continue
		}
		if road.Hits < road.HitsMax {
			return road
		}
	}
	return nil
}
