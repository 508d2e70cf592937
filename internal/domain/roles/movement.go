package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// idleRange is how close to its anchor an idle unit parks
const idleRange = 3

func (a *actor) onRoad() bool {
	_, ok := a.w.StructureAt(a.u.Pos, world.StructureRoad)
	return ok
}

// offRoadSpot returns an open tile next to the unit without a road, preferring
// tiles within keepRange of anchor when keepRange > 0
func (a *actor) offRoadSpot(anchor shared.Position, keepRange int) (shared.Position, bool) {
	for _, tile := range a.w.OpenAdjacent(a.u.Pos, false) {
		if _, road := a.w.StructureAt(tile, world.StructureRoad); road {
			continue
		}
		if keepRange > 0 && !tile.InRangeTo(anchor, keepRange) {
			continue
		}
		return tile, true
	}
	return shared.Position{}, false
}

// idleOffRoad parks the unit near anchor on a tile that is not a road
func (a *actor) idleOffRoad(anchor shared.Position) {
	if !anchor.IsZero() && !a.u.Pos.InRangeTo(anchor, idleRange) {
		a.moveTo(anchor, world.MoveOptions{Range: idleRange})
		return
	}
	if !a.onRoad() {
		return
	}
	if spot, ok := a.offRoadSpot(anchor, 0); ok {
		a.moveTo(spot, world.MoveOptions{OffRoad: true})
	}
}

// idleNear keeps the unit within r of target and off the roads
func (a *actor) idleNear(target shared.Position, r int) {
	if !a.u.Pos.InRangeTo(target, r) {
		a.moveTo(target, world.MoveOptions{Range: r})
		return
	}
	if !a.onRoad() {
		return
	}
	if spot, ok := a.offRoadSpot(target, r); ok {
		a.moveTo(spot, world.MoveOptions{OffRoad: true})
	}
}

// yieldRoad steps off a road while staying in working range of target
func (a *actor) yieldRoad(target shared.Position) {
	if !a.onRoad() {
		return
	}
	if spot, ok := a.offRoadSpot(target, idleRange); ok {
		a.moveTo(spot, world.MoveOptions{OffRoad: true})
	}
}

// seekLoad classifies the unit, stores the result in its memory and returns it
func seekLoad(u *world.Unit, t Thresholds) LoadState {
	prev := Seeking
	if u.Memory.HasLoad {
		prev = Delivering
	}
	state := Classify(prev, u.Carried, u.CarryCapacity(), t)
	u.Memory.HasLoad = state == Delivering
	return state
}
