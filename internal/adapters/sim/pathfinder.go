package sim

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// roomTransitTicks is how long crossing one room takes
const roomTransitTicks = shared.RoomSize

// transit tracks a unit travelling between rooms
type transit struct {
	target    shared.Position
	remaining int
}

// FindPath walks a straight line from one tile toward another, stopping
// opts.Range tiles short. Paths across rooms are estimated from the room
// distance and carry no positions.
func (w *World) FindPath(from, to shared.Position, opts world.MoveOptions) (world.Path, error) {
	if from.Room != to.Room {
		rooms := roomLinearDistance(from.Room, to.Room)
		return world.Path{Length: rooms * roomTransitTicks, Incomplete: true}, nil
	}

	var path world.Path
	current := from
	for current.RangeTo(to) > opts.Range {
		next := w.stepAround(current, to, opts.Avoid)
		if next == current {
			path.Incomplete = true
			break
		}
		path.Positions = append(path.Positions, next)
		current = next
	}
	path.Length = len(path.Positions)
	return path, nil
}

// MoveToward advances a unit one tile toward target, or one tick of room
// transit when target is in another room
func (w *World) MoveToward(u *world.Unit, target shared.Position, opts world.MoveOptions) world.MoveResult {
	if u.Spawning || u.Body.Move == 0 {
		return world.MoveResult{NextPos: u.Pos, Stuck: true}
	}

	if u.Pos.Room != target.Room {
		t, ok := w.transit[u.ID]
		if !ok || t.target.Room != target.Room {
			t = &transit{target: target, remaining: roomLinearDistance(u.Pos.Room, target.Room) * roomTransitTicks}
			w.transit[u.ID] = t
		}
		t.remaining--
		if t.remaining > 0 {
			return world.MoveResult{NextPos: u.Pos}
		}
		delete(w.transit, u.ID)
		u.Pos = w.entryTile(target)
		return world.MoveResult{NextPos: u.Pos, Arrived: u.Pos.InRangeTo(target, opts.Range)}
	}

	if u.Pos.InRangeTo(target, opts.Range) {
		return world.MoveResult{NextPos: u.Pos, Arrived: true}
	}

	next := w.stepAround(u.Pos, target, opts.Avoid)
	if next == u.Pos {
		return world.MoveResult{NextPos: u.Pos, Stuck: true}
	}
	u.Pos = next
	return world.MoveResult{NextPos: next, Arrived: next.InRangeTo(target, opts.Range)}
}

// stepAround returns the walkable neighbour that gets closest to target,
// preferring the direct step
func (w *World) stepAround(from, target shared.Position, avoid []shared.Position) shared.Position {
	direct := from.StepToward(target)
	if w.walkable(direct) && !contains(avoid, direct) {
		return direct
	}

	best := from
	bestRange := from.RangeTo(target)
	for _, tile := range from.Adjacent() {
		if !w.walkable(tile) || contains(avoid, tile) {
			continue
		}
		if r := tile.RangeTo(target); r < bestRange {
			best, bestRange = tile, r
		}
	}
	return best
}

// entryTile is where a unit arriving in target's room appears
func (w *World) entryTile(target shared.Position) shared.Position {
	entry := shared.NewPosition(target.Room, target.X, 1)
	if w.walkable(entry) {
		return entry
	}
	for _, tile := range entry.Adjacent() {
		if w.walkable(tile) {
			return tile
		}
	}
	return target
}

func contains(list []shared.Position, p shared.Position) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}
