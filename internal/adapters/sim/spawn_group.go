package sim

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const defaultQueueLimit = 20

// SpawnGroup is a FIFO spawn queue served by the spawns of one room
type SpawnGroup struct {
	w          *World
	room       string
	maxEnergy  int
	queueLimit int
	queue      []world.SpawnRequest
	busy       map[string]*world.Unit // spawn id -> unit being spawned
	submitted  int
}

func newSpawnGroup(w *World, spec SpawnGroupSpec) (*SpawnGroup, error) {
	if len(w.Spawns(spec.Room)) == 0 {
		return nil, fmt.Errorf("spawn group %s has no spawns", spec.Room)
	}
	limit := spec.QueueLimit
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	return &SpawnGroup{
		w:          w,
		room:       spec.Room,
		maxEnergy:  spec.MaxSpawnEnergy,
		queueLimit: limit,
		busy:       make(map[string]*world.Unit),
	}, nil
}

func (g *SpawnGroup) Room() string {
	return g.room
}

func (g *SpawnGroup) Position() shared.Position {
	spawns := g.w.Spawns(g.room)
	if len(spawns) == 0 {
		return shared.Position{}
	}
	return spawns[0].Pos
}

func (g *SpawnGroup) MaxSpawnEnergy() int {
	return g.maxEnergy
}

// Submit queues a request. A full queue reports CapacityExceededError.
func (g *SpawnGroup) Submit(req world.SpawnRequest) error {
	if err := req.Body.Validate(); err != nil {
		return fmt.Errorf("spawn request %s: %w", req.Name, err)
	}
	if req.Body.Cost() > g.maxEnergy {
		return fmt.Errorf("spawn request %s: body %s costs %d, max is %d", req.Name, req.Body, req.Body.Cost(), g.maxEnergy)
	}
	if len(g.queue) >= g.queueLimit {
		return shared.NewCapacityExceededError(req.Role, g.queueLimit)
	}
	g.queue = append(g.queue, req)
	g.submitted++
	return nil
}

func (g *SpawnGroup) Live(namespace, role string) []*world.Unit {
	var out []*world.Unit
	for _, u := range g.w.Units() {
		if u.Memory.Namespace == namespace && u.Memory.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (g *SpawnGroup) Queued(namespace, role string) int {
	count := 0
	for _, req := range g.queue {
		if req.Namespace == namespace && req.Role == role {
			count++
		}
	}
	return count
}

func (g *SpawnGroup) Reassign(u *world.Unit, role string) {
	u.Memory.Role = role
}

// Submitted returns the number of accepted requests since creation
func (g *SpawnGroup) Submitted() int {
	return g.submitted
}

// QueueLength returns the number of pending requests
func (g *SpawnGroup) QueueLength() int {
	return len(g.queue)
}

// step finishes spawns whose time is up and starts the next queued requests
// on idle spawns
func (g *SpawnGroup) step() {
	spawns := g.w.Spawns(g.room)
	for _, spawn := range spawns {
		u, busy := g.busy[spawn.ID]
		if !busy {
			continue
		}
		u.TicksToLive--
		if u.TicksToLive > world.UnitLifetime {
			continue
		}
		u.Spawning = false
		u.Pos = g.exitTile(u.Pos)
		delete(g.busy, spawn.ID)
		g.w.stats.SpawnsCompleted++
	}

	for _, spawn := range spawns {
		if len(g.queue) == 0 {
			return
		}
		if _, busy := g.busy[spawn.ID]; busy {
			continue
		}
		req := g.queue[0]
		g.queue = g.queue[1:]

		u := &world.Unit{
			ID:   g.w.newID("unit"),
			Name: req.Name,
			Body: req.Body,
			Pos:  spawn.Pos,
			// lifetime starts counting once spawning completes
			TicksToLive: world.UnitLifetime + req.Body.SpawnDuration(),
			Spawning:    true,
			Memory:      req.Memory,
		}
		g.w.units[u.ID] = u
		g.busy[spawn.ID] = u
	}
}

func (g *SpawnGroup) exitTile(spawnPos shared.Position) shared.Position {
	if open := g.w.OpenAdjacent(spawnPos, false); len(open) > 0 {
		return open[0]
	}
	if open := g.w.OpenAdjacent(spawnPos, true); len(open) > 0 {
		return open[0]
	}
	return spawnPos
}
