package sim

import (
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	decayInterval       = 100
	containerDecay      = 5000
	roadDecay           = 100
	sourceRegenInterval = 300
)

// Step advances the world by one tick: lifetimes run down, spawn queues are
// served, rooms collect income and structures decay
func (w *World) Step() {
	w.tick++

	for _, u := range w.Units() {
		if u.Spawning {
			continue
		}
		u.TicksToLive--
		if u.TicksToLive <= 0 {
			delete(w.units, u.ID)
			delete(w.transit, u.ID)
			w.stats.UnitsExpired++
		}
	}

	for _, name := range w.roomNames() {
		if g, ok := w.groups[name]; ok {
			g.step()
		}
		w.collectIncome(w.rooms[name])
	}

	if w.tick%sourceRegenInterval == 0 {
		for _, r := range w.rooms {
			for _, s := range r.sources {
				s.Energy = s.EnergyCapacity
			}
		}
	}

	if w.tick%decayInterval == 0 {
		w.decay()
	}
}

func (w *World) collectIncome(r *room) {
	if r.income <= 0 {
		return
	}
	for _, s := range w.sortedStructures() {
		if s.Type == world.StructureStorage && s.Pos.Room == r.name {
			s.Energy += min(r.income, s.FreeCapacity())
			return
		}
	}
	for _, s := range w.sortedStructures() {
		if s.Type == world.StructureContainer && s.Pos.Room == r.name && !s.IsFull() {
			s.Energy += min(r.income, s.FreeCapacity())
			return
		}
	}
}

func (w *World) decay() {
	for _, s := range w.sortedStructures() {
		switch s.Type {
		case world.StructureContainer:
			s.Hits -= containerDecay
		case world.StructureRoad:
			s.Hits -= roadDecay
		default:
			continue
		}
		if s.Hits <= 0 {
			delete(w.structures, s.ID)
		}
	}
}

func (w *World) roomNames() []string {
	names := make([]string, 0, len(w.rooms))
	for name := range w.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RoomSnapshot is a summary of one room for telemetry
type RoomSnapshot struct {
	Room               string
	ControllerLevel    int
	ControllerProgress int
	StorageEnergy      int
	Units              int
	Sites              int
}

// Snapshot summarises every room
func (w *World) Snapshot() []RoomSnapshot {
	var out []RoomSnapshot
	for _, name := range w.roomNames() {
		r := w.rooms[name]
		snap := RoomSnapshot{Room: name, Sites: len(w.ConstructionSites(name))}
		if r.controller != nil {
			snap.ControllerLevel = r.controller.Level
			snap.ControllerProgress = r.controller.Progress
		}
		if storage, ok := w.Storage(name); ok {
			snap.StorageEnergy = storage.Energy
		}
		for _, u := range w.units {
			if u.Pos.Room == name {
				snap.Units++
			}
		}
		out = append(out, snap)
	}
	return out
}

// compile-time check
var _ world.World = (*World)(nil)
var _ world.SpawnGroup = (*SpawnGroup)(nil)
