package sim

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// Structure defaults per type
var (
	hitsMaxByType = map[world.StructureType]int{
		world.StructureContainer: 250000,
		world.StructureStorage:   10000,
		world.StructureLink:      1000,
		world.StructureSpawn:     5000,
		world.StructureRoad:      5000,
	}
	energyCapacityByType = map[world.StructureType]int{
		world.StructureContainer: 2000,
		world.StructureStorage:   1000000,
		world.StructureLink:      world.LinkCapacity,
		world.StructureSpawn:     300,
	}
	buildCostByType = map[world.StructureType]int{
		world.StructureContainer: 5000,
		world.StructureStorage:   30000,
		world.StructureLink:      5000,
		world.StructureSpawn:     15000,
		world.StructureRoad:      300,
	}
	// controllerProgressTotal[level] is the progress needed to leave level
	controllerProgressTotal = map[int]int{
		1: 200, 2: 45000, 3: 135000, 4: 405000, 5: 1215000, 6: 3645000, 7: 10935000,
	}
)

type room struct {
	name       string
	vision     bool
	hostiles   int
	income     int
	controller *world.Controller
	sources    []*world.Source
}

// World is an in-memory, single-threaded world implementing every
// collaborator port the missions use
type World struct {
	tick       uint64
	rooms      map[string]*room
	structures map[string]*world.Structure
	sites      map[string]*world.ConstructionSite
	units      map[string]*world.Unit
	walls      map[shared.Position]bool
	markers    map[string]shared.Position
	groups     map[string]*SpawnGroup
	transit    map[string]*transit
	nextID     int
	stats      Stats
}

// Stats are cumulative counters over the life of the world
type Stats struct {
	SpawnsCompleted int
	UnitsExpired    int
	UnitsRetired    int
	EnergyUpgraded  int
	SitesCompleted  int
}

// NewWorld builds a world from a scenario
func NewWorld(sc *Scenario) (*World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		tick:       sc.Tick,
		rooms:      make(map[string]*room),
		structures: make(map[string]*world.Structure),
		sites:      make(map[string]*world.ConstructionSite),
		units:      make(map[string]*world.Unit),
		walls:      make(map[shared.Position]bool),
		markers:    make(map[string]shared.Position),
		groups:     make(map[string]*SpawnGroup),
		transit:    make(map[string]*transit),
	}

	for _, spec := range sc.Rooms {
		if err := w.addRoom(spec); err != nil {
			return nil, err
		}
	}
	for name, m := range sc.Markers {
		w.markers[name] = shared.NewPosition(m.Room, m.X, m.Y)
	}
	for _, g := range sc.SpawnGroups {
		group, err := newSpawnGroup(w, g)
		if err != nil {
			return nil, err
		}
		w.groups[g.Room] = group
	}
	return w, nil
}

func (w *World) addRoom(spec RoomSpec) error {
	r := &room{name: spec.Name, vision: true, hostiles: spec.Hostiles, income: spec.Income}
	if spec.Vision != nil {
		r.vision = *spec.Vision
	}
	w.rooms[spec.Name] = r

	for _, xy := range spec.Walls {
		w.walls[shared.NewPosition(spec.Name, xy[0], xy[1])] = true
	}
	if c := spec.Controller; c != nil {
		level := c.Level
		if level <= 0 {
			level = 1
		}
		r.controller = &world.Controller{
			ID:            w.newID("controller"),
			Pos:           shared.NewPosition(spec.Name, c.X, c.Y),
			Level:         level,
			Progress:      c.Progress,
			ProgressTotal: controllerProgressTotal[level],
		}
	}
	for _, s := range spec.Sources {
		energy := s.Energy
		if energy == 0 {
			energy = 3000
		}
		r.sources = append(r.sources, &world.Source{
			ID:             w.newID("source"),
			Pos:            shared.NewPosition(spec.Name, s.X, s.Y),
			Energy:         energy,
			EnergyCapacity: 3000,
		})
	}
	if spec.Storage != nil {
		st := *spec.Storage
		st.Type = string(world.StructureStorage)
		w.addStructure(spec.Name, st)
	}
	for _, p := range spec.Spawns {
		w.addStructure(spec.Name, StructureSpec{Type: string(world.StructureSpawn), X: p.X, Y: p.Y})
	}
	for _, st := range spec.Structures {
		if _, ok := hitsMaxByType[world.StructureType(st.Type)]; !ok {
			return fmt.Errorf("room %s: unknown structure type %q", spec.Name, st.Type)
		}
		w.addStructure(spec.Name, st)
	}
	for _, st := range spec.Sites {
		pos := shared.NewPosition(spec.Name, st.X, st.Y)
		if err := w.PlaceConstructionSite(pos, world.StructureType(st.Type)); err != nil {
			return fmt.Errorf("room %s: site at %s: %w", spec.Name, pos, err)
		}
	}
	for _, u := range spec.Units {
		w.addUnit(spec.Name, u)
	}
	return nil
}

func (w *World) addStructure(roomName string, spec StructureSpec) *world.Structure {
	t := world.StructureType(spec.Type)
	s := &world.Structure{
		ID:             w.newID(spec.Type),
		Type:           t,
		Pos:            shared.NewPosition(roomName, spec.X, spec.Y),
		Hits:           spec.Hits,
		HitsMax:        spec.HitsMax,
		Energy:         spec.Energy,
		EnergyCapacity: energyCapacityByType[t],
	}
	if s.HitsMax == 0 {
		s.HitsMax = hitsMaxByType[t]
	}
	if s.Hits == 0 {
		s.Hits = s.HitsMax
	}
	w.structures[s.ID] = s
	return s
}

func (w *World) addUnit(roomName string, spec UnitSpec) *world.Unit {
	ttl := spec.TTL
	if ttl == 0 {
		ttl = world.UnitLifetime
	}
	u := &world.Unit{
		ID:          w.newID("unit"),
		Name:        spec.Name,
		Body:        world.Body{Work: spec.Work, Carry: spec.Carry, Move: spec.Move},
		Pos:         shared.NewPosition(roomName, spec.X, spec.Y),
		Carried:     spec.Carried,
		TicksToLive: ttl,
		Memory: world.UnitMemory{
			Role:      spec.Role,
			Namespace: spec.Namespace,
			OriginID:  spec.OriginID,
		},
	}
	w.units[u.ID] = u
	return u
}

func (w *World) newID(kind string) string {
	w.nextID++
	return fmt.Sprintf("%s-%04d", kind, w.nextID)
}

// SpawnGroup returns the spawn group of a room
func (w *World) SpawnGroup(roomName string) (*SpawnGroup, bool) {
	g, ok := w.groups[roomName]
	return g, ok
}

// SpawnGroups returns every spawn group ordered by room
func (w *World) SpawnGroups() []*SpawnGroup {
	groups := make([]*SpawnGroup, 0, len(w.groups))
	for _, name := range w.roomNames() {
		if g, ok := w.groups[name]; ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// Stats returns the cumulative counters
func (w *World) Stats() Stats {
	return w.stats
}

// SetHostiles changes the hostile count of a room
func (w *World) SetHostiles(roomName string, count int) {
	if r, ok := w.rooms[roomName]; ok {
		r.hostiles = count
	}
}

// SetVision toggles observation of a room
func (w *World) SetVision(roomName string, vision bool) {
	if r, ok := w.rooms[roomName]; ok {
		r.vision = vision
	}
}

// AddStructure places a finished structure, bypassing construction
func (w *World) AddStructure(pos shared.Position, t world.StructureType, energy int) *world.Structure {
	return w.addStructure(pos.Room, StructureSpec{Type: string(t), X: pos.X, Y: pos.Y, Energy: energy})
}

// AddUnit places a live unit
func (w *World) AddUnit(pos shared.Position, spec UnitSpec) *world.Unit {
	spec.X, spec.Y = pos.X, pos.Y
	return w.addUnit(pos.Room, spec)
}

// Units returns every live unit ordered by id
func (w *World) Units() []*world.Unit {
	out := make([]*world.Unit, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, u)
	}
	sortUnits(out)
	return out
}

// Query

func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) HasVision(roomName string) bool {
	r, ok := w.rooms[roomName]
	return ok && r.vision
}

func (w *World) Controller(roomName string) (*world.Controller, bool) {
	r, ok := w.rooms[roomName]
	if !ok || !r.vision || r.controller == nil {
		return nil, false
	}
	return r.controller, true
}

func (w *World) Storage(roomName string) (*world.Structure, bool) {
	if !w.HasVision(roomName) {
		return nil, false
	}
	for _, s := range w.sortedStructures() {
		if s.Type == world.StructureStorage && s.Pos.Room == roomName {
			return s, true
		}
	}
	return nil, false
}

func (w *World) Spawns(roomName string) []*world.Structure {
	var out []*world.Structure
	for _, s := range w.sortedStructures() {
		if s.Type == world.StructureSpawn && s.Pos.Room == roomName {
			out = append(out, s)
		}
	}
	return out
}

func (w *World) Sources(roomName string) []*world.Source {
	r, ok := w.rooms[roomName]
	if !ok || !r.vision {
		return nil
	}
	return r.sources
}

func (w *World) FindStructuresInRange(pos shared.Position, radius int, types ...world.StructureType) []*world.Structure {
	var out []*world.Structure
	for _, s := range w.sortedStructures() {
		if !s.Pos.InRangeTo(pos, radius) || !matchesType(s.Type, types) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (w *World) StructureAt(pos shared.Position, t world.StructureType) (*world.Structure, bool) {
	for _, s := range w.sortedStructures() {
		if s.Pos == pos && s.Type == t {
			return s, true
		}
	}
	return nil, false
}

func (w *World) FindUnitsInRange(pos shared.Position, radius int) []*world.Unit {
	var out []*world.Unit
	for _, u := range w.Units() {
		if u.Pos.InRangeTo(pos, radius) {
			out = append(out, u)
		}
	}
	return out
}

func (w *World) LookupStructure(id string) (*world.Structure, bool) {
	s, ok := w.structures[id]
	return s, ok
}

func (w *World) ConstructionSites(roomName string) []*world.ConstructionSite {
	var out []*world.ConstructionSite
	for _, site := range w.sortedSites() {
		if site.Pos.Room == roomName {
			out = append(out, site)
		}
	}
	return out
}

func (w *World) ConstructionSiteAt(pos shared.Position) (*world.ConstructionSite, bool) {
	for _, site := range w.sortedSites() {
		if site.Pos == pos {
			return site, true
		}
	}
	return nil, false
}

func (w *World) HostilesPresent(roomName string) bool {
	r, ok := w.rooms[roomName]
	return ok && r.hostiles > 0
}

func (w *World) OpenAdjacent(pos shared.Position, ignoreUnits bool) []shared.Position {
	var out []shared.Position
	for _, tile := range pos.Adjacent() {
		if !w.walkable(tile) {
			continue
		}
		if !ignoreUnits && w.occupied(tile) {
			continue
		}
		out = append(out, tile)
	}
	return out
}

func (w *World) RoomLinearDistance(a, b string) int {
	return roomLinearDistance(a, b)
}

func (w *World) Marker(name string) (shared.Position, bool) {
	p, ok := w.markers[name]
	return p, ok
}

func (w *World) walkable(pos shared.Position) bool {
	if w.walls[pos] {
		return false
	}
	if r, ok := w.rooms[pos.Room]; ok && r.controller != nil && r.controller.Pos == pos {
		return false
	}
	for _, s := range w.structures {
		if s.Pos == pos && !s.Type.IsWalkable() {
			return false
		}
	}
	return true
}

func (w *World) occupied(pos shared.Position) bool {
	for _, u := range w.units {
		if u.Pos == pos && !u.Spawning {
			return true
		}
	}
	return false
}

func (w *World) sortedStructures() []*world.Structure {
	out := make([]*world.Structure, 0, len(w.structures))
	for _, s := range w.structures {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) sortedSites() []*world.ConstructionSite {
	out := make([]*world.ConstructionSite, 0, len(w.sites))
	for _, s := range w.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortUnits(units []*world.Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
}

func matchesType(t world.StructureType, types []world.StructureType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
