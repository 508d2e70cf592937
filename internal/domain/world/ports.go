package world

import (
	"errors"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Action results reported by an Actuator
var (
	ErrNotInRange          = errors.New("target not in range")
	ErrNotEnoughResources  = errors.New("not enough resources")
	ErrFull                = errors.New("target is full")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Query is the read side of the world. All results are snapshots valid for the
// current tick only.
type Query interface {
	// Tick returns the current simulation tick
	Tick() uint64

	// HasVision returns true if objects in the room can be observed
	HasVision(room string) bool

	// Controller returns the room's controller, if visible
	Controller(room string) (*Controller, bool)

	// Storage returns the room's storage structure, if any
	Storage(room string) (*Structure, bool)

	// Spawns returns the spawn structures in a room
	Spawns(room string) []*Structure

	// Sources returns the primary resource nodes in a room
	Sources(room string) []*Source

	// FindStructuresInRange returns structures within radius of pos, optionally filtered by type
	FindStructuresInRange(pos shared.Position, radius int, types ...StructureType) []*Structure

	// StructureAt returns the structure of the given type on a tile
	StructureAt(pos shared.Position, structureType StructureType) (*Structure, bool)

	// FindUnitsInRange returns live units within radius of pos
	FindUnitsInRange(pos shared.Position, radius int) []*Unit

	// LookupStructure resolves a structure id
	LookupStructure(id string) (*Structure, bool)

	// ConstructionSites returns pending construction in a room
	ConstructionSites(room string) []*ConstructionSite

	// ConstructionSiteAt returns the construction site on a tile
	ConstructionSiteAt(pos shared.Position) (*ConstructionSite, bool)

	// HostilesPresent returns true if hostile units are in the room
	HostilesPresent(room string) bool

	// OpenAdjacent returns walkable neighbours of pos; units are ignored when ignoreUnits is set
	OpenAdjacent(pos shared.Position, ignoreUnits bool) []shared.Position

	// RoomLinearDistance returns the number of rooms between a and b
	RoomLinearDistance(a, b string) int

	// Marker returns a named position placed by the operator
	Marker(name string) (shared.Position, bool)
}

// Actuator performs unit actions. Each method returns nil on success or one of
// the Err* values above. A Withdraw amount of 0 takes as much as fits.
type Actuator interface {
	Withdraw(u *Unit, target *Structure, amount int) error
	Transfer(u *Unit, target *Structure) error
	TransferToUnit(u *Unit, recipient *Unit) error
	Repair(u *Unit, target *Structure) error
	Upgrade(u *Unit, controller *Controller) error
	Build(u *Unit, site *ConstructionSite) error
	Retire(u *Unit) error
}

// Constructor places and removes structures
type Constructor interface {
	PlaceConstructionSite(pos shared.Position, structureType StructureType) error
	Destroy(s *Structure) error
}

// Path is the result of a path search
type Path struct {
	Positions  []shared.Position
	Length     int
	Incomplete bool
}

// MoveOptions tunes path search and movement
type MoveOptions struct {
	// Range stops the path this many tiles short of the target
	Range int

	// OffRoad ignores road preference
	OffRoad bool

	// Avoid lists tiles the path must not cross
	Avoid []shared.Position

	// StuckValue is the number of blocked ticks before a repath
	StuckValue int
}

// MoveResult reports what happened to a unit after one movement step
type MoveResult struct {
	NextPos shared.Position
	Arrived bool
	Stuck   bool
}

// Pathfinder is the travel collaborator. Its algorithms are opaque to missions.
type Pathfinder interface {
	FindPath(from, to shared.Position, opts MoveOptions) (Path, error)
	MoveToward(u *Unit, target shared.Position, opts MoveOptions) MoveResult
}

// SpawnRequest asks a spawn group for a new unit
type SpawnRequest struct {
	Namespace string
	Role      string
	Name      string
	Body      Body
	Memory    UnitMemory
	LeadTime  int
}

// SpawnGroup is the spawn-queue collaborator for one spawning room
type SpawnGroup interface {
	// Room returns the room the spawns are in
	Room() string

	// Position returns the position of the group's primary spawn
	Position() shared.Position

	// MaxSpawnEnergy returns the largest body cost the group can afford
	MaxSpawnEnergy() int

	// Submit queues a spawn request
	Submit(req SpawnRequest) error

	// Live returns units tagged with the namespace and role, including ones still spawning
	Live(namespace, role string) []*Unit

	// Queued returns the number of pending requests for the namespace and role
	Queued(namespace, role string) int

	// Reassign changes the role tag of a live unit
	Reassign(u *Unit, role string)
}

// World bundles every collaborator a mission talks to
type World interface {
	Query
	Actuator
	Constructor
	Pathfinder
}
