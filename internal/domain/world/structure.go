package world

import "github.com/andrescamacho/colony-go/internal/domain/shared"

// StructureType identifies the kind of a structure
type StructureType string

const (
	StructureContainer StructureType = "container"
	StructureStorage   StructureType = "storage"
	StructureLink      StructureType = "link"
	StructureSpawn     StructureType = "spawn"
	StructureRoad      StructureType = "road"
)

// LinkCapacity is the energy a link moves per transfer
const LinkCapacity = 800

// IsWalkable returns true if units may stand on structures of this type
func (t StructureType) IsWalkable() bool {
	return t == StructureRoad || t == StructureContainer
}

// Structure is a snapshot of a built structure. Energy fields are zero for
// structures that do not store resources.
type Structure struct {
	ID             string
	Type           StructureType
	Pos            shared.Position
	Hits           int
	HitsMax        int
	Energy         int
	EnergyCapacity int
}

// HealthRatio returns hits as a fraction of hitsMax (1 when indestructible)
func (s *Structure) HealthRatio() float64 {
	if s.HitsMax <= 0 {
		return 1
	}
	return float64(s.Hits) / float64(s.HitsMax)
}

// NeedsRepair returns true when health is below the given fraction of maximum
func (s *Structure) NeedsRepair(threshold float64) bool {
	return s.HitsMax > 0 && s.HealthRatio() < threshold
}

// IsFull returns true when the structure cannot accept more energy
func (s *Structure) IsFull() bool {
	return s.EnergyCapacity > 0 && s.Energy >= s.EnergyCapacity
}

// FreeCapacity returns how much more energy the structure accepts
func (s *Structure) FreeCapacity() int {
	free := s.EnergyCapacity - s.Energy
	if free < 0 {
		return 0
	}
	return free
}

// Controller is the growth entity of a room, advanced by upgrading
type Controller struct {
	ID            string
	Pos           shared.Position
	Level         int
	Progress      int
	ProgressTotal int
}

// MaxControllerLevel is the final controller tier
const MaxControllerLevel = 8

// AtMaxLevel returns true once the controller cannot grow further
func (c *Controller) AtMaxLevel() bool {
	return c.Level >= MaxControllerLevel
}

// Source is a regenerating primary resource node
type Source struct {
	ID             string
	Pos            shared.Position
	Energy         int
	EnergyCapacity int
}

// ConstructionSite is a pending structure
type ConstructionSite struct {
	ID            string
	Type          StructureType
	Pos           shared.Position
	Progress      int
	ProgressTotal int
}
