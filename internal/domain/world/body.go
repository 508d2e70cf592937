package world

import "fmt"

// Body part costs and limits
const (
	WorkPartCost  = 100
	CarryPartCost = 50
	MovePartCost  = 50

	// CarryCapacityPerPart is the resource amount one carry part holds
	CarryCapacityPerPart = 50

	// MaxBodyParts is the largest body a spawn can produce
	MaxBodyParts = 50

	// SpawnTicksPerPart is the spawn duration contributed by each part
	SpawnTicksPerPart = 3

	// UnitLifetime is the number of ticks a freshly spawned unit lives
	UnitLifetime = 1500
)

// Body is the part composition of a worker unit
type Body struct {
	Work  int `json:"work" yaml:"work"`
	Carry int `json:"carry" yaml:"carry"`
	Move  int `json:"move" yaml:"move"`
}

// Size returns the total number of parts
func (b Body) Size() int {
	return b.Work + b.Carry + b.Move
}

// Cost returns the energy required to spawn the body
func (b Body) Cost() int {
	return b.Work*WorkPartCost + b.Carry*CarryPartCost + b.Move*MovePartCost
}

// Capacity returns how much resource the body can carry
func (b Body) Capacity() int {
	return b.Carry * CarryCapacityPerPart
}

// SpawnDuration returns the ticks a spawn needs to produce the body
func (b Body) SpawnDuration() int {
	return b.Size() * SpawnTicksPerPart
}

// IsZero returns true for an empty body
func (b Body) IsZero() bool {
	return b.Size() == 0
}

// Validate checks the body can actually be spawned
func (b Body) Validate() error {
	if b.Work < 0 || b.Carry < 0 || b.Move < 0 {
		return fmt.Errorf("body part counts must be >= 0, got %s", b)
	}
	if b.IsZero() {
		return fmt.Errorf("body must have at least one part")
	}
	if b.Size() > MaxBodyParts {
		return fmt.Errorf("body has %d parts, max is %d", b.Size(), MaxBodyParts)
	}
	return nil
}

func (b Body) String() string {
	return fmt.Sprintf("%dW/%dC/%dM", b.Work, b.Carry, b.Move)
}
