package world

import "github.com/andrescamacho/colony-go/internal/domain/shared"

// UnitMemory is the small per-unit record written at spawn time and updated by
// role behaviors
type UnitMemory struct {
	Role           string   `json:"role"`
	Namespace      string   `json:"namespace"`
	OriginID       string   `json:"originId,omitempty"`
	Boosts         []string `json:"boosts,omitempty"`
	AllowUnboosted bool     `json:"allowUnboosted,omitempty"`
	MoveToTarget   bool     `json:"moveToTarget,omitempty"`
	Scavenger      string   `json:"scavenger,omitempty"`
	HasLoad        bool     `json:"hasLoad,omitempty"`
}

// Unit is a live worker. Pointers returned by the world stay valid for the tick.
type Unit struct {
	ID          string
	Name        string
	Body        Body
	Pos         shared.Position
	Carried     int
	TicksToLive int
	Spawning    bool
	Memory      UnitMemory
}

// CarryCapacity returns the unit's maximum load
func (u *Unit) CarryCapacity() int {
	return u.Body.Capacity()
}

// IsFull returns true when the unit cannot carry more
func (u *Unit) IsFull() bool {
	return u.Carried >= u.CarryCapacity()
}

// IsEmpty returns true when the unit carries nothing
func (u *Unit) IsEmpty() bool {
	return u.Carried <= 0
}

// FreeCapacity returns remaining carry space
func (u *Unit) FreeCapacity() int {
	free := u.CarryCapacity() - u.Carried
	if free < 0 {
		return 0
	}
	return free
}

// Role returns the role tag written at spawn time
func (u *Unit) Role() string {
	return u.Memory.Role
}
