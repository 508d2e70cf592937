package shared

import "fmt"

// RoomSize is the edge length of a room grid. Valid coordinates are 0..RoomSize-1,
// and tiles on the border (0 and RoomSize-1) are exits.
const RoomSize = 50

// InfiniteRange is returned by RangeTo when two positions are in different rooms.
const InfiniteRange = 1 << 20

// Position is an immutable tile coordinate inside a named room
type Position struct {
	Room string `json:"room" yaml:"room"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
}

// NewPosition creates a position
func NewPosition(room string, x, y int) Position {
	return Position{Room: room, X: x, Y: y}
}

// IsZero returns true for the zero value (no room)
func (p Position) IsZero() bool {
	return p.Room == ""
}

// RangeTo returns the Chebyshev distance between two positions in the same room
func (p Position) RangeTo(other Position) int {
	if p.Room != other.Room {
		return InfiniteRange
	}
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// InRangeTo returns true if other is at most r tiles away
func (p Position) InRangeTo(other Position, r int) bool {
	return p.RangeTo(other) <= r
}

// IsNearTo returns true if other is adjacent or the same tile
func (p Position) IsNearTo(other Position) bool {
	return p.InRangeTo(other, 1)
}

// IsNearExit returns true when the position is within margin tiles of a room edge
func (p Position) IsNearExit(margin int) bool {
	return p.X <= margin || p.Y <= margin || p.X >= RoomSize-1-margin || p.Y >= RoomSize-1-margin
}

// Adjacent returns the up to eight in-bounds neighbouring tiles, excluding exits
func (p Position) Adjacent() []Position {
	result := make([]Position, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := p.X+dx, p.Y+dy
			if x < 1 || y < 1 || x > RoomSize-2 || y > RoomSize-2 {
				continue
			}
			result = append(result, Position{Room: p.Room, X: x, Y: y})
		}
	}
	return result
}

// StepToward returns the neighbouring tile one step closer to target.
// Positions in other rooms are returned unchanged.
func (p Position) StepToward(target Position) Position {
	if p.Room != target.Room {
		return p
	}
	return Position{Room: p.Room, X: p.X + sign(target.X-p.X), Y: p.Y + sign(target.Y-p.Y)}
}

func (p Position) String() string {
	return fmt.Sprintf("[%s %d,%d]", p.Room, p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
