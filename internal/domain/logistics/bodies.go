package logistics

import (
	"math"

	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// CartBody builds the largest carry body affordable with energy, using units of
// carryPerMove carry parts plus one move part. At least 1C/1M is returned.
func CartBody(energy, carryPerMove int) world.Body {
	if carryPerMove < 1 {
		carryPerMove = 1
	}
	unitCost := carryPerMove*world.CarryPartCost + world.MovePartCost
	unitParts := carryPerMove + 1

	units := energy / unitCost
	if maxUnits := world.MaxBodyParts / unitParts; units > maxUnits {
		units = maxUnits
	}
	if units < 1 {
		return world.Body{Carry: 1, Move: 1}
	}
	return world.Body{Carry: units * carryPerMove, Move: units}
}

// StandardCartBody is a road cart with two carry parts per move part
func StandardCartBody(energy int) world.Body {
	return CartBody(energy, 2)
}

// WorkerBody returns an exact composition, clamped so the total stays within
// the part limit by trimming move, then carry, then work.
func WorkerBody(work, carry, move int) world.Body {
	b := world.Body{Work: max(work, 0), Carry: max(carry, 0), Move: max(move, 0)}
	for b.Size() > world.MaxBodyParts {
		switch {
		case b.Move > 1:
			b.Move--
		case b.Carry > 1:
			b.Carry--
		default:
			b.Work--
		}
	}
	return b
}

// AffordableWork lowers work until build(work) costs no more than energy. The
// result never drops below one.
func AffordableWork(work, energy int, build func(work int) world.Body) int {
	for work > 1 && build(work).Cost() > energy {
		work--
	}
	return work
}

// RatioBody repeats the ratio work:carry:move as many times as energy and the
// part limit allow. Fractional ratios are floored per part with a minimum of one
// part for every non-zero ratio. maxUnits <= 0 means no extra limit.
func RatioBody(work, carry, move float64, energy, maxUnits int) world.Body {
	unitCost := work*world.WorkPartCost + carry*world.CarryPartCost + move*world.MovePartCost
	unitParts := work + carry + move
	if unitCost <= 0 || unitParts <= 0 {
		return world.Body{}
	}

	units := math.Floor(float64(energy) / unitCost)
	if limit := math.Floor(world.MaxBodyParts / unitParts); units > limit {
		units = limit
	}
	if maxUnits > 0 && units > float64(maxUnits) {
		units = float64(maxUnits)
	}
	if units < 1 {
		units = 1
	}

	return world.Body{
		Work:  scaledPart(work, units),
		Carry: scaledPart(carry, units),
		Move:  scaledPart(move, units),
	}
}

func scaledPart(ratio, units float64) int {
	if ratio <= 0 {
		return 0
	}
	n := int(math.Floor(ratio * units))
	if n < 1 {
		return 1
	}
	return n
}
