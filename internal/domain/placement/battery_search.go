package placement

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	// SearchRadius bounds candidates and their open tiles around the consumer
	SearchRadius = 3

	// MinOpenTiles is the number of qualifying tiles that ends the search early
	MinOpenTiles = 5
)

// Candidate is a path tile considered for the battery
type Candidate struct {
	Pos                   shared.Position
	DistanceFromReference int
	OpenTiles             int
}

// SelectBatteryPosition orders candidates by distance from the reference and
// returns the first with at least MinOpenTiles open tiles. Otherwise it returns
// the candidate with the most open tiles seen; ok is false when no candidate
// has any.
func SelectBatteryPosition(candidates []Candidate) (shared.Position, bool) {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DistanceFromReference < ordered[j].DistanceFromReference
	})

	mostTiles := 0
	var best shared.Position
	found := false
	for _, c := range ordered {
		if c.OpenTiles >= MinOpenTiles {
			return c.Pos, true
		}
		if c.OpenTiles > mostTiles {
			mostTiles = c.OpenTiles
			best = c.Pos
			found = true
		}
	}
	return best, found
}

// CollectCandidates walks the path from reference to consumer and rates every
// tile within SearchRadius of the consumer
func CollectCandidates(q world.Query, path world.Path, reference, consumer shared.Position) []Candidate {
	var candidates []Candidate
	for _, pos := range path.Positions {
		if !pos.InRangeTo(consumer, SearchRadius) {
			continue
		}
		open := 0
		for _, tile := range q.OpenAdjacent(pos, true) {
			if tile.InRangeTo(consumer, SearchRadius) {
				open++
			}
		}
		candidates = append(candidates, Candidate{
			Pos:                   pos,
			DistanceFromReference: pos.RangeTo(reference),
			OpenTiles:             open,
		})
	}
	return candidates
}

// FindBatteryPosition searches the reference->consumer path for a battery tile.
// operation names the caller in the NoBatteryError returned when nothing fits.
func FindBatteryPosition(q world.Query, pf world.Pathfinder, reference, consumer shared.Position, operation string) (shared.Position, error) {
	path, err := pf.FindPath(reference, consumer, world.MoveOptions{Range: 1})
	if err != nil {
		return shared.Position{}, fmt.Errorf("failed to find path from %s to %s: %w", reference, consumer, err)
	}

	pos, ok := SelectBatteryPosition(CollectCandidates(q, path, reference, consumer))
	if !ok {
		return shared.Position{}, shared.NewNoBatteryError(operation)
	}
	return pos, nil
}
