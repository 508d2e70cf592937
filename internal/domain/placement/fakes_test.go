package placement_test

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// fakeQuery only answers OpenAdjacent, reporting the first n neighbours of a tile
type fakeQuery struct {
	world.Query
	open map[shared.Position]int
}

func (f *fakeQuery) OpenAdjacent(p shared.Position, ignoreUnits bool) []shared.Position {
	n := f.open[p]
	var tiles []shared.Position
	for _, adj := range p.Adjacent() {
		if len(tiles) == n {
			break
		}
		tiles = append(tiles, adj)
	}
	return tiles
}

type fakePathfinder struct {
	path []shared.Position
}

func (f *fakePathfinder) FindPath(from, to shared.Position, opts world.MoveOptions) (world.Path, error) {
	return world.Path{Positions: f.path, Length: len(f.path)}, nil
}

func (f *fakePathfinder) MoveToward(u *world.Unit, target shared.Position, opts world.MoveOptions) world.MoveResult {
	return world.MoveResult{}
}
