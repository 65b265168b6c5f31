package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// CellularAutomataBuilder grows organic caves from random noise. It makes
// no connectivity promise, so chains follow it with CullUnreachable.
type CellularAutomataBuilder struct {
	FloorChance int // Percent of interior tiles seeded as floor
	Iterations  int
}

// NewCellularAutomata returns the standard 45% / 15 generation cave builder.
func NewCellularAutomata() *CellularAutomataBuilder {
	return &CellularAutomataBuilder{FloorChance: 45, Iterations: 15}
}

func (b *CellularAutomataBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if rng.Intn(100) < b.FloorChance {
				m.Tiles[m.Idx(x, y)] = world.TileFloor
			} else {
				m.Tiles[m.Idx(x, y)] = world.TileWall
			}
		}
	}
	bm.TakeSnapshot()

	next := make([]world.Tile, len(m.Tiles))
	for i := 0; i < b.Iterations; i++ {
		copy(next, m.Tiles)
		for y := 1; y < m.Height-1; y++ {
			for x := 1; x < m.Width-1; x++ {
				walls := m.CountNeighbors(x, y, world.TileWall)
				if walls > 4 || walls == 0 {
					next[m.Idx(x, y)] = world.TileWall
				} else {
					next[m.Idx(x, y)] = world.TileFloor
				}
			}
		}
		m.Tiles, next = next, m.Tiles
		bm.TakeSnapshot()
	}

	if m.Count(world.TileFloor) == 0 {
		return ErrNoFloor
	}
	return nil
}
