package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// CaveDecorator dresses caves with rock formations, gravel and puddles. It
// only swaps walls for other blocking tiles and floors for other walkable
// tiles, so reachability is unchanged.
type CaveDecorator struct{}

func NewCaveDecorator() *CaveDecorator {
	return &CaveDecorator{}
}

func (CaveDecorator) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	src := bm.Map.Clone()
	for idx, t := range src.Tiles {
		walls := 0
		for _, n := range src.Neighbors4(idx) {
			if src.Tiles[n] == world.TileWall {
				walls++
			}
		}
		switch t {
		case world.TileWall:
			if walls == 4 {
				continue
			}
			switch rng.Intn(25) {
			case 0:
				bm.Map.Tiles[idx] = world.TileStalactite
			case 1:
				bm.Map.Tiles[idx] = world.TileStalagmite
			}
		case world.TileFloor:
			switch {
			case walls >= 2 && rng.Intn(6) == 0:
				bm.Map.Tiles[idx] = world.TileGravel
			case walls == 0 && rng.Intn(10) == 0:
				bm.Map.Tiles[idx] = world.TileShallowWater
			}
		}
	}
	bm.Map.PopulateBlocked()
	bm.TakeSnapshot()
	return nil
}
