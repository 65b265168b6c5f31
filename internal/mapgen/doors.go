package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// DoorPlacement requests doors where a floor tile sits between two opposite
// floor tiles and two opposite walls. With corridors it tries the mouth of
// each corridor; otherwise a third of all eligible tiles get one.
type DoorPlacement struct{}

func NewDoorPlacement() *DoorPlacement {
	return &DoorPlacement{}
}

func (DoorPlacement) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	if bm.Corridors != nil {
		for _, c := range bm.Corridors {
			if len(c) > 2 && doorPossible(bm, c[0]) {
				bm.AddSpawn(c[0], "Door")
			}
		}
		return nil
	}
	for idx, t := range bm.Map.Tiles {
		if t == world.TileFloor && doorPossible(bm, idx) && rng.Intn(3) == 0 {
			bm.AddSpawn(idx, "Door")
		}
	}
	return nil
}

func doorPossible(bm *BuilderMap, idx int) bool {
	for _, s := range bm.SpawnList {
		if s.Idx == idx {
			return false
		}
	}
	if start, err := bm.StartIdx(); err == nil && start == idx {
		return false
	}
	m := bm.Map
	x, y := m.XY(idx)
	if x < 1 || y < 1 || x > m.Width-2 || y > m.Height-2 {
		return false
	}
	floor := func(x, y int) bool { return m.GetTile(x, y) == world.TileFloor }
	wall := func(x, y int) bool { return m.GetTile(x, y) == world.TileWall }

	if floor(x-1, y) && floor(x+1, y) && wall(x, y-1) && wall(x, y+1) {
		return true
	}
	return wall(x-1, y) && wall(x+1, y) && floor(x, y-1) && floor(x, y+1)
}
