package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// YellowBrickRoad paves the walkable route from the start to the down
// stairs and runs a shallow stream across the map. Neither ever changes
// which tiles are walkable.
type YellowBrickRoad struct{}

func NewYellowBrickRoad() *YellowBrickRoad {
	return &YellowBrickRoad{}
}

func (YellowBrickRoad) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	start, err := bm.StartIdx()
	if err != nil {
		return err
	}
	exit := -1
	for i, t := range m.Tiles {
		if t == world.TileDownStairs {
			exit = i
			break
		}
	}
	if exit < 0 {
		return ErrNoExit
	}

	for _, idx := range findPath(m, start, exit) {
		if idx != exit {
			m.Tiles[idx] = world.TileRoad
		}
	}
	bm.TakeSnapshot()

	ex, ey := m.XY(exit)
	from := world.Point{X: m.Width - 1, Y: 1}
	if ex >= m.Width/2 {
		from = world.Point{X: 1, Y: m.Height - 1}
	}
	to := world.Point{X: m.Width - 1, Y: m.Height - 1}
	if ey >= m.Height/2 {
		to = world.Point{X: 1, Y: 1}
	}
	a, b := closestWalkable(m, from), closestWalkable(m, to)
	if len(a) == 0 || len(b) == 0 || a[0] == b[0] {
		return nil
	}
	for _, idx := range findPath(m, a[0], b[0]) {
		if m.Tiles[idx] == world.TileFloor || m.Tiles[idx] == world.TileGrass {
			m.Tiles[idx] = world.TileShallowWater
		}
	}
	bm.TakeSnapshot()
	return nil
}
