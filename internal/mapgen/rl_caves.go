package mapgen

import (
	"math/rand"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"

	"github.com/samdwyer/mapforge/internal/world"
)

const (
	rlWall rl.Cell = iota
	rlFloor
)

// RuleCaveBuilder carves caves with gruid's multi-rule cellular automaton.
// Each rule walls a tile when W(1), the walls in its 3x3 block, reaches
// WCutoff1 or when W(2), the walls in its 5x5 block, is at most WCutoff2.
type RuleCaveBuilder struct {
	WallChance float64
	Rules      []rl.CellularAutomataRule
}

func NewRuleCave() *RuleCaveBuilder {
	return &RuleCaveBuilder{
		WallChance: 0.45,
		Rules: []rl.CellularAutomataRule{
			{WCutoff1: 5, WCutoff2: 2, Reps: 4, WallsOutOfRange: true},
			{WCutoff1: 5, WCutoff2: 25, Reps: 3, WallsOutOfRange: true},
		},
	}
}

func (b *RuleCaveBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	gd := interiorGrid(bm.Map)
	rl.MapGen{Rand: rng, Grid: gd}.CellularAutomataCave(rlWall, rlFloor, b.WallChance, b.Rules)
	return applyGrid(bm, gd)
}

// TunnelCaveBuilder digs with gruid's random walk: Walks walks of roughly
// equal length from random points until FillPercent of the map is floor.
type TunnelCaveBuilder struct {
	FillPercent float64
	Walks       int
}

func NewTunnelCave() *TunnelCaveBuilder {
	return &TunnelCaveBuilder{FillPercent: 0.4, Walks: 8}
}

func (b *TunnelCaveBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	gd := interiorGrid(bm.Map)
	rl.MapGen{Rand: rng, Grid: gd}.RandomWalkCave(tunnelWalker{rng: rng}, rlFloor, b.FillPercent, b.Walks)
	return applyGrid(bm, gd)
}

// tunnelWalker favors horizontal steps, since maps are wider than tall.
type tunnelWalker struct {
	rng *rand.Rand
}

func (w tunnelWalker) Neighbor(p gruid.Point) gruid.Point {
	switch w.rng.Intn(6) {
	case 0, 1:
		return p.Shift(1, 0)
	case 2, 3:
		return p.Shift(-1, 0)
	case 4:
		return p.Shift(0, 1)
	default:
		return p.Shift(0, -1)
	}
}

// interiorGrid is an all-wall grid covering m inside its border.
func interiorGrid(m *world.Map) rl.Grid {
	return rl.NewGrid(m.Width-2, m.Height-2)
}

// applyGrid copies gd into the map interior. The border stays wall.
func applyGrid(bm *BuilderMap, gd rl.Grid) error {
	m := bm.Map
	it := gd.Iterator()
	for it.Next() {
		p := it.P()
		t := world.TileWall
		if it.Cell() == rlFloor {
			t = world.TileFloor
		}
		m.SetTile(p.X+1, p.Y+1, t)
	}
	bm.TakeSnapshot()

	if m.Count(world.TileFloor) == 0 {
		return ErrNoFloor
	}
	return nil
}
