package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// DLAAlgorithm is the walker termination rule.
type DLAAlgorithm int

const (
	// WalkInwards staggers from a random point until it touches floor.
	WalkInwards DLAAlgorithm = iota
	// WalkOutwards staggers from the center until it leaves the structure.
	WalkOutwards
	// CentralAttractor follows a straight line toward the center.
	CentralAttractor
)

// DLABuilder grows a structure by diffusion-limited aggregation.
type DLABuilder struct {
	Algorithm    DLAAlgorithm
	BrushSize    int
	Symmetry     Symmetry
	FloorPercent float32
}

func NewWalkInwards() *DLABuilder {
	return &DLABuilder{Algorithm: WalkInwards, BrushSize: 1, FloorPercent: 0.25}
}

func NewWalkOutwards() *DLABuilder {
	return &DLABuilder{Algorithm: WalkOutwards, BrushSize: 2, FloorPercent: 0.25}
}

func NewCentralAttractor() *DLABuilder {
	return &DLABuilder{Algorithm: CentralAttractor, BrushSize: 2, FloorPercent: 0.25}
}

func NewInsectoid() *DLABuilder {
	return &DLABuilder{Algorithm: CentralAttractor, BrushSize: 2, Symmetry: Horizontal, FloorPercent: 0.25}
}

func (b *DLABuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	center := world.Point{X: m.Width / 2, Y: m.Height / 2}
	m.SetTile(center.X, center.Y, world.TileFloor)
	m.SetTile(center.X-1, center.Y, world.TileFloor)
	m.SetTile(center.X+1, center.Y, world.TileFloor)
	m.SetTile(center.X, center.Y-1, world.TileFloor)
	m.SetTile(center.X, center.Y+1, world.TileFloor)
	bm.SetStart(m.Idx(center.X, center.Y))

	desired := int(b.FloorPercent * float32(len(m.Tiles)))
	for i := 0; m.Count(world.TileFloor) < desired; i++ {
		switch b.Algorithm {
		case WalkInwards:
			x, y := rng.Intn(m.Width-3)+2, rng.Intn(m.Height-3)+2
			px, py := x, y
			for m.GetTile(x, y) == world.TileWall {
				px, py = x, y
				x, y = stagger(rng, m, x, y)
			}
			paint(m, b.Symmetry, b.BrushSize, px, py)

		case WalkOutwards:
			x, y := center.X, center.Y
			for m.GetTile(x, y) == world.TileFloor {
				x, y = stagger(rng, m, x, y)
			}
			paint(m, b.Symmetry, b.BrushSize, x, y)

		case CentralAttractor:
			x, y := rng.Intn(m.Width-3)+2, rng.Intn(m.Height-3)+2
			px, py := x, y
			path := world.Line(world.Point{X: x, Y: y}, center)
			for m.GetTile(x, y) == world.TileWall && len(path) > 0 {
				px, py = x, y
				x, y = path[0].X, path[0].Y
				path = path[1:]
			}
			paint(m, b.Symmetry, b.BrushSize, px, py)
		}
		if i%10 == 0 {
			bm.TakeSnapshot()
		}
	}
	return nil
}
