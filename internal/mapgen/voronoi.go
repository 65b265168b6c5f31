package mapgen

import (
	"math/rand"
	"slices"

	"github.com/samdwyer/mapforge/internal/world"
)

// VoronoiCellBuilder carves the interiors of Voronoi cells, leaving walls
// along cell borders.
type VoronoiCellBuilder struct {
	Seeds  int
	Metric world.DistanceMetric
}

func NewVoronoiPythagoras() *VoronoiCellBuilder {
	return &VoronoiCellBuilder{Seeds: 64, Metric: world.Pythagoras}
}

func NewVoronoiManhattan() *VoronoiCellBuilder {
	return &VoronoiCellBuilder{Seeds: 64, Metric: world.Manhattan}
}

func NewVoronoiChebyshev() *VoronoiCellBuilder {
	return &VoronoiCellBuilder{Seeds: 64, Metric: world.Chebyshev}
}

func (b *VoronoiCellBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	seeds := randomSeeds(rng, m, b.Seeds)
	membership := nearestSeed(m, seeds, b.Metric)

	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			idx := m.Idx(x, y)
			mine := membership[idx]
			differ := 0
			for _, n := range m.Neighbors4(idx) {
				if membership[n] != mine {
					differ++
				}
			}
			if differ < 2 {
				m.Tiles[idx] = world.TileFloor
			}
		}
		if y%10 == 0 {
			bm.TakeSnapshot()
		}
	}
	return nil
}

// randomSeeds picks n distinct interior points.
func randomSeeds(rng *rand.Rand, m *world.Map, n int) []world.Point {
	n = min(n, (m.Width-2)*(m.Height-2))
	seeds := make([]world.Point, 0, n)
	for len(seeds) < n {
		p := world.Point{X: rng.Intn(m.Width-2) + 1, Y: rng.Intn(m.Height-2) + 1}
		if !slices.Contains(seeds, p) {
			seeds = append(seeds, p)
		}
	}
	return seeds
}

// nearestSeed returns, per tile, the index of the closest seed. Ties go to
// the lowest seed index.
func nearestSeed(m *world.Map, seeds []world.Point, metric world.DistanceMetric) []int {
	out := make([]int, len(m.Tiles))
	for i := range m.Tiles {
		x, y := m.XY(i)
		p := world.Point{X: x, Y: y}
		best, bestDist := -1, 0.0
		for s, seed := range seeds {
			if d := metric.Distance(p, seed); best < 0 || d < bestDist {
				best, bestDist = s, d
			}
		}
		out[i] = best
	}
	return out
}
