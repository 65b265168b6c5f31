package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// VoronoiSpawning partitions the walkable map into regions around random
// seed points and rolls a spawn region for each.
type VoronoiSpawning struct {
	Seeds  int
	Metric world.DistanceMetric
}

func NewVoronoiSpawning() *VoronoiSpawning {
	return &VoronoiSpawning{Seeds: 16, Metric: world.Pythagoras}
}

func (v *VoronoiSpawning) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	seeds := randomSeeds(rng, bm.Map, v.Seeds)
	for _, region := range VoronoiRegions(bm.Map, seeds, v.Metric) {
		if len(region) > 0 {
			spawnRegion(rng, bm, region)
		}
	}
	return nil
}

// VoronoiRegions assigns every walkable tile to its nearest seed and
// returns the tiles of each seed's region, in scan order. Ties go to the
// lowest seed index.
func VoronoiRegions(m *world.Map, seeds []world.Point, metric world.DistanceMetric) [][]int {
	regions := make([][]int, len(seeds))
	if len(seeds) == 0 {
		return regions
	}
	for idx, owner := range nearestSeed(m, seeds, metric) {
		if m.Tiles[idx].IsPassable() {
			regions[owner] = append(regions[owner], idx)
		}
	}
	return regions
}
