package mapgen

import (
	"math/rand"
	"slices"
)

const maxSpawnsPerRegion = 4

// spawnRegion rolls a depth-scaled number of spawns into random tiles of
// area. Tiles that are blocked, already occupied or hold the starting
// position are skipped.
func spawnRegion(rng *rand.Rand, bm *BuilderMap, area []int) {
	occupied := bm.Occupied()
	start := -1
	if idx, err := bm.StartIdx(); err == nil {
		start = idx
	}
	free := slices.DeleteFunc(slices.Clone(area), func(idx int) bool {
		return occupied[idx] || idx == start || !bm.Map.Tiles[idx].IsPassable() || bm.Map.Tiles[idx].IsStairs()
	})

	n := rng.Intn(maxSpawnsPerRegion+3) + 1 + (bm.Map.Depth - 1) - 3
	n = min(n, len(free))
	for i := 0; i < n; i++ {
		j := rng.Intn(len(free))
		idx := free[j]
		free = slices.Delete(free, j, j+1)
		if name := bm.SpawnTable.Roll(rng); name != "" {
			bm.AddSpawn(idx, name)
		}
	}
}

// spawnNames places names, in order, on free tiles of area, walking it in
// order and taking each free tile with probability 1/chance.
func spawnNames(rng *rand.Rand, bm *BuilderMap, area []int, chance int, names ...string) {
	occupied := bm.Occupied()
	start := -1
	if idx, err := bm.StartIdx(); err == nil {
		start = idx
	}
	for _, idx := range area {
		if len(names) == 0 {
			return
		}
		if occupied[idx] || idx == start || !bm.Map.Tiles[idx].IsPassable() {
			continue
		}
		if rng.Intn(chance) == 0 {
			bm.AddSpawn(idx, names[0])
			names = names[1:]
		}
	}
}
