package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// DrunkSpawnMode decides where each new digger starts.
type DrunkSpawnMode int

const (
	StartingPoint DrunkSpawnMode = iota
	RandomSpawn
)

// DrunkardSettings are the knobs every drunkard preset varies.
type DrunkardSettings struct {
	SpawnMode    DrunkSpawnMode
	Lifetime     int
	FloorPercent float32
	BrushSize    int
	Symmetry     Symmetry
}

// DrunkardsWalkBuilder releases short-lived random diggers until enough of
// the map is floor.
type DrunkardsWalkBuilder struct {
	Settings DrunkardSettings
}

func NewOpenArea() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{DrunkardSettings{SpawnMode: StartingPoint, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1}}
}

func NewOpenHalls() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{DrunkardSettings{SpawnMode: RandomSpawn, Lifetime: 400, FloorPercent: 0.5, BrushSize: 1}}
}

func NewWindingPassages() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{DrunkardSettings{SpawnMode: RandomSpawn, Lifetime: 100, FloorPercent: 0.4, BrushSize: 1}}
}

func NewFatPassages() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{DrunkardSettings{SpawnMode: RandomSpawn, Lifetime: 100, FloorPercent: 0.4, BrushSize: 2}}
}

func NewFearfulSymmetry() *DrunkardsWalkBuilder {
	return &DrunkardsWalkBuilder{DrunkardSettings{SpawnMode: RandomSpawn, Lifetime: 100, FloorPercent: 0.4, BrushSize: 1, Symmetry: BothSymmetry}}
}

func (b *DrunkardsWalkBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	s := b.Settings
	if s.Lifetime <= 0 {
		return ErrNoFloor
	}
	m := bm.Map
	startX, startY := m.Width/2, m.Height/2
	m.SetTile(startX, startY, world.TileFloor)
	bm.SetStart(m.Idx(startX, startY))

	desired := int(s.FloorPercent * float32(len(m.Tiles)))
	floors := m.Count(world.TileFloor)
	maxDiggers := len(m.Tiles)
	for digger := 0; floors < desired && digger < maxDiggers; digger++ {
		x, y := startX, startY
		if digger > 0 && s.SpawnMode == RandomSpawn {
			x = rng.Intn(m.Width-3) + 2
			y = rng.Intn(m.Height-3) + 2
		}
		for life := s.Lifetime; life > 0; life-- {
			paint(m, s.Symmetry, s.BrushSize, x, y)
			x, y = stagger(rng, m, x, y)
		}
		floors = m.Count(world.TileFloor)
		bm.TakeSnapshot()
	}
	return nil
}
