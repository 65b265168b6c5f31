package mapgen

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/spakin/disjoint"

	"github.com/samdwyer/mapforge/internal/world"
)

// DoglegCorridors joins each room to the one before it with an L-shaped
// corridor.
type DoglegCorridors struct{}

func NewDoglegCorridors() *DoglegCorridors {
	return &DoglegCorridors{}
}

func (DoglegCorridors) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	if bm.Corridors == nil {
		bm.Corridors = make([][]int, 0, len(rooms))
	}
	for i := 1; i < len(rooms); i++ {
		px, py := rooms[i-1].Center()
		nx, ny := rooms[i].Center()
		bm.Corridors = append(bm.Corridors, lCorridor(rng, bm.Map, px, py, nx, ny))
		bm.TakeSnapshot()
	}
	return nil
}

// NearestCorridors links rooms along a minimum spanning tree of center
// distances, so every room is connected with the shortest total corridor.
type NearestCorridors struct{}

func NewNearestCorridors() *NearestCorridors {
	return &NearestCorridors{}
}

type roomPair struct {
	a, b int
	dist float64
}

func (NearestCorridors) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}

	centers := make([]world.Point, len(rooms))
	sets := make([]*disjoint.Element, len(rooms))
	for i, r := range rooms {
		x, y := r.Center()
		centers[i] = world.Point{X: x, Y: y}
		sets[i] = disjoint.NewElement()
	}

	var pairs []roomPair
	for i := range rooms {
		for j := i + 1; j < len(rooms); j++ {
			pairs = append(pairs, roomPair{i, j, world.Pythagoras.Distance(centers[i], centers[j])})
		}
	}
	slices.SortStableFunc(pairs, func(p, q roomPair) int {
		return cmp.Compare(p.dist, q.dist)
	})

	if bm.Corridors == nil {
		bm.Corridors = make([][]int, 0, len(rooms))
	}
	joined := 1
	for _, p := range pairs {
		if joined == len(rooms) {
			break
		}
		if sets[p.a].Find() == sets[p.b].Find() {
			continue
		}
		disjoint.Union(sets[p.a], sets[p.b])
		joined++
		a, b := centers[p.a], centers[p.b]
		bm.Corridors = append(bm.Corridors, drawCorridor(bm.Map, a.X, a.Y, b.X, b.Y))
		bm.TakeSnapshot()
	}
	return nil
}

// CorridorSpawner treats each corridor as a spawn region.
type CorridorSpawner struct{}

func NewCorridorSpawner() *CorridorSpawner {
	return &CorridorSpawner{}
}

func (CorridorSpawner) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	if bm.Corridors == nil {
		return ErrNoCorridors
	}
	for _, c := range bm.Corridors {
		spawnRegion(rng, bm, c)
	}
	return nil
}
