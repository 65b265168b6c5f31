package mapgen

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/aquilax/go-perlin"
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/mapforge/internal/world"
)

// BuildingTag is the role a town building is given once all are placed.
type BuildingTag int

const (
	Pub BuildingTag = iota
	Temple
	Blacksmith
	Clothier
	Alchemist
	PlayerHouse
	Hovel
	Abandoned
)

func (t BuildingTag) String() string {
	return [...]string{"pub", "temple", "blacksmith", "clothier", "alchemist", "player house", "hovel", "abandoned"}[t]
}

// buildingContents lists what each role is furnished with.
var buildingContents = map[BuildingTag][]string{
	Pub:         {"Barkeep", "Shady Salesman", "Patron", "Patron", "Keg", "Table", "Chair", "Table", "Chair"},
	Temple:      {"Priest", "Altar", "Parishioner", "Parishioner", "Chair", "Chair"},
	Blacksmith:  {"Blacksmith", "Anvil", "Water Trough", "Weapon Rack", "Armor Stand"},
	Clothier:    {"Clothier", "Cabinet", "Table", "Loom", "Hide Rack"},
	Alchemist:   {"Alchemist", "Chemistry Set", "Dead Thing", "Chair", "Table"},
	PlayerHouse: {"Mom", "Bed", "Cabinet", "Chair", "Table"},
	Hovel:       {"Peasant", "Bed", "Chair", "Table"},
	Abandoned:   {"Rat", "Rat", "Rat"},
}

var townsfolk = []string{"Peasant", "Drunk", "Dock Worker", "Fisher", "Townsperson", "Rat Catcher"}

const (
	townWallX = 30

	// TownMinWidth and TownMinHeight are the smallest map a town fits on.
	TownMinWidth  = 50
	TownMinHeight = 24

	// townTilesPerBuilding is the buildable area budgeted per building.
	townTilesPerBuilding = 140
)

// Building is a placed town building and its assigned role.
type Building struct {
	Rect world.Rect // Tiles X1..X2-1 by Y1..Y2-1
	Door int
	Tag  BuildingTag
}

// TownBuilder lays out the surface town: a coastline with piers, a walled
// town with a road gap, buildings with doors and paths, and a road exit.
type TownBuilder struct {
	// MaxBuildings caps the building count, which otherwise scales with
	// the buildable area inside the wall.
	MaxBuildings int
	// MinBuildings must fit within MaxAttempts samples.
	MinBuildings int
	MaxAttempts  int

	// Placed holds the buildings of the last run.
	Placed []Building
}

func NewTown() *TownBuilder {
	return &TownBuilder{MaxBuildings: 12, MinBuildings: 1, MaxAttempts: 20000}
}

func (b *TownBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	if bm.Width < TownMinWidth || bm.Height < TownMinHeight {
		return fmt.Errorf("%w: town needs at least %dx%d, have %dx%d",
			ErrBuildingPlacement, TownMinWidth, TownMinHeight, bm.Width, bm.Height)
	}
	m := bm.Map
	m.Fill(world.TileGrass)
	bm.TakeSnapshot()

	waterWidth := b.water(rng, m)
	b.piers(rng, m, waterWidth)
	bm.TakeSnapshot()

	gapY, available := b.walls(rng, m)
	bm.TakeSnapshot()

	buildings, err := b.placeBuildings(rng, m, available)
	if err != nil {
		return err
	}
	bm.Log.V(1).Info("placed town buildings", "count", len(buildings))
	outlineBuildings(m)
	bm.TakeSnapshot()

	for i := range buildings {
		buildings[i].Door = b.door(rng, m, buildings[i].Rect, gapY)
		bm.AddSpawn(buildings[i].Door, "Door")
	}
	bm.TakeSnapshot()

	addPaths(m, buildings)
	bm.TakeSnapshot()

	m.SetTile(m.Width-5, gapY, world.TileDownStairs)

	assignRoles(buildings)
	for _, bld := range buildings {
		if bld.Tag == Pub {
			cx, cy := bld.Rect.Center()
			bm.SetStart(m.Idx(cx, cy))
		}
	}
	for _, bld := range buildings {
		spawnNames(rng, bm, buildingInterior(m, bld.Rect), 3, buildingContents[bld.Tag]...)
	}
	b.spawnTownsfolk(rng, bm, available)

	bm.Rooms = make([]world.Rect, len(buildings))
	for i, bld := range buildings {
		bm.Rooms[i] = bld.Rect
	}
	b.Placed = buildings
	return nil
}

// water lays deep and shallow water along the west edge, returning the
// shoreline distance per row.
func (b *TownBuilder) water(rng *rand.Rand, m *world.Map) []int {
	noise := perlin.NewPerlin(2, 2, 3, rng.Int63())
	widths := make([]int, m.Height)
	for y := 0; y < m.Height; y++ {
		n := noise.Noise1D(float64(y) / float64(m.Height) * 4)
		w := 9 + int(math.Round(n*6)) + rng.Intn(4)
		w = max(5, min(w, townWallX-8))
		widths[y] = w
		for x := 0; x < w; x++ {
			if x < w-3 {
				m.SetTile(x, y, world.TileDeepWater)
			} else {
				m.SetTile(x, y, world.TileShallowWater)
			}
		}
	}
	return widths
}

func (b *TownBuilder) piers(rng *rand.Rand, m *world.Map, waterWidth []int) {
	n := rng.Intn(4) + 6
	for i := 0; i < n; i++ {
		y := rng.Intn(m.Height)
		for x := 2 + rng.Intn(6); x < waterWidth[y]+4; x++ {
			m.SetTile(x, y, world.TileWoodFloor)
		}
	}
}

// walls builds the town wall with its road gap and returns the gap row and
// the set of tiles buildings may occupy.
func (b *TownBuilder) walls(rng *rand.Rand, m *world.Map) (int, mapset.Set[int]) {
	available := mapset.New[int]()
	gapY := rng.Intn(m.Height-9) + 5

	for y := 1; y < m.Height-2; y++ {
		if y > gapY-4 && y < gapY+4 {
			for x := townWallX; x < m.Width; x++ {
				m.SetTile(x, y, world.TileRoad)
			}
			continue
		}
		m.SetTile(townWallX, y, world.TileWall)
		m.SetTile(m.Width-2, y, world.TileWall)
		for x := townWallX + 1; x < m.Width-2; x++ {
			m.SetTile(x, y, world.TileGravel)
			if y > 2 && y < m.Height-2 {
				available.Put(m.Idx(x, y))
			}
		}
	}
	for x := townWallX; x < m.Width-1; x++ {
		m.SetTile(x, 1, world.TileWall)
		m.SetTile(x, m.Height-2, world.TileWall)
	}
	return gapY, available
}

// buildingTarget is how many buildings to aim for on this much room.
func (b *TownBuilder) buildingTarget(available int) int {
	return max(b.MinBuildings, min(available/townTilesPerBuilding, b.MaxBuildings))
}

// placeBuildings samples footprints until the target fits entirely on
// available tiles, settling for fewer once MinBuildings are down. Each
// placed footprint and its 4-neighborhood leave the set.
func (b *TownBuilder) placeBuildings(rng *rand.Rand, m *world.Map, available mapset.Set[int]) ([]Building, error) {
	target := b.buildingTarget(available.Size())
	var buildings []Building
	for attempt := 0; len(buildings) < target; attempt++ {
		if attempt >= b.MaxAttempts {
			if len(buildings) >= b.MinBuildings {
				break
			}
			return nil, fmt.Errorf("%w: placed %d of %d after %d attempts",
				ErrBuildingPlacement, len(buildings), b.MinBuildings, attempt)
		}
		bx := rng.Intn(m.Width-townWallX-3) + townWallX + 1
		by := rng.Intn(m.Height-5) + 3
		bw := rng.Intn(8) + 5
		bh := rng.Intn(8) + 5

		fits := true
		for y := by; y < by+bh && fits; y++ {
			for x := bx; x < bx+bw; x++ {
				if !m.InBounds(x, y) || !available.Has(m.Idx(x, y)) {
					fits = false
					break
				}
			}
		}
		if !fits {
			continue
		}

		for y := by; y < by+bh; y++ {
			for x := bx; x < bx+bw; x++ {
				idx := m.Idx(x, y)
				m.Tiles[idx] = world.TileWoodFloor
				available.Remove(idx)
				for _, n := range m.Neighbors4(idx) {
					available.Remove(n)
				}
			}
		}
		buildings = append(buildings, Building{Rect: world.NewRect(bx, by, bw, bh)})
	}
	return buildings, nil
}

// outlineBuildings turns the edge of every wooden footprint into wall.
func outlineBuildings(m *world.Map) {
	src := m.Clone()
	for i, t := range src.Tiles {
		if t != world.TileWoodFloor {
			continue
		}
		if x, _ := src.XY(i); x < townWallX {
			continue // piers
		}
		for _, n := range src.Neighbors4(i) {
			if src.Tiles[n] != world.TileWoodFloor {
				m.Tiles[i] = world.TileWall
				break
			}
		}
	}
}

// door punches a door in the wall that faces the road gap.
func (b *TownBuilder) door(rng *rand.Rand, m *world.Map, r world.Rect, gapY int) int {
	doorX := r.X1 + 1 + rng.Intn(r.Width()-3) + 1
	cy := r.Y1 + r.Height()/2
	y := r.Y2 - 1
	if cy > gapY {
		y = r.Y1
	}
	idx := m.Idx(doorX, y)
	m.Tiles[idx] = world.TileFloor
	return idx
}

// addPaths stitches each door to the nearest road tile with A*, laying road
// along the way.
func addPaths(m *world.Map, buildings []Building) {
	var roads []int
	for i, t := range m.Tiles {
		if t == world.TileRoad {
			roads = append(roads, i)
		}
	}

	for _, bld := range buildings {
		dx, dy := m.XY(bld.Door)
		door := world.Point{X: dx, Y: dy}
		nearest := slices.Clone(roads)
		slices.SortStableFunc(nearest, func(a, b int) int {
			ax, ay := m.XY(a)
			bx, by := m.XY(b)
			return cmp.Compare(
				world.Pythagoras.Distance(door, world.Point{X: ax, Y: ay}),
				world.Pythagoras.Distance(door, world.Point{X: bx, Y: by}))
		})
		if len(nearest) == 0 {
			return
		}
		path := findPath(m, bld.Door, nearest[0])
		for _, idx := range path {
			if idx == bld.Door || m.Tiles[idx] == world.TileRoad {
				continue
			}
			m.Tiles[idx] = world.TileRoad
			roads = append(roads, idx)
		}
	}
}

// assignRoles ranks buildings by area, largest first. Equal areas keep
// placement order.
func assignRoles(buildings []Building) {
	order := make([]int, len(buildings))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(buildings[b].Rect.Area(), buildings[a].Rect.Area())
	})
	for rank, i := range order {
		switch {
		case rank <= int(PlayerHouse):
			buildings[i].Tag = BuildingTag(rank)
		case rank == len(order)-1:
			buildings[i].Tag = Abandoned
		default:
			buildings[i].Tag = Hovel
		}
	}
}

func buildingInterior(m *world.Map, r world.Rect) []int {
	var out []int
	for y := r.Y1 + 1; y < r.Y2-1; y++ {
		for x := r.X1 + 1; x < r.X2-1; x++ {
			if m.GetTile(x, y) == world.TileWoodFloor {
				out = append(out, m.Idx(x, y))
			}
		}
	}
	return out
}

// spawnTownsfolk scatters people over the open town tiles that buildings left.
func (b *TownBuilder) spawnTownsfolk(rng *rand.Rand, bm *BuilderMap, available mapset.Set[int]) {
	for idx := range bm.Map.Tiles {
		if !available.Has(idx) {
			continue
		}
		if roll := rng.Intn(100); roll < len(townsfolk) {
			bm.AddSpawn(idx, townsfolk[roll])
		}
	}
}
