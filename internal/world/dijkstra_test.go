package world

import "testing"

// twoCaves has a connected left pocket and an isolated right pocket.
var twoCaves = []string{
	"##########",
	"#...##..##",
	"#....#..##",
	"#...##..##",
	"##########",
}

func TestDistanceField(t *testing.T) {
	m := ParseMap(1, "caves", twoCaves)
	start := m.Idx(1, 1)
	f := m.DistancesFrom(start)

	if f.Dist[start] != 0 {
		t.Errorf("start distance = %v, want 0", f.Dist[start])
	}
	if got := f.Dist[m.Idx(2, 1)]; got != 1 {
		t.Errorf("cardinal step = %v, want 1", got)
	}
	if got := f.Dist[m.Idx(2, 2)]; got != DiagonalCost {
		t.Errorf("diagonal step = %v, want %v", got, DiagonalCost)
	}
	if f.Reachable(m.Idx(6, 1)) {
		t.Error("isolated pocket should be unreachable")
	}
	if f.Reachable(m.Idx(0, 0)) {
		t.Error("walls should be unreachable")
	}
}

func TestMostDistant(t *testing.T) {
	m := ParseMap(1, "caves", twoCaves)
	f := m.DistancesFrom(m.Idx(1, 1))
	x, y := m.XY(f.MostDistant(m))

	if x != 4 || y != 2 {
		t.Errorf("MostDistant = (%d,%d), want (4,2)", x, y)
	}
}

func TestMostDistantTieBreaksInScanOrder(t *testing.T) {
	m := ParseMap(1, "line", []string{
		"#####",
		"#...#",
		"#####",
	})
	f := m.DistancesFrom(m.Idx(2, 1))
	x, y := m.XY(f.MostDistant(m))

	if x != 1 || y != 1 {
		t.Errorf("MostDistant = (%d,%d), want first tile in scan order (1,1)", x, y)
	}
}

func TestCullUnreachable(t *testing.T) {
	m := ParseMap(1, "caves", twoCaves)
	start := m.Idx(1, 1)
	culled := CullUnreachable(m, start)

	if len(culled) != 6 {
		t.Errorf("culled %d tiles, want 6", len(culled))
	}
	f := m.DistancesFrom(start)
	for i, tile := range m.Tiles {
		if tile.IsPassable() && !f.Reachable(i) {
			x, y := m.XY(i)
			t.Errorf("tile (%d,%d) still unreachable after cull", x, y)
		}
	}
}

func TestCullUnreachableIsIdempotent(t *testing.T) {
	m := ParseMap(1, "caves", twoCaves)
	start := m.Idx(1, 1)

	CullUnreachable(m, start)
	once := m.Checksum()
	culled := CullUnreachable(m, start)

	if len(culled) != 0 {
		t.Errorf("second cull removed %d tiles, want 0", len(culled))
	}
	if m.Checksum() != once {
		t.Error("second cull changed the map")
	}
}

func TestComputeDistancesMultiSource(t *testing.T) {
	m := ParseMap(1, "corridor", []string{
		"#######",
		"#.....#",
		"#######",
	})
	f := m.DistancesFrom(m.Idx(1, 1), m.Idx(5, 1))

	if got := f.Dist[m.Idx(3, 1)]; got != 2 {
		t.Errorf("middle distance = %v, want 2", got)
	}
}
