package world

import "testing"

func TestIdxRoundTrip(t *testing.T) {
	m := NewMap(1, 13, 7, "test")
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			gx, gy := m.XY(m.Idx(x, y))
			if gx != x || gy != y {
				t.Fatalf("XY(Idx(%d,%d)) = (%d,%d)", x, y, gx, gy)
			}
		}
	}
	if len(m.Tiles) != m.Width*m.Height {
		t.Errorf("Tiles length = %d, want %d", len(m.Tiles), m.Width*m.Height)
	}
}

func TestNeighborsRespectBounds(t *testing.T) {
	m := NewMap(1, 5, 5, "test")

	tests := []struct {
		name  string
		x, y  int
		want4 int
		want8 int
	}{
		{"corner", 0, 0, 2, 3},
		{"edge", 2, 0, 3, 5},
		{"center", 2, 2, 4, 8},
		{"far corner", 4, 4, 2, 3},
	}

	for _, tt := range tests {
		idx := m.Idx(tt.x, tt.y)
		if got := len(m.Neighbors4(idx)); got != tt.want4 {
			t.Errorf("%s: Neighbors4 = %d, want %d", tt.name, got, tt.want4)
		}
		if got := len(m.Neighbors8(idx)); got != tt.want8 {
			t.Errorf("%s: Neighbors8 = %d, want %d", tt.name, got, tt.want8)
		}
	}
}

func TestTilePredicates(t *testing.T) {
	tests := []struct {
		tile     Tile
		passable bool
		opaque   bool
	}{
		{TileWall, false, true},
		{TileFloor, true, false},
		{TileDownStairs, true, false},
		{TileRoad, true, false},
		{TileDeepWater, false, false},
		{TileShallowWater, true, false},
		{TileStalactite, false, true},
		{TileGravel, true, false},
	}

	for _, tt := range tests {
		if got := tt.tile.IsPassable(); got != tt.passable {
			t.Errorf("%s.IsPassable() = %v, want %v", tt.tile, got, tt.passable)
		}
		if got := tt.tile.IsOpaque(); got != tt.opaque {
			t.Errorf("%s.IsOpaque() = %v, want %v", tt.tile, got, tt.opaque)
		}
	}

	if TileRoad.Cost() >= TileFloor.Cost() {
		t.Error("Road should be cheaper than floor")
	}
}

func TestParseMapAndString(t *testing.T) {
	rows := []string{
		"#####",
		"#..>#",
		"#####",
	}
	m := ParseMap(3, "parsed", rows)

	if m.Width != 5 || m.Height != 3 {
		t.Fatalf("size = %dx%d, want 5x3", m.Width, m.Height)
	}
	if m.GetTile(3, 1) != TileDownStairs {
		t.Errorf("GetTile(3,1) = %v, want down stairs", m.GetTile(3, 1))
	}
	if got, want := m.String(), "#####\n#..>#\n#####\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := NewMap(1, 4, 4, "orig")
	c := m.Clone()
	c.SetTile(1, 1, TileFloor)

	if m.GetTile(1, 1) != TileWall {
		t.Error("Modifying clone changed the original")
	}
	if m.Checksum() == c.Checksum() {
		t.Error("Checksums should differ after modification")
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 5, 5)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", NewRect(3, 3, 5, 5), true},
		{"touching edge", NewRect(5, 0, 3, 3), true},
		{"separate", NewRect(7, 7, 2, 2), false},
		{"contained", NewRect(1, 1, 2, 2), true},
	}

	for _, tt := range tests {
		if got := a.Intersects(tt.other); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.other.Intersects(a); got != tt.want {
			t.Errorf("%s: reversed Intersects = %v, want %v", tt.name, got, tt.want)
		}
	}

	if x, y := NewRect(10, 20, 4, 6).Center(); x != 12 || y != 23 {
		t.Errorf("Center = (%d,%d), want (12,23)", x, y)
	}
}

func TestLine(t *testing.T) {
	pts := Line(Point{0, 0}, Point{5, 2})
	if len(pts) != 5 {
		t.Fatalf("len(Line) = %d, want 5", len(pts))
	}
	if pts[len(pts)-1] != (Point{5, 2}) {
		t.Errorf("Line should end at target, got %v", pts[len(pts)-1])
	}
	if got := Line(Point{3, 3}, Point{3, 3}); len(got) != 0 {
		t.Errorf("Line to self should be empty, got %v", got)
	}
}

func TestDistanceMetrics(t *testing.T) {
	a, b := Point{0, 0}, Point{3, 4}
	if got := Pythagoras.Distance(a, b); got != 5 {
		t.Errorf("Pythagoras = %v, want 5", got)
	}
	if got := Manhattan.Distance(a, b); got != 7 {
		t.Errorf("Manhattan = %v, want 7", got)
	}
	if got := Chebyshev.Distance(a, b); got != 4 {
		t.Errorf("Chebyshev = %v, want 4", got)
	}
}
