package world

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// Default map dimensions
	DefaultWidth  = 80
	DefaultHeight = 50
)

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Map is the level grid. Tiles are stored row-major: index i maps to
// (i % Width, i / Width).
type Map struct {
	Name   string
	Depth  int
	Width  int
	Height int
	Tiles  []Tile

	// Derived from Tiles by PopulateBlocked; occupancy is layered on top at runtime.
	Blocked []bool

	// Render-layer state. Generation carries these but never writes them.
	Revealed []bool
	Visible  []bool
}

// NewMap creates a new map filled with walls.
func NewMap(depth, width, height int, name string) *Map {
	size := width * height
	tiles := make([]Tile, size)
	for i := range tiles {
		tiles[i] = TileWall
	}
	return &Map{
		Name:     name,
		Depth:    depth,
		Width:    width,
		Height:   height,
		Tiles:    tiles,
		Blocked:  make([]bool, size),
		Revealed: make([]bool, size),
		Visible:  make([]bool, size),
	}
}

// Idx converts a coordinate to a tile index.
func (m *Map) Idx(x, y int) int {
	return y*m.Width + x
}

// XY converts a tile index to a coordinate.
func (m *Map) XY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

// InBounds returns true if the coordinate lies inside the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// GetTile returns the tile at the given position. Out of bounds reads as wall.
func (m *Map) GetTile(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.Tiles[m.Idx(x, y)]
}

// SetTile writes a tile, ignoring out of bounds coordinates.
func (m *Map) SetTile(x, y int, t Tile) {
	if m.InBounds(x, y) {
		m.Tiles[m.Idx(x, y)] = t
	}
}

// IsPassable returns true if the given position can be walked on.
func (m *Map) IsPassable(x, y int) bool {
	return m.GetTile(x, y).IsPassable()
}

// Fill overwrites every tile.
func (m *Map) Fill(t Tile) {
	for i := range m.Tiles {
		m.Tiles[i] = t
	}
}

// PopulateBlocked recomputes the blocked mask from tile walkability.
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = !t.IsPassable()
	}
}

// Count returns how many tiles of kind t the map holds.
func (m *Map) Count(t Tile) int {
	n := 0
	for _, tile := range m.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// CountPassable returns the number of walkable tiles.
func (m *Map) CountPassable() int {
	n := 0
	for _, tile := range m.Tiles {
		if tile.IsPassable() {
			n++
		}
	}
	return n
}

var (
	cardinalDirs = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	diagonalDirs = [4]Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

// Neighbors4 returns the in-bounds cardinal neighbors of idx in N, E, S, W order.
func (m *Map) Neighbors4(idx int) []int {
	x, y := m.XY(idx)
	out := make([]int, 0, 4)
	for _, d := range cardinalDirs {
		if nx, ny := x+d.X, y+d.Y; m.InBounds(nx, ny) {
			out = append(out, m.Idx(nx, ny))
		}
	}
	return out
}

// Neighbors8 returns the in-bounds neighbors of idx, cardinals first.
func (m *Map) Neighbors8(idx int) []int {
	out := m.Neighbors4(idx)
	x, y := m.XY(idx)
	for _, d := range diagonalDirs {
		if nx, ny := x+d.X, y+d.Y; m.InBounds(nx, ny) {
			out = append(out, m.Idx(nx, ny))
		}
	}
	return out
}

// CountNeighbors counts the 8-connected neighbors of (x, y) holding tile t.
// Out of bounds neighbors are not counted.
func (m *Map) CountNeighbors(x, y int, t Tile) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if m.InBounds(x+dx, y+dy) && m.Tiles[m.Idx(x+dx, y+dy)] == t {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := *m
	c.Tiles = append([]Tile(nil), m.Tiles...)
	c.Blocked = append([]bool(nil), m.Blocked...)
	c.Revealed = append([]bool(nil), m.Revealed...)
	c.Visible = append([]bool(nil), m.Visible...)
	return &c
}

// Checksum hashes the dimensions and tile layout.
func (m *Map) Checksum() uint64 {
	h := xxhash.New()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(m.Width))
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], uint32(m.Height))
	h.Write(buf[:])
	for _, t := range m.Tiles {
		binary.LittleEndian.PutUint32(buf[:], uint32(t))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// String renders the map as one line of glyphs per row.
func (m *Map) String() string {
	var sb strings.Builder
	sb.Grow((m.Width + 1) * m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			sb.WriteRune(m.Tiles[m.Idx(x, y)].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseMap builds a map from rows of glyphs. Short rows are padded with walls.
func ParseMap(depth int, name string, rows []string) *Map {
	width := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > width {
			width = n
		}
	}
	m := NewMap(depth, width, len(rows), name)
	for y, row := range rows {
		for x, r := range []rune(row) {
			m.Tiles[m.Idx(x, y)] = ParseTile(r)
		}
	}
	return m
}
