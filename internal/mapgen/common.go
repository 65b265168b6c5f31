package mapgen

import (
	"cmp"
	"math/rand"
	"slices"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"

	"github.com/samdwyer/mapforge/internal/world"
)

// Symmetry mirrors brush strokes across the map's center lines.
type Symmetry int

const (
	NoSymmetry Symmetry = iota
	Horizontal
	Vertical
	BothSymmetry
)

// applyRoom carves the interior of r: X1+1..X2 by Y1+1..Y2.
func applyRoom(m *world.Map, r world.Rect) {
	for y := r.Y1 + 1; y <= r.Y2; y++ {
		for x := r.X1 + 1; x <= r.X2; x++ {
			if interior(m, x, y) {
				m.Tiles[m.Idx(x, y)] = world.TileFloor
			}
		}
	}
}

func interior(m *world.Map, x, y int) bool {
	return x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1
}

// horizontalTunnel carves row y between x1 and x2 and returns the tiles that
// were not already floor.
func horizontalTunnel(m *world.Map, x1, x2, y int) []int {
	var corridor []int
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		corridor = carve(m, x, y, corridor)
	}
	return corridor
}

// verticalTunnel carves column x between y1 and y2.
func verticalTunnel(m *world.Map, y1, y2, x int) []int {
	var corridor []int
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		corridor = carve(m, x, y, corridor)
	}
	return corridor
}

func carve(m *world.Map, x, y int, corridor []int) []int {
	if !interior(m, x, y) {
		return corridor
	}
	idx := m.Idx(x, y)
	if m.Tiles[idx] != world.TileFloor {
		m.Tiles[idx] = world.TileFloor
		corridor = append(corridor, idx)
	}
	return corridor
}

// lCorridor joins two points with an L-shaped tunnel, picking the leg order
// with a coin flip.
func lCorridor(rng *rand.Rand, m *world.Map, x1, y1, x2, y2 int) []int {
	if rng.Intn(2) == 1 {
		c := horizontalTunnel(m, x1, x2, y1)
		return append(c, verticalTunnel(m, y1, y2, x2)...)
	}
	c := verticalTunnel(m, y1, y2, x1)
	return append(c, horizontalTunnel(m, x1, x2, y2)...)
}

// drawCorridor walks from (x1, y1) to (x2, y2), closing the horizontal gap
// first, and carves every step.
func drawCorridor(m *world.Map, x1, y1, x2, y2 int) []int {
	var corridor []int
	x, y := x1, y1
	for x != x2 || y != y2 {
		switch {
		case x < x2:
			x++
		case x > x2:
			x--
		case y < y2:
			y++
		default:
			y--
		}
		corridor = carve(m, x, y, corridor)
	}
	return corridor
}

// paint carves a brush at (x, y) and its mirror images.
func paint(m *world.Map, mode Symmetry, brush, x, y int) {
	centerX, centerY := m.Width/2, m.Height/2
	switch mode {
	case NoSymmetry:
		applyPaint(m, brush, x, y)
	case Horizontal:
		if x == centerX {
			applyPaint(m, brush, x, y)
		} else {
			dist := abs(centerX - x)
			applyPaint(m, brush, centerX+dist, y)
			applyPaint(m, brush, centerX-dist, y)
		}
	case Vertical:
		if y == centerY {
			applyPaint(m, brush, x, y)
		} else {
			dist := abs(centerY - y)
			applyPaint(m, brush, x, centerY+dist)
			applyPaint(m, brush, x, centerY-dist)
		}
	case BothSymmetry:
		dx, dy := abs(centerX-x), abs(centerY-y)
		applyPaint(m, brush, centerX+dx, centerY+dy)
		applyPaint(m, brush, centerX-dx, centerY+dy)
		applyPaint(m, brush, centerX+dx, centerY-dy)
		applyPaint(m, brush, centerX-dx, centerY-dy)
	}
}

func applyPaint(m *world.Map, brush, x, y int) {
	if brush <= 1 {
		if interior(m, x, y) {
			m.Tiles[m.Idx(x, y)] = world.TileFloor
		}
		return
	}
	half := brush / 2
	for by := y - half; by < y-half+brush; by++ {
		for bx := x - half; bx < x-half+brush; bx++ {
			if interior(m, bx, by) {
				m.Tiles[m.Idx(bx, by)] = world.TileFloor
			}
		}
	}
}

// stagger moves one random cardinal step, staying two tiles clear of the edge.
func stagger(rng *rand.Rand, m *world.Map, x, y int) (int, int) {
	switch rng.Intn(4) {
	case 0:
		if x > 2 {
			x--
		}
	case 1:
		if x < m.Width-2 {
			x++
		}
	case 2:
		if y > 2 {
			y--
		}
	default:
		if y < m.Height-2 {
			y++
		}
	}
	return x, y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// closestWalkable lists walkable, non-stair tiles ordered by distance from
// target; ties keep scan order.
func closestWalkable(m *world.Map, target world.Point) []int {
	type candidate struct {
		idx  int
		dist float64
	}
	var cands []candidate
	for i, t := range m.Tiles {
		if !t.IsPassable() || t.IsStairs() {
			continue
		}
		x, y := m.XY(i)
		cands = append(cands, candidate{i, world.Pythagoras.Distance(target, world.Point{X: x, Y: y})})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.idx
	}
	return out
}

// regionSizes labels 8-connected walkable regions and returns, per tile, the
// size of the region it belongs to (0 for blocked tiles).
func regionSizes(m *world.Map) []int {
	label := make([]int, len(m.Tiles))
	for i := range label {
		label[i] = -1
	}
	var sizes []int
	var stack []int
	for i, t := range m.Tiles {
		if label[i] >= 0 || !t.IsPassable() {
			continue
		}
		id := len(sizes)
		sizes = append(sizes, 0)
		label[i] = id
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			sizes[id]++
			for _, n := range m.Neighbors8(cur) {
				if label[n] < 0 && m.Tiles[n].IsPassable() {
					label[n] = id
					stack = append(stack, n)
				}
			}
		}
	}
	out := make([]int, len(m.Tiles))
	for i, l := range label {
		if l >= 0 {
			out[i] = sizes[l]
		}
	}
	return out
}

// tilePath adapts a map to gruid's A* interface over walkable tiles.
type tilePath struct {
	m  *world.Map
	nb paths.Neighbors
}

func (tp *tilePath) Neighbors(p gruid.Point) []gruid.Point {
	return tp.nb.Cardinal(p, func(q gruid.Point) bool {
		return tp.m.IsPassable(q.X, q.Y)
	})
}

// Cost is in tenths of a move so road is preferred over grass.
func (tp *tilePath) Cost(_, q gruid.Point) int {
	return int(tp.m.GetTile(q.X, q.Y).Cost()*10 + 0.5)
}

func (tp *tilePath) Estimation(p, q gruid.Point) int {
	return paths.DistanceManhattan(p, q) * 8
}

// findPath returns the walkable A* path from one tile to another, both
// included, or nil when none exists.
func findPath(m *world.Map, from, to int) []int {
	pr := paths.NewPathRange(gruid.NewRange(0, 0, m.Width, m.Height))
	fx, fy := m.XY(from)
	tx, ty := m.XY(to)
	path := pr.AstarPath(&tilePath{m: m}, gruid.Point{X: fx, Y: fy}, gruid.Point{X: tx, Y: ty})
	if len(path) == 0 {
		return nil
	}
	out := make([]int, len(path))
	for i, p := range path {
		out[i] = m.Idx(p.X, p.Y)
	}
	return out
}
