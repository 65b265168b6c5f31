package world

import (
	"container/heap"
	"math"
)

// DiagonalCost is the cost of a diagonal step relative to a cardinal one.
// Fixed at 1.45, not sqrt(2).
const DiagonalCost float32 = 1.45

// Unreachable marks tiles the flood fill never reached.
const Unreachable float32 = math.MaxFloat32

// DistanceField holds per-tile shortest path costs from a set of start tiles.
type DistanceField struct {
	Width, Height int
	Dist          []float32
}

type fieldEntry struct {
	idx  int
	dist float32
	seq  int
}

type fieldQueue []fieldEntry

func (q fieldQueue) Len() int { return len(q) }
func (q fieldQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q fieldQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *fieldQueue) Push(x any)   { *q = append(*q, x.(fieldEntry)) }
func (q *fieldQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// ComputeDistances runs a multi-source Dijkstra flood fill over a
// width*height grid. Moves are 8-connected; a move may only enter a tile
// whose blocked flag is false. Start tiles get distance 0 even if blocked.
func ComputeDistances(width, height int, blocked []bool, starts []int) *DistanceField {
	size := width * height
	f := &DistanceField{Width: width, Height: height, Dist: make([]float32, size)}
	for i := range f.Dist {
		f.Dist[i] = Unreachable
	}

	q := make(fieldQueue, 0, len(starts))
	seq := 0
	for _, s := range starts {
		if s < 0 || s >= size || f.Dist[s] == 0 {
			continue
		}
		f.Dist[s] = 0
		q = append(q, fieldEntry{idx: s, seq: seq})
		seq++
	}
	heap.Init(&q)

	for q.Len() > 0 {
		e := heap.Pop(&q).(fieldEntry)
		if e.dist > f.Dist[e.idx] {
			continue
		}
		x, y := e.idx%width, e.idx/width
		for i, d := range cardinalDirs {
			f.relax(&q, &seq, blocked, x+d.X, y+d.Y, e.dist+1)
			dd := diagonalDirs[i]
			f.relax(&q, &seq, blocked, x+dd.X, y+dd.Y, e.dist+DiagonalCost)
		}
	}
	return f
}

func (f *DistanceField) relax(q *fieldQueue, seq *int, blocked []bool, x, y int, dist float32) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	idx := y*f.Width + x
	if blocked[idx] || dist >= f.Dist[idx] {
		return
	}
	f.Dist[idx] = dist
	heap.Push(q, fieldEntry{idx: idx, dist: dist, seq: *seq})
	*seq++
}

// DistancesFrom refreshes the blocked mask and computes a distance field
// from the given start tiles.
func (m *Map) DistancesFrom(starts ...int) *DistanceField {
	m.PopulateBlocked()
	return ComputeDistances(m.Width, m.Height, m.Blocked, starts)
}

// Reachable reports whether idx received a finite distance.
func (f *DistanceField) Reachable(idx int) bool {
	return f.Dist[idx] != Unreachable
}

// MostDistant returns the walkable tile with the greatest finite distance.
// Ties go to the first tile in scan order. It returns -1 when no walkable
// tile was reached.
func (f *DistanceField) MostDistant(m *Map) int {
	best := -1
	var bestDist float32 = -1
	for i, d := range f.Dist {
		if d == Unreachable || !m.Tiles[i].IsPassable() {
			continue
		}
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// UnreachableTiles returns every walkable tile the field never reached, in scan order.
func (f *DistanceField) UnreachableTiles(m *Map) []int {
	var out []int
	for i, d := range f.Dist {
		if d == Unreachable && m.Tiles[i].IsPassable() {
			out = append(out, i)
		}
	}
	return out
}

// CullUnreachable turns every walkable tile that cannot be reached from
// start into a wall. It returns the culled tile indices.
func CullUnreachable(m *Map, start int) []int {
	culled := m.DistancesFrom(start).UnreachableTiles(m)
	for _, idx := range culled {
		m.Tiles[idx] = TileWall
	}
	m.PopulateBlocked()
	return culled
}
