package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

const (
	wallTop = iota
	wallRight
	wallBottom
	wallLeft
)

type mazeCell struct {
	row, column int
	walls       [4]bool
	visited     bool
}

// MazeBuilder carves a perfect maze with a recursive backtracker over a
// half-resolution cell grid. Each cell becomes a 2x2 block of the map.
type MazeBuilder struct{}

func NewMaze() *MazeBuilder {
	return &MazeBuilder{}
}

func (b *MazeBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	cols, rows := m.Width/2-2, m.Height/2-2
	if cols < 1 || rows < 1 {
		return ErrNoFloor
	}

	cells := make([]mazeCell, cols*rows)
	for i := range cells {
		cells[i] = mazeCell{row: i / cols, column: i % cols, walls: [4]bool{true, true, true, true}}
	}

	cellIdx := func(row, col int) int {
		if row < 0 || col < 0 || row >= rows || col >= cols {
			return -1
		}
		return row*cols + col
	}

	current := 0
	var backtrace []int
	for step := 0; ; step++ {
		cells[current].visited = true

		var next []int
		c := cells[current]
		for _, n := range []int{
			cellIdx(c.row-1, c.column),
			cellIdx(c.row, c.column+1),
			cellIdx(c.row+1, c.column),
			cellIdx(c.row, c.column-1),
		} {
			if n >= 0 && !cells[n].visited {
				next = append(next, n)
			}
		}

		if len(next) > 0 {
			n := next[rng.Intn(len(next))]
			backtrace = append(backtrace, current)
			removeWalls(&cells[current], &cells[n])
			current = n
		} else if len(backtrace) > 0 {
			current = backtrace[len(backtrace)-1]
			backtrace = backtrace[:len(backtrace)-1]
		} else {
			break
		}

		if step%50 == 0 {
			copyMaze(m, cells)
			bm.TakeSnapshot()
		}
	}

	copyMaze(m, cells)
	bm.SetStart(m.Idx(2, 2))
	bm.TakeSnapshot()
	return nil
}

func removeWalls(a, b *mazeCell) {
	switch {
	case b.column == a.column+1:
		a.walls[wallRight], b.walls[wallLeft] = false, false
	case b.column == a.column-1:
		a.walls[wallLeft], b.walls[wallRight] = false, false
	case b.row == a.row+1:
		a.walls[wallBottom], b.walls[wallTop] = false, false
	case b.row == a.row-1:
		a.walls[wallTop], b.walls[wallBottom] = false, false
	}
}

func copyMaze(m *world.Map, cells []mazeCell) {
	for _, c := range cells {
		if !c.visited {
			continue
		}
		x, y := (c.column+1)*2, (c.row+1)*2
		m.SetTile(x, y, world.TileFloor)
		if !c.walls[wallTop] {
			m.SetTile(x, y-1, world.TileFloor)
		}
		if !c.walls[wallRight] {
			m.SetTile(x+1, y, world.TileFloor)
		}
		if !c.walls[wallBottom] {
			m.SetTile(x, y+1, world.TileFloor)
		}
		if !c.walls[wallLeft] {
			m.SetTile(x-1, y, world.TileFloor)
		}
	}
}
