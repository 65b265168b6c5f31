package mapgen

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/samdwyer/mapforge/internal/world"
)

// RoomSort is an ordering applied to the room list.
type RoomSort int

const (
	Leftmost RoomSort = iota
	Rightmost
	Topmost
	Bottommost
	Central
)

// RoomSorter reorders rooms, which changes where room-based stages put the
// start and the stairs.
type RoomSorter struct {
	Sort RoomSort
}

func NewRoomSorter(sort RoomSort) *RoomSorter {
	return &RoomSorter{Sort: sort}
}

func (s *RoomSorter) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	center := world.Point{X: bm.Width / 2, Y: bm.Height / 2}
	slices.SortStableFunc(rooms, func(a, b world.Rect) int {
		switch s.Sort {
		case Rightmost:
			return cmp.Compare(b.X2, a.X2)
		case Topmost:
			return cmp.Compare(a.Y1, b.Y1)
		case Bottommost:
			return cmp.Compare(b.Y2, a.Y2)
		case Central:
			ax, ay := a.Center()
			bx, by := b.Center()
			return cmp.Compare(
				world.Pythagoras.Distance(center, world.Point{X: ax, Y: ay}),
				world.Pythagoras.Distance(center, world.Point{X: bx, Y: by}))
		default:
			return cmp.Compare(a.X1, b.X1)
		}
	})
	return nil
}

// RoomCornerRounding fills in room corners that have walls on two sides.
type RoomCornerRounding struct{}

func NewRoomCornerRounding() *RoomCornerRounding {
	return &RoomCornerRounding{}
}

func (RoomCornerRounding) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	for _, r := range rooms {
		fillIfCorner(bm.Map, r.X1+1, r.Y1+1)
		fillIfCorner(bm.Map, r.X2, r.Y1+1)
		fillIfCorner(bm.Map, r.X1+1, r.Y2)
		fillIfCorner(bm.Map, r.X2, r.Y2)
		bm.TakeSnapshot()
	}
	return nil
}

func fillIfCorner(m *world.Map, x, y int) {
	if !m.InBounds(x, y) {
		return
	}
	walls := 0
	for _, n := range m.Neighbors4(m.Idx(x, y)) {
		if m.Tiles[n] == world.TileWall {
			walls++
		}
	}
	if walls == 2 {
		m.SetTile(x, y, world.TileWall)
	}
}

// RoomBasedSpawner fills every room except the first with a spawn region.
type RoomBasedSpawner struct{}

func NewRoomBasedSpawner() *RoomBasedSpawner {
	return &RoomBasedSpawner{}
}

func (RoomBasedSpawner) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	for _, r := range rooms[1:] {
		var area []int
		for y := r.Y1 + 1; y <= r.Y2; y++ {
			for x := r.X1 + 1; x <= r.X2; x++ {
				if bm.Map.InBounds(x, y) && bm.Map.GetTile(x, y) == world.TileFloor {
					area = append(area, bm.Map.Idx(x, y))
				}
			}
		}
		spawnRegion(rng, bm, area)
	}
	return nil
}
