package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// SimpleMapBuilder scatters non-overlapping rectangular rooms and joins each
// new room to the previous one with an L-shaped corridor.
type SimpleMapBuilder struct {
	MaxRooms int
	MinSize  int
	MaxSize  int

	// RoomsOnly leaves connection to a later corridor stage.
	RoomsOnly bool
}

// NewSimpleMap returns the classic rooms-and-corridors builder.
func NewSimpleMap() *SimpleMapBuilder {
	return &SimpleMapBuilder{MaxRooms: 30, MinSize: 6, MaxSize: 10}
}

// NewRoomsOnly places rooms without corridors.
func NewRoomsOnly() *SimpleMapBuilder {
	b := NewSimpleMap()
	b.RoomsOnly = true
	return b
}

func (b *SimpleMapBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	if b.MinSize < 3 || b.MaxSize < b.MinSize {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRoomSize, b.MinSize, b.MaxSize)
	}
	rooms := make([]world.Rect, 0, b.MaxRooms)
	if !b.RoomsOnly {
		bm.Corridors = make([][]int, 0, b.MaxRooms)
	}

	for i := 0; i < b.MaxRooms; i++ {
		w := b.roomSize(rng)
		h := b.roomSize(rng)
		if bm.Width-w-1 <= 0 || bm.Height-h-1 <= 0 {
			continue
		}
		x := rng.Intn(bm.Width - w - 1)
		y := rng.Intn(bm.Height - h - 1)
		room := world.NewRect(x, y, w, h)

		ok := true
		for _, other := range rooms {
			if room.Intersects(other) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		applyRoom(bm.Map, room)
		if !b.RoomsOnly && len(rooms) > 0 {
			nx, ny := room.Center()
			px, py := rooms[len(rooms)-1].Center()
			bm.Corridors = append(bm.Corridors, lCorridor(rng, bm.Map, px, py, nx, ny))
		}
		rooms = append(rooms, room)
		bm.TakeSnapshot()
	}

	if len(rooms) == 0 {
		return ErrNoRooms
	}
	bm.Rooms = rooms
	return nil
}

// roomSize rolls a side length in MinSize..MaxSize-1, or exactly MinSize
// when the two are equal.
func (b *SimpleMapBuilder) roomSize(rng *rand.Rand) int {
	if b.MaxSize == b.MinSize {
		return b.MinSize
	}
	return b.MinSize + rng.Intn(b.MaxSize-b.MinSize)
}
