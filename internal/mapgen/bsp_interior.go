package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// BspInteriorBuilder partitions the whole map into rooms separated by
// single walls, as in the inside of a building, and links consecutive rooms.
type BspInteriorBuilder struct {
	MinRoomSize int
}

// NewBspInterior returns an interior builder.
func NewBspInterior() *BspInteriorBuilder {
	return &BspInteriorBuilder{MinRoomSize: 8}
}

func (b *BspInteriorBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	var rects []world.Rect
	stack := []world.Rect{world.NewRect(1, 1, bm.Width-2, bm.Height-2)}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		halfW, halfH := r.Width()/2, r.Height()/2
		var a, c world.Rect
		if rng.Intn(4) <= 1 {
			a = world.NewRect(r.X1, r.Y1, halfW, r.Height())
			c = world.NewRect(r.X1+halfW, r.Y1, r.Width()-halfW, r.Height())
			if halfW <= b.MinRoomSize {
				rects = append(rects, r)
				continue
			}
		} else {
			a = world.NewRect(r.X1, r.Y1, r.Width(), halfH)
			c = world.NewRect(r.X1, r.Y1+halfH, r.Width(), r.Height()-halfH)
			if halfH <= b.MinRoomSize {
				rects = append(rects, r)
				continue
			}
		}
		stack = append(stack, c, a)
	}

	bm.Rooms = make([]world.Rect, 0, len(rects))
	for _, r := range rects {
		// Leave the right and bottom edge as the dividing wall.
		room := world.Rect{X1: r.X1 - 1, Y1: r.Y1 - 1, X2: r.X2 - 2, Y2: r.Y2 - 2}
		applyRoom(bm.Map, room)
		bm.Rooms = append(bm.Rooms, room)
		bm.TakeSnapshot()
	}
	if len(bm.Rooms) == 0 {
		return ErrNoRooms
	}

	bm.Corridors = make([][]int, 0, len(bm.Rooms))
	for i := 1; i < len(bm.Rooms); i++ {
		x1, y1 := jitter(rng, bm.Rooms[i-1])
		x2, y2 := jitter(rng, bm.Rooms[i])
		bm.Corridors = append(bm.Corridors, drawCorridor(bm.Map, x1, y1, x2, y2))
		bm.TakeSnapshot()
	}
	return nil
}
