package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

type XStart int

const (
	XLeft XStart = iota
	XCenter
	XRight
)

type YStart int

const (
	YTop YStart = iota
	YCenter
	YBottom
)

// AreaStartingPosition starts the player on the walkable tile nearest a
// named edge, corner or the center.
type AreaStartingPosition struct {
	X XStart
	Y YStart

	// MinRegion skips tiles whose connected region is smaller than this.
	// If no region is big enough the largest one is used.
	MinRegion int
}

func NewAreaStartingPosition(x XStart, y YStart) *AreaStartingPosition {
	return &AreaStartingPosition{X: x, Y: y}
}

// WithMinRegion avoids starting in small isolated pockets.
func (a *AreaStartingPosition) WithMinRegion(n int) *AreaStartingPosition {
	a.MinRegion = n
	return a
}

func (a *AreaStartingPosition) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	m := bm.Map
	target := world.Point{X: 1, Y: 1}
	switch a.X {
	case XCenter:
		target.X = m.Width / 2
	case XRight:
		target.X = m.Width - 2
	}
	switch a.Y {
	case YCenter:
		target.Y = m.Height / 2
	case YBottom:
		target.Y = m.Height - 2
	}

	candidates := closestWalkable(m, target)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: nothing to start on near (%d,%d)", ErrNoFloor, target.X, target.Y)
	}

	start := candidates[0]
	if a.MinRegion > 1 {
		sizes := regionSizes(m)
		largest := 0
		for _, idx := range candidates {
			largest = max(largest, sizes[idx])
		}
		need := min(a.MinRegion, largest)
		for _, idx := range candidates {
			if sizes[idx] >= need {
				start = idx
				break
			}
		}
	}
	bm.SetStart(start)
	return nil
}

// RoomBasedStartingPosition starts the player at the center of the first room.
type RoomBasedStartingPosition struct{}

func NewRoomBasedStartingPosition() *RoomBasedStartingPosition {
	return &RoomBasedStartingPosition{}
}

func (RoomBasedStartingPosition) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	x, y := rooms[0].Center()
	bm.SetStart(bm.Map.Idx(x, y))
	return nil
}
