package mapgen

import (
	"math/rand"
	"slices"

	"github.com/samdwyer/mapforge/internal/world"
)

// DistantExit places the down stairs on the reachable tile farthest from
// the starting position.
type DistantExit struct{}

func NewDistantExit() *DistantExit {
	return &DistantExit{}
}

func (DistantExit) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	start, err := bm.StartIdx()
	if err != nil {
		return err
	}
	exit := bm.Map.DistancesFrom(start).MostDistant(bm.Map)
	if exit < 0 || exit == start {
		return ErrNoExit
	}
	placeExit(bm, exit)
	return nil
}

// RoomBasedStairs places the down stairs at the center of the last room.
type RoomBasedStairs struct{}

func NewRoomBasedStairs() *RoomBasedStairs {
	return &RoomBasedStairs{}
}

func (RoomBasedStairs) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	rooms, err := bm.RequireRooms()
	if err != nil {
		return err
	}
	x, y := rooms[len(rooms)-1].Center()
	idx := bm.Map.Idx(x, y)
	if start, err := bm.StartIdx(); err == nil && start == idx {
		return ErrNoExit
	}
	placeExit(bm, idx)
	return nil
}

// placeExit puts the down stairs at idx. Nothing may spawn on the stairs.
func placeExit(bm *BuilderMap, idx int) {
	bm.Map.Tiles[idx] = world.TileDownStairs
	bm.SpawnList = slices.DeleteFunc(bm.SpawnList, func(s Spawn) bool {
		return s.Idx == idx
	})
	bm.TakeSnapshot()
}
