package mapgen

import (
	"github.com/go-logr/logr"

	"github.com/samdwyer/mapforge/internal/spawn"
	"github.com/samdwyer/mapforge/internal/world"
)

// Spawn requests that the entity called Name be created at tile Idx.
type Spawn struct {
	Idx  int    `json:"idx"`
	Name string `json:"name"`
}

// BuilderMap is the working state threaded through every stage of a chain.
type BuilderMap struct {
	Map              *world.Map
	StartingPosition *world.Point

	// Rooms and Corridors stay nil until a stage that produces them runs.
	Rooms     []world.Rect
	Corridors [][]int

	SpawnList []Spawn
	Width     int
	Height    int

	// SpawnTable decides what spawn regions are filled with.
	SpawnTable *spawn.Table
	Log        logr.Logger

	// WFCMaxAttempts caps wave function collapse retries; 0 means the default.
	WFCMaxAttempts int

	history HistorySink
}

// TakeSnapshot hands a copy of the current grid to the history sink.
func (bm *BuilderMap) TakeSnapshot() {
	if bm.history != nil {
		bm.history.Snapshot(bm.Map)
	}
}

// StartIdx returns the tile index of the starting position.
func (bm *BuilderMap) StartIdx() (int, error) {
	if bm.StartingPosition == nil {
		return 0, ErrNoStartingPosition
	}
	return bm.Map.Idx(bm.StartingPosition.X, bm.StartingPosition.Y), nil
}

// SetStart records the starting position at tile idx.
func (bm *BuilderMap) SetStart(idx int) {
	x, y := bm.Map.XY(idx)
	bm.StartingPosition = &world.Point{X: x, Y: y}
}

// RequireRooms returns the room list, or ErrNoRooms when no room stage ran
// or it produced nothing.
func (bm *BuilderMap) RequireRooms() ([]world.Rect, error) {
	if len(bm.Rooms) == 0 {
		return nil, ErrNoRooms
	}
	return bm.Rooms, nil
}

// AddSpawn queues an entity for creation at idx.
func (bm *BuilderMap) AddSpawn(idx int, name string) {
	bm.SpawnList = append(bm.SpawnList, Spawn{Idx: idx, Name: name})
}

// Occupied returns the set of tiles that already carry a spawn request.
func (bm *BuilderMap) Occupied() map[int]bool {
	out := make(map[int]bool, len(bm.SpawnList))
	for _, s := range bm.SpawnList {
		out[s.Idx] = true
	}
	return out
}
