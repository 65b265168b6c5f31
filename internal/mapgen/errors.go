package mapgen

import "errors"

var (
	ErrNoRooms            = errors.New("mapgen: no rooms have been generated")
	ErrNoCorridors        = errors.New("mapgen: no corridors have been generated")
	ErrNoStartingPosition = errors.New("mapgen: no starting position has been chosen")
	ErrNoFloor            = errors.New("mapgen: no walkable tile available")
	ErrNoExit             = errors.New("mapgen: no exit distinct from the starting position")
	ErrBuildingPlacement  = errors.New("mapgen: unable to place town buildings")
	ErrInvalidRoomSize    = errors.New("mapgen: invalid room size range")
	ErrUnknownPrefab      = errors.New("mapgen: unknown prefab")
)
