// Package world provides the level grid, its tile vocabulary and the
// reachability analysis every generator relies on.
package world

// Tile represents a single map tile. The value doubles as its default glyph.
type Tile rune

const (
	// TileWall represents an impassable wall tile.
	TileWall Tile = '#'
	// TileFloor represents a passable floor tile.
	TileFloor Tile = '.'
	// TileDownStairs leads to the next depth.
	TileDownStairs Tile = '>'
	// TileUpStairs leads to the previous depth.
	TileUpStairs Tile = '<'

	TileRoad         Tile = '='
	TileGrass        Tile = '"'
	TileShallowWater Tile = '~'
	TileDeepWater    Tile = 'w'
	TileWoodFloor    Tile = '_'
	TileBridge       Tile = '%'
	TileGravel       Tile = ','
	TileStalactite   Tile = '|'
	TileStalagmite   Tile = '^'
)

// Tiles lists every tile kind in a stable order.
var Tiles = []Tile{
	TileWall, TileFloor, TileDownStairs, TileUpStairs, TileRoad, TileGrass,
	TileShallowWater, TileDeepWater, TileWoodFloor, TileBridge, TileGravel,
	TileStalactite, TileStalagmite,
}

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	switch t {
	case TileWall, TileDeepWater, TileStalactite, TileStalagmite:
		return false
	default:
		return true
	}
}

// IsOpaque returns true if the tile blocks line of sight.
func (t Tile) IsOpaque() bool {
	switch t {
	case TileWall, TileStalactite, TileStalagmite:
		return true
	default:
		return false
	}
}

// IsStairs reports whether the tile is an up or down staircase.
func (t Tile) IsStairs() bool {
	return t == TileDownStairs || t == TileUpStairs
}

// Cost returns the movement cost of entering the tile.
func (t Tile) Cost() float32 {
	switch t {
	case TileRoad:
		return 0.8
	case TileGrass:
		return 1.1
	case TileShallowWater:
		return 1.2
	default:
		return 1.0
	}
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// String returns a human-readable tile name.
func (t Tile) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileFloor:
		return "floor"
	case TileDownStairs:
		return "down stairs"
	case TileUpStairs:
		return "up stairs"
	case TileRoad:
		return "road"
	case TileGrass:
		return "grass"
	case TileShallowWater:
		return "shallow water"
	case TileDeepWater:
		return "deep water"
	case TileWoodFloor:
		return "wood floor"
	case TileBridge:
		return "bridge"
	case TileGravel:
		return "gravel"
	case TileStalactite:
		return "stalactite"
	case TileStalagmite:
		return "stalagmite"
	default:
		return "unknown"
	}
}

// ParseTile maps a glyph back to its tile. Unknown glyphs become walls.
func ParseTile(r rune) Tile {
	for _, t := range Tiles {
		if rune(t) == r {
			return t
		}
	}
	return TileWall
}
