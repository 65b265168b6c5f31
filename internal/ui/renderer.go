package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mapforge/internal/mapgen"
	"github.com/samdwyer/mapforge/internal/spawn"
	"github.com/samdwyer/mapforge/internal/world"
)

// Renderer draws map frames to the screen.
type Renderer struct {
	screen   *Screen
	registry *spawn.Registry
}

// NewRenderer creates a renderer. Spawn glyphs and colors come from
// registry; a nil registry draws every spawn as '?'.
func NewRenderer(screen *Screen, registry *spawn.Registry) *Renderer {
	return &Renderer{screen: screen, registry: registry}
}

// Frame is one picture of a level: the grid, and optionally the start and
// the spawns once they are known.
type Frame struct {
	Map    *world.Map
	Start  *world.Point
	Spawns []mapgen.Spawn
}

// Render draws f with status on the line below the map.
func (r *Renderer) Render(f Frame, status string) {
	r.screen.Clear()
	m := f.Map

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := m.GetTile(x, y)
			r.screen.SetContent(x, y, tile.Rune(), tileStyle(tile))
		}
	}

	for _, s := range f.Spawns {
		x, y := m.XY(s.Idx)
		glyph, style := '?', tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if r.registry != nil {
			if e := r.registry.GetByName(s.Name); e != nil {
				glyph, style = e.GlyphRune(), style.Foreground(e.TCellColor())
			}
		}
		r.screen.SetContent(x, y, glyph, style)
	}

	if f.Start != nil {
		r.screen.SetContent(f.Start.X, f.Start.Y, '@', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}

	r.RenderMessage(status, m.Height)
	r.screen.Show()
}

func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor, world.TileGravel:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileDownStairs, world.TileUpStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	case world.TileRoad:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case world.TileGrass:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case world.TileShallowWater:
		return tcell.StyleDefault.Foreground(tcell.ColorLightBlue)
	case world.TileDeepWater:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case world.TileWoodFloor, world.TileBridge:
		return tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	case world.TileStalactite, world.TileStalagmite:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	default:
		return tcell.StyleDefault
	}
}

// RenderMessage writes msg starting at column 0 of row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}
