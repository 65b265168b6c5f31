// Package entity instantiates the spawn requests of a generated level into
// placed entities.
package entity

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mapforge/internal/spawn"
	"github.com/samdwyer/mapforge/internal/world"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrOccupied      = errors.New("tile already occupied")
	ErrBlocked       = errors.New("tile is not walkable")
)

// Entity is a placed instance of a spawn table entry.
type Entity struct {
	Def    *spawn.EntryDef
	Name   string
	Symbol rune
	X, Y   int
}

// Position returns the entity's x, y coordinates.
func (e *Entity) Position() (int, int) {
	return e.X, e.Y
}

// Color returns the entry color.
func (e *Entity) Color() tcell.Color {
	return e.Def.TCellColor()
}

// Population holds the entities placed on one map. It implements
// mapgen.Spawner.
type Population struct {
	m        *world.Map
	registry *spawn.Registry

	entities []*Entity
	byTile   map[int]*Entity
}

// NewPopulation creates an empty population for m.
func NewPopulation(m *world.Map, registry *spawn.Registry) *Population {
	return &Population{
		m:        m,
		registry: registry,
		byTile:   make(map[int]*Entity),
	}
}

// Spawn places the entity called name on tile idx.
func (p *Population) Spawn(idx int, name string) error {
	def := p.registry.GetByName(name)
	if def == nil {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	if idx < 0 || idx >= len(p.m.Tiles) || !p.m.Tiles[idx].IsPassable() {
		return fmt.Errorf("%w: %d", ErrBlocked, idx)
	}
	if other, ok := p.byTile[idx]; ok {
		return fmt.Errorf("%w: %d holds %s", ErrOccupied, idx, other.Name)
	}
	x, y := p.m.XY(idx)
	e := &Entity{Def: def, Name: def.Name, Symbol: def.GlyphRune(), X: x, Y: y}
	p.entities = append(p.entities, e)
	p.byTile[idx] = e
	return nil
}

// At returns the entity on (x, y), or nil.
func (p *Population) At(x, y int) *Entity {
	if !p.m.InBounds(x, y) {
		return nil
	}
	return p.byTile[p.m.Idx(x, y)]
}

// All returns the entities in placement order.
func (p *Population) All() []*Entity {
	return p.entities
}

// Census counts entities by name.
func (p *Population) Census() map[string]int {
	out := make(map[string]int)
	for _, e := range p.entities {
		out[e.Name]++
	}
	return out
}
