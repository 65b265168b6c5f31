package spawn

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

// EntryDef describes one spawnable entity name loaded from spawns.json.
// Generators only ever emit the name; instantiation belongs to the caller.
type EntryDef struct {
	Name             string `json:"name"`             // Opaque entity type name (e.g., "Goblin")
	Glyph            string `json:"glyph"`            // Single character for debug rendering
	Color            string `json:"color"`            // Hex or W3C color name
	Weight           int    `json:"weight"`           // Relative spawn frequency; 0 = never rolled
	MinDepth         int    `json:"minDepth"`         // First depth the entry may appear on
	MaxDepth         int    `json:"maxDepth"`         // Last depth the entry may appear on
	AddDepthToWeight bool   `json:"addDepthToWeight"` // Grow the weight with depth
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EntryDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return []rune(e.Glyph)[0]
}

// TCellColor returns the entry color, falling back to white.
func (e *EntryDef) TCellColor() tcell.Color {
	color, err := ParseColor(e.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// ParseColor resolves "#rrggbb" or a W3C color name to a tcell.Color.
func ParseColor(s string) (tcell.Color, error) {
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// TableFile represents the structure of spawns.json.
type TableFile struct {
	Entries []EntryDef `json:"entries"`
}

// Registry holds every loaded entry definition.
type Registry struct {
	all    []EntryDef
	byName map[string]*EntryDef
}

// NewRegistry creates a registry from loaded definitions.
func NewRegistry(entries []EntryDef) *Registry {
	r := &Registry{
		all:    entries,
		byName: make(map[string]*EntryDef, len(entries)),
	}
	for i := range entries {
		r.byName[entries[i].Name] = &entries[i]
	}
	return r
}

// LoadRegistry loads the embedded spawns.json.
func LoadRegistry() (*Registry, error) {
	file, err := Load[TableFile]("spawns.json")
	if err != nil {
		return nil, err
	}
	if len(file.Entries) == 0 {
		return nil, errors.New("no entries loaded from spawns.json")
	}
	return NewRegistry(file.Entries), nil
}

// MustLoadRegistry loads the registry, panicking on error.
// Use this for data that must be present for generation to work.
func MustLoadRegistry() *Registry {
	r, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// GetByName returns the entry with the given name, or nil if not found.
func (r *Registry) GetByName(name string) *EntryDef {
	return r.byName[name]
}

// All returns every entry definition.
func (r *Registry) All() []EntryDef {
	return r.all
}

// ForDepth builds the weighted table of entries eligible at depth.
func (r *Registry) ForDepth(depth int) *Table {
	t := &Table{}
	for _, e := range r.all {
		if e.Weight <= 0 || depth < e.MinDepth || depth > e.MaxDepth {
			continue
		}
		weight := e.Weight
		if e.AddDepthToWeight {
			weight += depth
		}
		t.Add(e.Name, weight)
	}
	return t
}

// Table is a weighted list of entity names.
type Table struct {
	names       []string
	weights     []int
	totalWeight int
}

// Add appends a name with the given weight. Non-positive weights are ignored.
func (t *Table) Add(name string, weight int) *Table {
	if weight <= 0 {
		return t
	}
	t.names = append(t.names, name)
	t.weights = append(t.weights, weight)
	t.totalWeight += weight
	return t
}

// Roll selects a name using weighted probability. It returns "" for an
// empty table.
func (t *Table) Roll(rng *rand.Rand) string {
	if t.totalWeight <= 0 {
		return ""
	}

	roll := rng.Intn(t.totalWeight)
	cumulative := 0
	for i, w := range t.weights {
		cumulative += w
		if roll < cumulative {
			return t.names[i]
		}
	}
	return t.names[len(t.names)-1]
}

// Count returns the number of names in the table.
func (t *Table) Count() int {
	return len(t.names)
}
