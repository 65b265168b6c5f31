package mapgen

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/samdwyer/mapforge/data"
	"github.com/samdwyer/mapforge/internal/wfc"
	"github.com/samdwyer/mapforge/internal/world"
)

// DefaultWFCAttempts caps collapse attempts before a level fails.
const DefaultWFCAttempts = 25

// WaveformCollapseBuilder re-synthesizes the map from patterns learned off
// a seed map. As a meta stage the seed is the current map; as an initial
// stage it is the named prefab.
type WaveformCollapseBuilder struct {
	ChunkSize int
	Stride    int
	Flips     bool
	Prefab    string

	// MaxAttempts overrides the chain's WFC attempt cap when positive.
	MaxAttempts int

	// Attempts reports how many collapse attempts the last build used.
	Attempts int
}

func NewWaveformCollapse() *WaveformCollapseBuilder {
	return &WaveformCollapseBuilder{
		ChunkSize: wfc.DefaultChunkSize,
		Stride:    1,
		Flips:     true,
	}
}

// NewPrefabWaveformCollapse seeds the collapse from an embedded prefab.
func NewPrefabWaveformCollapse(prefab string) *WaveformCollapseBuilder {
	b := NewWaveformCollapse()
	b.Prefab = prefab
	return b
}

func (b *WaveformCollapseBuilder) BuildMeta(rng *rand.Rand, bm *BuilderMap) error {
	return b.build(rng, bm, bm.Map.Clone())
}

func (b *WaveformCollapseBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	if names := data.PrefabNames(); !slices.Contains(names, b.Prefab) {
		return fmt.Errorf("%w: %q (have %s)", ErrUnknownPrefab, b.Prefab, strings.Join(names, ", "))
	}
	rows, err := data.LoadPrefab(b.Prefab)
	if err != nil {
		return err
	}
	return b.build(rng, bm, world.ParseMap(bm.Map.Depth, b.Prefab, rows))
}

func (b *WaveformCollapseBuilder) build(rng *rand.Rand, bm *BuilderMap, seed *world.Map) error {
	patterns, err := wfc.ExtractPatterns(seed, b.ChunkSize, b.Stride, b.Flips)
	if err != nil {
		return err
	}
	solver, err := wfc.NewSolver(patterns,
		wfc.ChunksFor(bm.Width, b.ChunkSize), wfc.ChunksFor(bm.Height, b.ChunkSize))
	if err != nil {
		return err
	}

	maxAttempts := b.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = bm.WFCMaxAttempts
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultWFCAttempts
	}

	log := bm.Log.WithValues("patterns", patterns.Len())
	b.Attempts, err = solver.SolveWithRetry(context.Background(), rng, maxAttempts, func(attempt int, err error) {
		log.V(2).Info("collapse contradiction, retrying", "attempt", attempt, "reason", err.Error())
	})
	if err != nil {
		return fmt.Errorf("wave function collapse: %w", err)
	}
	log.V(1).Info("collapse solved", "attempts", b.Attempts)

	m := bm.Map
	m.Fill(world.TileWall)
	solver.Render(m)
	for i, t := range m.Tiles {
		if t.IsStairs() {
			m.Tiles[i] = world.TileFloor
		}
	}
	for x := 0; x < m.Width; x++ {
		m.SetTile(x, 0, world.TileWall)
		m.SetTile(x, m.Height-1, world.TileWall)
	}
	for y := 0; y < m.Height; y++ {
		m.SetTile(0, y, world.TileWall)
		m.SetTile(m.Width-1, y, world.TileWall)
	}
	m.PopulateBlocked()

	// Anything positional refers to the old layout.
	bm.StartingPosition = nil
	bm.SpawnList = nil
	bm.Rooms = nil
	bm.Corridors = nil
	bm.TakeSnapshot()
	return nil
}
