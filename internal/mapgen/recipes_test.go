package mapgen

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/samdwyer/mapforge/internal/wfc"
	"github.com/samdwyer/mapforge/internal/world"
)

func runLevel(t *testing.T, depth, w, h int, seed int64, opts ...Option) *BuilderChain {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	chain := LevelBuilder(depth, w, h, rng, opts...)
	if err := chain.Run(context.Background(), rng); err != nil {
		t.Fatalf("depth %d seed %d (%s): %v", depth, seed, chain.Name, err)
	}
	return chain
}

func TestLevelsAreTraversable(t *testing.T) {
	for depth := 1; depth <= 12; depth++ {
		for seed := int64(1); seed <= 2; seed++ {
			chain := runLevel(t, depth, 80, 50, seed)
			bm := chain.BuildData
			m := bm.Map

			start, err := bm.StartIdx()
			if err != nil {
				t.Fatalf("depth %d seed %d: %v", depth, seed, err)
			}
			if !m.Tiles[start].IsPassable() {
				t.Errorf("depth %d seed %d: start is %v", depth, seed, m.Tiles[start])
			}
			if n := m.Count(world.TileDownStairs); n != 1 {
				t.Errorf("depth %d seed %d: %d down stairs, want 1", depth, seed, n)
			}
			if m.Tiles[start] == world.TileDownStairs {
				t.Errorf("depth %d seed %d: start is on the stairs", depth, seed)
			}
			if n := len(m.DistancesFrom(start).UnreachableTiles(m)); n != 0 {
				t.Errorf("depth %d seed %d: %d walkable tiles unreachable", depth, seed, n)
			}
			for _, s := range bm.SpawnList {
				if !m.Tiles[s.Idx].IsPassable() {
					t.Errorf("depth %d seed %d: %s spawned on %v", depth, seed, s.Name, m.Tiles[s.Idx])
				}
			}
		}
	}
}

func TestLevelsAreDeterministic(t *testing.T) {
	for depth := 1; depth <= 12; depth++ {
		a := runLevel(t, depth, 80, 50, 99)
		b := runLevel(t, depth, 80, 50, 99)
		if a.Name != b.Name {
			t.Errorf("depth %d: recipe %q vs %q", depth, a.Name, b.Name)
		}
		if a.BuildData.Map.Checksum() != b.BuildData.Map.Checksum() {
			t.Errorf("depth %d: tiles differ between runs", depth)
		}
		if *a.BuildData.StartingPosition != *b.BuildData.StartingPosition {
			t.Errorf("depth %d: start differs between runs", depth)
		}
		if !slices.Equal(a.BuildData.SpawnList, b.BuildData.SpawnList) {
			t.Errorf("depth %d: spawn lists differ between runs", depth)
		}
	}
}

func TestForestScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	chain := ForestLevel(2, 60, 40)
	if err := chain.Run(context.Background(), rng); err != nil {
		t.Fatal(err)
	}
	bm := chain.BuildData
	m := bm.Map

	stairs := -1
	for i, tile := range m.Tiles {
		if tile == world.TileDownStairs {
			if stairs >= 0 {
				t.Fatal("More than one staircase")
			}
			stairs = i
		}
	}
	if stairs < 0 {
		t.Fatal("No staircase")
	}
	start, _ := bm.StartIdx()
	if got := m.DistancesFrom(start).MostDistant(m); got != stairs {
		t.Errorf("Stairs at %d, most distant tile is %d", stairs, got)
	}
	if len(bm.SpawnList) == 0 {
		t.Error("Forest has no spawns")
	}
	if m.Count(world.TileRoad) == 0 {
		t.Error("Forest has no road")
	}
}

func TestTownLevel(t *testing.T) {
	chain := runLevel(t, 1, 80, 50, 5)
	if chain.Name != "The Town of Bracketon" {
		t.Errorf("Depth 1 should be the town, got %q", chain.Name)
	}
	if len(chain.BuildData.Rooms) == 0 {
		t.Error("Town rooms should be its buildings")
	}
}

func TestRandomLevelCoversRecipes(t *testing.T) {
	names := map[string]bool{}
	chains := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		chain := LevelBuilder(15, 80, 50, rng)
		names[chain.Name] = true
		chains[strings.Join(chain.Stages(), ",")] = true
		if len(chain.Stages()) < 4 {
			t.Errorf("seed %d: suspiciously short chain %v", seed, chain.Stages())
		}
	}
	if !names["The Depths"] || len(names) != 1 {
		t.Errorf("Deep levels should all be named The Depths, got %v", names)
	}
	if len(chains) < 4 {
		t.Errorf("20 seeds picked only %d distinct recipes: %v", len(chains), chains)
	}
}

func TestForestSpawnsAvoidStairs(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		bm := runLevel(t, 2, 60, 40, seed).BuildData
		for _, s := range bm.SpawnList {
			if bm.Map.Tiles[s.Idx] == world.TileDownStairs {
				t.Errorf("seed %d: %s spawned on the stairs", seed, s.Name)
			}
		}
	}
}

func TestWaveformCollapseMeta(t *testing.T) {
	bm := newBuildData(60, 40)
	rng := rand.New(rand.NewSource(13))
	if err := NewCellularAutomata().BuildInitial(rng, bm); err != nil {
		t.Fatal(err)
	}
	bm.SetStart(bm.Map.Idx(1, 1))
	bm.AddSpawn(bm.Map.Idx(2, 2), "Rat")

	stage := NewWaveformCollapse()
	if err := stage.BuildMeta(rng, bm); err != nil {
		t.Fatal(err)
	}
	if stage.Attempts < 1 || stage.Attempts > DefaultWFCAttempts {
		t.Errorf("Attempts = %d", stage.Attempts)
	}
	if bm.StartingPosition != nil || bm.SpawnList != nil {
		t.Error("Positional state should be cleared after a collapse")
	}
	if bm.Map.Count(world.TileFloor) == 0 {
		t.Error("Collapse produced no floor")
	}
	checkBorder(t, "wfc", bm.Map)
}

func TestWaveformCollapsePrefab(t *testing.T) {
	for _, prefab := range []string{"crypt", "catacomb"} {
		bm := newBuildData(80, 50)
		if err := NewPrefabWaveformCollapse(prefab).BuildInitial(rand.New(rand.NewSource(3)), bm); err != nil {
			t.Fatalf("%s: %v", prefab, err)
		}
		if bm.Map.Count(world.TileFloor) == 0 {
			t.Errorf("%s: no floor", prefab)
		}
		if bm.Map.Count(world.TileDownStairs) != 0 {
			t.Errorf("%s: stairs leaked from the prefab", prefab)
		}
	}
}

func TestWaveformCollapseUnknownPrefab(t *testing.T) {
	bm := newBuildData(40, 30)
	err := NewPrefabWaveformCollapse("nope").BuildInitial(rand.New(rand.NewSource(1)), bm)
	if !errors.Is(err, ErrUnknownPrefab) {
		t.Fatalf("Expected ErrUnknownPrefab, got %v", err)
	}
	if !strings.Contains(err.Error(), "crypt") {
		t.Errorf("Error should list the known prefabs: %v", err)
	}
}

func TestWaveformCollapseRetriesExhausted(t *testing.T) {
	// Every stride-4 window of a checkerboard is the same chunk, and its east
	// border never matches its own west border.
	rows := make([]string, 12)
	for y := range rows {
		row := make([]byte, 12)
		for x := range row {
			row[x] = '.'
			if (x+y)%2 == 0 {
				row[x] = '#'
			}
		}
		rows[y] = string(row)
	}
	bm := newBuildData(40, 30)
	seed := world.ParseMap(1, "checker", rows)

	stage := &WaveformCollapseBuilder{ChunkSize: 4, Stride: 4, MaxAttempts: 3}
	err := stage.build(rand.New(rand.NewSource(1)), bm, seed)
	if !errors.Is(err, wfc.ErrRetriesExhausted) {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, wfc.ErrContradiction) {
		t.Errorf("Expected the last contradiction to be wrapped, got %v", err)
	}
	if stage.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", stage.Attempts)
	}
}

func TestChainWFCAttemptsOption(t *testing.T) {
	c := NewBuilderChain(1, 40, 30, "test", WithWFCAttempts(7))
	if c.BuildData.WFCMaxAttempts != 7 {
		t.Errorf("WFCMaxAttempts = %d, want 7", c.BuildData.WFCMaxAttempts)
	}
}
