package level

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"

	"github.com/samdwyer/mapforge/internal/mapgen"
	"github.com/samdwyer/mapforge/internal/world"
)

func testConfig(depth int, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Depth = depth
	cfg.Seed = seed
	return cfg
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MAPFORGE_SEED", "1234")
	t.Setenv("MAPFORGE_WIDTH", "60")
	t.Setenv("MAPFORGE_HEIGHT", "40")
	t.Setenv("MAPFORGE_DEPTH", "3")
	t.Setenv("MAPFORGE_HISTORY", "true")
	t.Setenv("MAPFORGE_VERBOSITY", "2")
	t.Setenv("MAPFORGE_ADDR", "127.0.0.1:9000")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	want := Config{
		Seed: 1234, Width: 60, Height: 40, Depth: 3, History: true,
		WFCMaxAttempts: mapgen.DefaultWFCAttempts, Verbosity: 2, Addr: "127.0.0.1:9000",
	}
	if cfg != want {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		name, value string
	}{
		{"MAPFORGE_SEED", "abc"},
		{"MAPFORGE_WIDTH", "wide"},
		{"MAPFORGE_HISTORY", "maybe"},
		{"MAPFORGE_WIDTH", "5"},
		{"MAPFORGE_DEPTH", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)
			if _, err := ConfigFromEnv(); err == nil {
				t.Errorf("Expected an error for %s=%q", tt.name, tt.value)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	a, err := Generate(context.Background(), testConfig(2, 42), logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed != 42 || a.Depth != 2 {
		t.Errorf("Artifact seed/depth = %d/%d", a.Seed, a.Depth)
	}
	if !a.Map.IsPassable(a.Start.X, a.Start.Y) {
		t.Error("Start is not walkable")
	}
	if a.Map.Count(world.TileDownStairs) != 1 {
		t.Error("Expected exactly one down staircase")
	}
	if len(a.Stages) == 0 || a.History != nil {
		t.Errorf("Stages %v, history %v", a.Stages, a.History)
	}
	rows := a.Rows()
	if len(rows) != a.Map.Height || len([]rune(rows[0])) != a.Map.Width {
		t.Errorf("Rows() is %d rows of %d", len(rows), len([]rune(rows[0])))
	}
	if strings.Join(rows, "\n")+"\n" != a.Map.String() {
		t.Error("Rows() disagrees with Map.String()")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for depth := 1; depth <= 11; depth++ {
		a, err := Generate(context.Background(), testConfig(depth, 7), logr.Discard())
		if err != nil {
			t.Fatal(err)
		}
		b, err := Generate(context.Background(), testConfig(depth, 7), logr.Discard())
		if err != nil {
			t.Fatal(err)
		}
		if a.Map.Checksum() != b.Map.Checksum() || a.Start != b.Start || !slices.Equal(a.SpawnList, b.SpawnList) {
			t.Errorf("depth %d: same seed produced different levels", depth)
		}
	}
}

func TestGenerateWithHistory(t *testing.T) {
	cfg := testConfig(8, 3)
	cfg.History = true
	a, err := Generate(context.Background(), cfg, logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if a.History == nil || a.History.Len() == 0 {
		t.Fatal("Expected recorded history")
	}
	last := a.History.Frames[a.History.Len()-1]
	if last.Width != a.Map.Width || last.Height != a.Map.Height {
		t.Error("History frames have the wrong dimensions")
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cfg := testConfig(0, 1)
	if _, err := Generate(context.Background(), cfg, logr.Discard()); err == nil {
		t.Error("Expected depth 0 to be rejected")
	}
}

func TestValidateMapSize(t *testing.T) {
	tests := []struct {
		w, h    int
		wantErr bool
	}{
		{mapgen.TownMinWidth, mapgen.TownMinHeight, false},
		{80, 50, false},
		{30, 30, true},
		{mapgen.TownMinWidth - 1, 40, true},
		{80, mapgen.TownMinHeight - 1, true},
	}
	for _, tt := range tests {
		cfg := testConfig(1, 1)
		cfg.Width, cfg.Height = tt.w, tt.h
		if err := cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%dx%d) = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
	}
}

func TestGenerateSmallestTown(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		cfg := testConfig(1, seed)
		cfg.Width, cfg.Height = mapgen.TownMinWidth, mapgen.TownMinHeight
		a, err := Generate(context.Background(), cfg, logr.Discard())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if a.Map.Count(world.TileDownStairs) != 1 {
			t.Errorf("seed %d: expected one staircase", seed)
		}
	}
}

func TestArtifactSpawnEntities(t *testing.T) {
	a, err := Generate(context.Background(), testConfig(6, 11), logr.Discard())
	if err != nil {
		t.Fatal(err)
	}
	var got []mapgen.Spawn
	err = a.SpawnEntities(mapgen.SpawnerFunc(func(idx int, name string) error {
		got = append(got, mapgen.Spawn{Idx: idx, Name: name})
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, a.SpawnList) {
		t.Error("SpawnEntities did not replay the spawn list in order")
	}
}

func TestStoreReturnsSameLevel(t *testing.T) {
	s := NewStore(testConfig(1, 100), logr.Discard())
	a, err := s.Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed != 103 {
		t.Errorf("Depth 3 seed = %d, want 103", a.Seed)
	}
	b, err := s.Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Re-entering a depth regenerated the level")
	}

	// A fresh store with the same base seed rebuilds the identical layout.
	c, err := NewStore(testConfig(1, 100), logr.Discard()).Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if c.Map.Checksum() != a.Map.Checksum() {
		t.Error("Same base seed produced a different level")
	}
}

func TestStoreConcurrentGet(t *testing.T) {
	s := NewStore(testConfig(1, 5), logr.Discard())
	const readers = 8
	results := make([]*Artifact, readers)
	var wg sync.WaitGroup
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.Get(context.Background(), 2)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = a
		}()
	}
	wg.Wait()
	for i, a := range results {
		if a != results[0] {
			t.Errorf("reader %d got a different artifact", i)
		}
	}
	if d := s.Depths(); !slices.Equal(d, []int{2}) {
		t.Errorf("Depths() = %v, want [2]", d)
	}
}

func TestStoreBaseSeed(t *testing.T) {
	if got := NewStore(testConfig(1, 9), logr.Discard()).BaseSeed(); got != 9 {
		t.Errorf("BaseSeed() = %d, want 9", got)
	}
	if got := NewStore(testConfig(1, 0), logr.Discard()).BaseSeed(); got == 0 {
		t.Error("A zero seed should be replaced with a time based one")
	}
}
