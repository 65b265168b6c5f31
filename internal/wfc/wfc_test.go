package wfc

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/samdwyer/mapforge/internal/world"
)

func caveSeed() *world.Map {
	return world.ParseMap(1, "seed", []string{
		"############",
		"#....##....#",
		"#.##.##.##.#",
		"#.##....##.#",
		"#....##....#",
		"###.####.###",
		"###.####.###",
		"#....##....#",
		"#.##....##.#",
		"#.##.##.##.#",
		"#....##....#",
		"############",
	})
}

func TestExtractDedupesWithWeights(t *testing.T) {
	m := world.NewMap(1, 10, 10, "walls")
	ps, err := ExtractPatterns(m, 4, 1, true)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}
	if ps.Len() != 1 {
		t.Fatalf("Expected 1 distinct pattern from a solid map, got %d", ps.Len())
	}
	// 7x7 windows, four variants each
	if got := ps.Chunks[0].Weight; got != 196 {
		t.Errorf("Expected weight 196, got %d", got)
	}
}

func TestExtractStride(t *testing.T) {
	m := caveSeed()
	dense, err := ExtractPatterns(m, 4, 1, false)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}
	sparse, err := ExtractPatterns(m, 4, 4, false)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}

	total := func(ps *PatternSet) int {
		n := 0
		for _, c := range ps.Chunks {
			n += c.Weight
		}
		return n
	}
	if got := total(dense); got != 81 {
		t.Errorf("Stride 1: expected 81 windows, got %d", got)
	}
	if got := total(sparse); got != 9 {
		t.Errorf("Stride 4: expected 9 windows, got %d", got)
	}
}

func TestExtractErrors(t *testing.T) {
	m := world.NewMap(1, 3, 3, "tiny")
	if _, err := ExtractPatterns(m, 4, 1, false); !errors.Is(err, ErrNoPatterns) {
		t.Errorf("Expected ErrNoPatterns for a seed smaller than a chunk, got %v", err)
	}
	if _, err := ExtractPatterns(m, 1, 1, false); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestMirror(t *testing.T) {
	p := []world.Tile{
		world.TileWall, world.TileFloor,
		world.TileGrass, world.TileRoad,
	}
	h := mirror(p, 2, true, false)
	want := []world.Tile{world.TileFloor, world.TileWall, world.TileRoad, world.TileGrass}
	for i := range want {
		if h[i] != want[i] {
			t.Fatalf("Horizontal mirror: got %v, want %v", h, want)
		}
	}
	v := mirror(p, 2, false, true)
	want = []world.Tile{world.TileGrass, world.TileRoad, world.TileWall, world.TileFloor}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("Vertical mirror: got %v, want %v", v, want)
		}
	}
}

func TestConstraintsMatchBorders(t *testing.T) {
	ps, err := ExtractPatterns(caveSeed(), 4, 1, true)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}

	for _, a := range ps.Chunks {
		for _, b := range ps.Chunks {
			for _, side := range AllSides() {
				ea := a.Edge(ps.Size, side)
				eb := b.Edge(ps.Size, side.Opposite())
				same := true
				for i := range ea {
					if ea[i] != eb[i] {
						same = false
						break
					}
				}
				if got := ps.Compatible(a.ID, b.ID, side); got != same {
					t.Fatalf("Compatible(%d, %d, %s) = %v, borders equal = %v", a.ID, b.ID, side, got, same)
				}
			}
		}
	}
}

func TestSideOpposite(t *testing.T) {
	pairs := map[Side]Side{North: South, East: West, South: North, West: East}
	for s, want := range pairs {
		if got := s.Opposite(); got != want {
			t.Errorf("%s.Opposite() = %s, want %s", s, got, want)
		}
	}
}

func TestChunksFor(t *testing.T) {
	tests := []struct {
		span, size, want int
	}{
		{80, 4, 26},
		{50, 4, 16},
		{4, 4, 1},
		{3, 4, 0},
		{10, 1, 0},
	}
	for _, tt := range tests {
		if got := ChunksFor(tt.span, tt.size); got != tt.want {
			t.Errorf("ChunksFor(%d, %d) = %d, want %d", tt.span, tt.size, got, tt.want)
		}
	}
}

func TestSolveProducesCompatibleGrid(t *testing.T) {
	ps, err := ExtractPatterns(caveSeed(), 4, 1, true)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}
	s, err := NewSolver(ps, 6, 5)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	if _, err := s.SolveWithRetry(context.Background(), rng, 25, nil); err != nil {
		t.Fatalf("SolveWithRetry: %v", err)
	}
	if err := s.Verify(); err != nil {
		t.Errorf("Solved grid is inconsistent: %v", err)
	}

	// Overlapping borders render without disagreement
	m := world.NewMap(1, 6*3+1, 5*3+1, "out")
	s.Render(m)
	for idx, id := range s.Chosen {
		ox, oy := (idx%s.ChunksX)*3, (idx/s.ChunksX)*3
		chunk := ps.Chunks[id]
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				if got := m.GetTile(ox+x, oy+y); got != chunk.At(4, x, y) {
					t.Fatalf("Cell %d tile (%d,%d) = %c, want %c", idx, x, y, got, chunk.At(4, x, y))
				}
			}
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	ps, err := ExtractPatterns(caveSeed(), 4, 1, true)
	if err != nil {
		t.Fatalf("ExtractPatterns: %v", err)
	}
	run := func() []int {
		s, err := NewSolver(ps, 5, 5)
		if err != nil {
			t.Fatalf("NewSolver: %v", err)
		}
		if _, err := s.SolveWithRetry(context.Background(), rand.New(rand.NewSource(99)), 25, nil); err != nil {
			t.Fatalf("SolveWithRetry: %v", err)
		}
		return append([]int(nil), s.Chosen...)
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Cell %d differs between runs: %d vs %d", i, a[i], b[i])
		}
	}
}

// contradictory builds two chunks that can never sit side by side.
func contradictory(t *testing.T) *PatternSet {
	t.Helper()
	ps, err := NewPatternSet(2)
	if err != nil {
		t.Fatalf("NewPatternSet: %v", err)
	}
	ps.Add([]world.Tile{world.TileWall, world.TileWall, world.TileWall, world.TileWall})
	ps.Add([]world.Tile{world.TileFloor, world.TileFloor, world.TileFloor, world.TileFloor})
	ps.BuildConstraints()
	empty := bitset.New(uint(ps.Len()))
	for _, c := range ps.Chunks {
		c.Compatible[East] = empty
		c.Compatible[West] = empty
	}
	return ps
}

func TestInjectedContradiction(t *testing.T) {
	s, err := NewSolver(contradictory(t), 2, 1)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	err = s.Solve(rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("Expected ErrContradiction, got %v", err)
	}
}

func TestRetriesExhausted(t *testing.T) {
	s, err := NewSolver(contradictory(t), 2, 1)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	var notified []int
	attempts, err := s.SolveWithRetry(context.Background(), rand.New(rand.NewSource(1)), 5, func(attempt int, _ error) {
		notified = append(notified, attempt)
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, ErrContradiction) {
		t.Errorf("Expected the last contradiction to be wrapped, got %v", err)
	}
	if attempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", attempts)
	}
	if len(notified) != 4 {
		t.Errorf("Expected 4 contradiction notifications, got %d", len(notified))
	}
}

func TestNewSolverErrors(t *testing.T) {
	if _, err := NewSolver(nil, 2, 2); !errors.Is(err, ErrNoPatterns) {
		t.Errorf("Expected ErrNoPatterns, got %v", err)
	}
	ps, _ := ExtractPatterns(caveSeed(), 4, 1, false)
	if _, err := NewSolver(ps, 0, 2); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}
