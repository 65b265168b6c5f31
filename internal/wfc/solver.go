package wfc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/cenkalti/backoff/v5"

	"github.com/samdwyer/mapforge/internal/world"
)

// Solver collapses a grid of chunk cells in scan order. Adjacent output
// chunks overlap by one tile, so a grid of n chunks spans n*(Size-1)+1 tiles.
type Solver struct {
	Patterns   *PatternSet
	ChunksX    int
	ChunksY    int
	Chosen     []int // Chunk ID per cell, -1 while undecided
	candidates []*bitset.BitSet
	all        *bitset.BitSet
}

// ChunksFor returns how many overlapping chunks of the given size fit along
// a span of tiles.
func ChunksFor(span, size int) int {
	if size < 2 || span < size {
		return 0
	}
	return (span - 1) / (size - 1)
}

// NewSolver creates a solver for a chunksX by chunksY grid.
func NewSolver(ps *PatternSet, chunksX, chunksY int) (*Solver, error) {
	if ps == nil || ps.Len() == 0 {
		return nil, ErrNoPatterns
	}
	if chunksX < 1 || chunksY < 1 {
		return nil, fmt.Errorf("%w: %dx%d chunk grid", ErrInvalidSize, chunksX, chunksY)
	}
	all := bitset.New(uint(ps.Len()))
	for i := range ps.Chunks {
		all.Set(uint(i))
	}
	s := &Solver{
		Patterns:   ps,
		ChunksX:    chunksX,
		ChunksY:    chunksY,
		Chosen:     make([]int, chunksX*chunksY),
		candidates: make([]*bitset.BitSet, chunksX*chunksY),
		all:        all,
	}
	s.Reset()
	return s, nil
}

// Reset marks every cell undecided with all chunks possible.
func (s *Solver) Reset() {
	for i := range s.Chosen {
		s.Chosen[i] = -1
		s.candidates[i] = s.all.Clone()
	}
}

func (s *Solver) neighbor(idx int, side Side) (int, bool) {
	cx, cy := idx%s.ChunksX, idx/s.ChunksX
	dx, dy := side.Offset()
	nx, ny := cx+dx, cy+dy
	if nx < 0 || nx >= s.ChunksX || ny < 0 || ny >= s.ChunksY {
		return 0, false
	}
	return ny*s.ChunksX + nx, true
}

// Solve runs one collapse attempt from a fresh state. It returns an error
// wrapping ErrContradiction when some cell is left with no viable chunk.
func (s *Solver) Solve(rng *rand.Rand) error {
	s.Reset()
	for idx := range s.Chosen {
		cand := s.candidates[idx]
		for _, side := range AllSides() {
			n, ok := s.neighbor(idx, side)
			if !ok || s.Chosen[n] < 0 {
				continue
			}
			cand.InPlaceIntersection(s.Patterns.Chunks[s.Chosen[n]].Compatible[side.Opposite()])
		}

		viable := s.viable(idx, cand)
		if len(viable) == 0 {
			return fmt.Errorf("%w at chunk (%d,%d)", ErrContradiction, idx%s.ChunksX, idx/s.ChunksX)
		}

		id := viable[0]
		if len(viable) > 1 {
			id = s.pick(rng, viable)
		}
		s.Chosen[idx] = id
		cand.ClearAll()
		cand.Set(uint(id))

		chunk := s.Patterns.Chunks[id]
		for _, side := range AllSides() {
			n, ok := s.neighbor(idx, side)
			if !ok || s.Chosen[n] >= 0 {
				continue
			}
			s.candidates[n].InPlaceIntersection(chunk.Compatible[side])
		}
	}
	return nil
}

// viable lists the candidates that leave every undecided neighbor with at
// least one option.
func (s *Solver) viable(idx int, cand *bitset.BitSet) []int {
	var out []int
	for i, ok := cand.NextSet(0); ok; i, ok = cand.NextSet(i + 1) {
		chunk := s.Patterns.Chunks[i]
		fits := true
		for _, side := range AllSides() {
			n, has := s.neighbor(idx, side)
			if !has || s.Chosen[n] >= 0 {
				continue
			}
			if s.candidates[n].IntersectionCardinality(chunk.Compatible[side]) == 0 {
				fits = false
				break
			}
		}
		if fits {
			out = append(out, int(i))
		}
	}
	return out
}

func (s *Solver) pick(rng *rand.Rand, ids []int) int {
	total := 0
	for _, id := range ids {
		total += s.Patterns.Chunks[id].Weight
	}
	roll := rng.Intn(total)
	for _, id := range ids {
		roll -= s.Patterns.Chunks[id].Weight
		if roll < 0 {
			return id
		}
	}
	return ids[len(ids)-1]
}

// SolveWithRetry repeats Solve from scratch until it succeeds or maxAttempts
// contradictions have occurred. onContradiction, if set, sees each failed
// attempt except the last. It returns the number of attempts made.
func (s *Solver) SolveWithRetry(ctx context.Context, rng *rand.Rand, maxAttempts int, onContradiction func(attempt int, err error)) (int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := s.Solve(rng)
		if err != nil && !errors.Is(err, ErrContradiction) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(func(err error, _ time.Duration) {
			if onContradiction != nil {
				onContradiction(attempts, err)
			}
		}),
	)
	if err != nil {
		if errors.Is(err, ErrContradiction) {
			return attempts, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
		}
		return attempts, err
	}
	return attempts, nil
}

// Render writes the chosen chunks into m, starting at the top-left corner.
// Cells that are still undecided are skipped.
func (s *Solver) Render(m *world.Map) {
	size := s.Patterns.Size
	step := size - 1
	for idx, id := range s.Chosen {
		if id < 0 {
			continue
		}
		chunk := s.Patterns.Chunks[id]
		ox, oy := (idx%s.ChunksX)*step, (idx/s.ChunksX)*step
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				m.SetTile(ox+x, oy+y, chunk.At(size, x, y))
			}
		}
	}
}

// Verify checks that every pair of adjacent decided cells is compatible.
func (s *Solver) Verify() error {
	for idx, id := range s.Chosen {
		if id < 0 {
			return fmt.Errorf("wfc: cell %d undecided", idx)
		}
		for _, side := range []Side{East, South} {
			n, ok := s.neighbor(idx, side)
			if !ok {
				continue
			}
			if !s.Patterns.Compatible(id, s.Chosen[n], side) {
				return fmt.Errorf("wfc: chunks %d and %d clash on %s side of cell %d", id, s.Chosen[n], side, idx)
			}
		}
	}
	return nil
}
