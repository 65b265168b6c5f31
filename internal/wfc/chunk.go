// Package wfc re-synthesizes maps from patterns learned off a seed map
// using wave function collapse over overlapping square chunks.
package wfc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/mapforge/internal/world"
)

var (
	ErrContradiction    = errors.New("wfc: contradiction - no valid chunk for cell")
	ErrNoPatterns       = errors.New("wfc: seed map produced no patterns")
	ErrInvalidSize      = errors.New("wfc: invalid chunk size")
	ErrRetriesExhausted = errors.New("wfc: retries exhausted")
)

// DefaultChunkSize is the side length of extracted patterns.
const DefaultChunkSize = 4

// Side identifies one of the four chunk borders.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// AllSides returns the sides in N, E, S, W order.
func AllSides() []Side {
	return []Side{North, East, South, West}
}

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// Offset returns the chunk-grid step toward the side.
func (s Side) Offset() (int, int) {
	switch s {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

// String returns the side name.
func (s Side) String() string {
	return [...]string{"north", "east", "south", "west"}[s]
}

// MapChunk is one distinct pattern. It is immutable once constraints are built.
type MapChunk struct {
	ID      int
	Pattern []world.Tile // Size*Size tiles, row-major
	Weight  int          // Occurrences in the seed map, variants included

	// Edges hold a hash of each border row/column.
	Edges [4]uint64
	// Compatible[s] holds the IDs that may sit on side s of this chunk.
	Compatible [4]*bitset.BitSet
}

// PatternSet is the vocabulary of chunks learned from a seed map.
type PatternSet struct {
	Size   int
	Chunks []*MapChunk
	index  map[uint64][]int
}

// NewPatternSet creates an empty pattern set for size*size chunks.
func NewPatternSet(size int) (*PatternSet, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &PatternSet{Size: size, index: make(map[uint64][]int)}, nil
}

// Add records one occurrence of pattern, merging it with an identical
// existing chunk by bumping its weight.
func (ps *PatternSet) Add(pattern []world.Tile) *MapChunk {
	key := hashTiles(pattern)
	for _, id := range ps.index[key] {
		if c := ps.Chunks[id]; slices.Equal(c.Pattern, pattern) {
			c.Weight++
			return c
		}
	}
	c := &MapChunk{
		ID:      len(ps.Chunks),
		Pattern: slices.Clone(pattern),
		Weight:  1,
	}
	ps.Chunks = append(ps.Chunks, c)
	ps.index[key] = append(ps.index[key], c.ID)
	return c
}

// Len returns the number of distinct chunks.
func (ps *PatternSet) Len() int {
	return len(ps.Chunks)
}

// ExtractPatterns slides a size*size window over the seed map with the given
// stride. With flips enabled every window also contributes its horizontal,
// vertical and double mirror.
func ExtractPatterns(seed *world.Map, size, stride int, flips bool) (*PatternSet, error) {
	ps, err := NewPatternSet(size)
	if err != nil {
		return nil, err
	}
	if stride < 1 {
		stride = 1
	}

	window := make([]world.Tile, size*size)
	for oy := 0; oy+size <= seed.Height; oy += stride {
		for ox := 0; ox+size <= seed.Width; ox += stride {
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					window[y*size+x] = seed.Tiles[seed.Idx(ox+x, oy+y)]
				}
			}
			ps.Add(window)
			if flips {
				ps.Add(mirror(window, size, true, false))
				ps.Add(mirror(window, size, false, true))
				ps.Add(mirror(window, size, true, true))
			}
		}
	}

	if ps.Len() == 0 {
		return nil, fmt.Errorf("%w: %dx%d seed, chunk size %d", ErrNoPatterns, seed.Width, seed.Height, size)
	}
	ps.BuildConstraints()
	return ps, nil
}

func mirror(p []world.Tile, size int, horizontal, vertical bool) []world.Tile {
	out := make([]world.Tile, len(p))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sx, sy := x, y
			if horizontal {
				sx = size - 1 - x
			}
			if vertical {
				sy = size - 1 - y
			}
			out[y*size+x] = p[sy*size+sx]
		}
	}
	return out
}

// Edge returns the border tiles of the chunk on side s, in left-to-right or
// top-to-bottom order.
func (c *MapChunk) Edge(size int, s Side) []world.Tile {
	out := make([]world.Tile, size)
	for i := 0; i < size; i++ {
		switch s {
		case North:
			out[i] = c.Pattern[i]
		case South:
			out[i] = c.Pattern[(size-1)*size+i]
		case West:
			out[i] = c.Pattern[i*size]
		case East:
			out[i] = c.Pattern[i*size+size-1]
		}
	}
	return out
}

// At returns the pattern tile at (x, y).
func (c *MapChunk) At(size, x, y int) world.Tile {
	return c.Pattern[y*size+x]
}

func hashTiles(tiles []world.Tile) uint64 {
	h := xxhash.New()
	var buf [4]byte
	for _, t := range tiles {
		binary.LittleEndian.PutUint32(buf[:], uint32(t))
		h.Write(buf[:])
	}
	return h.Sum64()
}
