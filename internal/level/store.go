package level

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Store keeps one generated level per depth so that returning to a depth
// yields the same layout. Depth d is generated with seed BaseSeed+d.
type Store struct {
	base Config
	log  logr.Logger

	mu     sync.RWMutex
	levels map[int]*Artifact
}

// NewStore creates an empty store. A zero base seed is fixed to a time based
// value once, here.
func NewStore(base Config, log logr.Logger) *Store {
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}
	return &Store{
		base:   base,
		log:    log,
		levels: make(map[int]*Artifact),
	}
}

// BaseSeed returns the seed depths are offset from.
func (s *Store) BaseSeed() int64 {
	return s.base.Seed
}

// Get returns the level at depth, generating and storing it on first use.
func (s *Store) Get(ctx context.Context, depth int) (*Artifact, error) {
	s.mu.RLock()
	a, ok := s.levels[depth]
	s.mu.RUnlock()
	if ok {
		return a, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.levels[depth]; ok {
		return a, nil
	}

	cfg := s.base
	cfg.Depth = depth
	cfg.Seed = s.base.Seed + int64(depth)
	a, err := Generate(ctx, cfg, s.log)
	if err != nil {
		return nil, err
	}
	s.levels[depth] = a
	s.log.V(1).Info("level stored", "depth", depth, "name", a.Name, "seed", cfg.Seed)
	return a, nil
}

// Depths lists the stored depths in ascending order.
func (s *Store) Depths() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.levels))
	for d := range s.levels {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}
