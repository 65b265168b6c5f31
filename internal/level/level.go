// Package level turns a depth into a finished, traversable level and keeps
// generated levels by depth.
package level

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mapforge/internal/mapgen"
	"github.com/samdwyer/mapforge/internal/telemetry"
	"github.com/samdwyer/mapforge/internal/world"
)

// Artifact is a generated level, detached from the chain that built it.
type Artifact struct {
	Name      string         `json:"name"`
	Depth     int            `json:"depth"`
	Seed      int64          `json:"seed"`
	Map       *world.Map     `json:"-"`
	Start     world.Point    `json:"start"`
	SpawnList []mapgen.Spawn `json:"spawns"`
	Rooms     []world.Rect   `json:"rooms,omitempty"`
	Stages    []string       `json:"stages"`

	// History is nil unless Config.History was set.
	History *mapgen.SnapshotHistory `json:"-"`
}

// SpawnEntities hands every spawn request to s in order.
func (a *Artifact) SpawnEntities(s mapgen.Spawner) error {
	return mapgen.SpawnAll(a.SpawnList, s)
}

// Rows renders the map one string per row.
func (a *Artifact) Rows() []string {
	rows := make([]string, a.Map.Height)
	for y := range rows {
		line := make([]rune, a.Map.Width)
		for x := range line {
			line[x] = a.Map.GetTile(x, y).Rune()
		}
		rows[y] = string(line)
	}
	return rows
}

// Generate builds the level for cfg.Depth. A zero cfg.Seed is replaced by a
// time based seed, which is reported in the artifact.
func Generate(ctx context.Context, cfg Config, log logr.Logger) (*Artifact, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, span := telemetry.Tracer("level").Start(ctx, "level.generate", trace.WithAttributes(
		attribute.Int("level.depth", cfg.Depth),
		attribute.Int64("level.seed", seed),
	))
	defer span.End()

	opts := []mapgen.Option{
		mapgen.WithLogger(log),
		mapgen.WithWFCAttempts(cfg.WFCMaxAttempts),
	}
	var history *mapgen.SnapshotHistory
	if cfg.History {
		history = mapgen.NewSnapshotHistory()
		opts = append(opts, mapgen.WithHistory(history))
	}

	rng := rand.New(rand.NewSource(seed))
	chain := mapgen.LevelBuilder(cfg.Depth, cfg.Width, cfg.Height, rng, opts...)
	span.SetAttributes(attribute.String("level.name", chain.Name))
	if err := chain.Run(ctx, rng); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("generate depth %d (%s, seed %d): %w", cfg.Depth, chain.Name, seed, err)
	}

	bm := chain.BuildData
	if bm.StartingPosition == nil {
		return nil, fmt.Errorf("generate depth %d: %w", cfg.Depth, mapgen.ErrNoStartingPosition)
	}
	bm.Map.PopulateBlocked()
	return &Artifact{
		Name:      chain.Name,
		Depth:     cfg.Depth,
		Seed:      seed,
		Map:       bm.Map,
		Start:     *bm.StartingPosition,
		SpawnList: bm.SpawnList,
		Rooms:     bm.Rooms,
		Stages:    chain.Stages(),
		History:   history,
	}, nil
}
