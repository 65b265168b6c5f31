// Package mapgen assembles procedural levels from composable generation
// stages: one initial builder that carves a map out of solid rock followed
// by any number of meta builders that refine it.
package mapgen

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mapforge/internal/spawn"
	"github.com/samdwyer/mapforge/internal/telemetry"
	"github.com/samdwyer/mapforge/internal/world"
)

// InitialBuilder populates an empty map. A chain runs exactly one.
type InitialBuilder interface {
	BuildInitial(rng *rand.Rand, bm *BuilderMap) error
}

// MetaBuilder transforms an already populated map.
type MetaBuilder interface {
	BuildMeta(rng *rand.Rand, bm *BuilderMap) error
}

// Spawner instantiates the entities a finished chain asked for.
type Spawner interface {
	Spawn(idx int, name string) error
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(idx int, name string) error

// Spawn calls f(idx, name).
func (f SpawnerFunc) Spawn(idx int, name string) error {
	return f(idx, name)
}

// Option configures a BuilderChain.
type Option func(*BuilderChain)

// WithLogger sets the logger used for stage progress.
func WithLogger(log logr.Logger) Option {
	return func(c *BuilderChain) {
		c.log = log
	}
}

// WithHistory records a snapshot after each generation step.
func WithHistory(h HistorySink) Option {
	return func(c *BuilderChain) {
		c.BuildData.history = h
	}
}

// WithTracer overrides the tracer used for run and stage spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *BuilderChain) {
		c.tracer = t
	}
}

// WithSpawnTable overrides the depth-based spawn table.
func WithSpawnTable(t *spawn.Table) Option {
	return func(c *BuilderChain) {
		c.BuildData.SpawnTable = t
	}
}

// WithWFCAttempts caps wave function collapse attempts for every WFC stage
// in the chain.
func WithWFCAttempts(n int) Option {
	return func(c *BuilderChain) {
		c.BuildData.WFCMaxAttempts = n
	}
}

var registry = sync.OnceValue(spawn.MustLoadRegistry)

// BuilderChain runs one initial builder followed by meta builders in order.
type BuilderChain struct {
	Name      string
	Depth     int
	BuildData *BuilderMap

	starter  InitialBuilder
	builders []MetaBuilder
	log      logr.Logger
	tracer   trace.Tracer
}

// NewBuilderChain creates a chain over a wall-filled width*height map.
func NewBuilderChain(depth, width, height int, name string, opts ...Option) *BuilderChain {
	c := &BuilderChain{
		Name:  name,
		Depth: depth,
		BuildData: &BuilderMap{
			Map:     world.NewMap(depth, width, height, name),
			Width:   width,
			Height:  height,
			history: discardHistory{},
		},
		log:    logr.Discard(),
		tracer: telemetry.Tracer("mapgen"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.BuildData.SpawnTable == nil {
		c.BuildData.SpawnTable = registry().ForDepth(depth)
	}
	c.BuildData.Log = c.log
	return c
}

// StartWith sets the initial builder. Setting it twice is a recipe bug and panics.
func (c *BuilderChain) StartWith(b InitialBuilder) *BuilderChain {
	if c.starter != nil {
		panic("mapgen: builder chain already has an initial builder")
	}
	c.starter = b
	return c
}

// With appends a meta builder.
func (c *BuilderChain) With(b MetaBuilder) *BuilderChain {
	c.builders = append(c.builders, b)
	return c
}

// Stages returns the stage names in execution order.
func (c *BuilderChain) Stages() []string {
	out := make([]string, 0, len(c.builders)+1)
	if c.starter != nil {
		out = append(out, stageName(c.starter))
	}
	for _, b := range c.builders {
		out = append(out, stageName(b))
	}
	return out
}

// Run executes the initial builder and then every meta builder against the
// shared BuilderMap. Stage errors are returned wrapped with the stage name.
func (c *BuilderChain) Run(ctx context.Context, rng *rand.Rand) error {
	if c.starter == nil {
		panic("mapgen: cannot run a builder chain without an initial builder")
	}

	runID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "mapgen.run", trace.WithAttributes(
		attribute.String("mapgen.run_id", runID),
		attribute.String("mapgen.name", c.Name),
		attribute.Int("mapgen.depth", c.Depth),
		attribute.Int("mapgen.width", c.BuildData.Width),
		attribute.Int("mapgen.height", c.BuildData.Height),
		attribute.Int("mapgen.stages", len(c.builders)+1),
	))
	defer span.End()

	log := c.log.WithValues("run", runID, "level", c.Name, "depth", c.Depth)
	c.BuildData.Log = log
	startTime := time.Now()

	err := c.runStage(ctx, log, c.starter, func() error {
		return c.starter.BuildInitial(rng, c.BuildData)
	})
	for _, b := range c.builders {
		if err != nil {
			break
		}
		err = c.runStage(ctx, log, b, func() error {
			return b.BuildMeta(rng, c.BuildData)
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.Int("mapgen.walkable_tiles", c.BuildData.Map.CountPassable()),
		attribute.Int("mapgen.spawn_count", len(c.BuildData.SpawnList)),
		attribute.Int64("mapgen.generation_ms", time.Since(startTime).Milliseconds()),
	)
	log.V(1).Info("level generated",
		"walkable", c.BuildData.Map.CountPassable(),
		"spawns", len(c.BuildData.SpawnList),
		"elapsed", time.Since(startTime))
	return nil
}

func (c *BuilderChain) runStage(ctx context.Context, log logr.Logger, stage any, fn func() error) error {
	name := stageName(stage)
	_, span := c.tracer.Start(ctx, "mapgen.stage", trace.WithAttributes(
		attribute.String("mapgen.stage", name),
	))
	defer span.End()

	began := time.Now()
	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	floors := c.BuildData.Map.CountPassable()
	span.SetAttributes(attribute.Int("mapgen.walkable_tiles", floors))
	log.V(1).Info("stage complete", "stage", name, "walkable", floors, "elapsed", time.Since(began))
	return nil
}

// SpawnEntities hands every queued spawn to s, in order. It stops at the
// first error.
func (c *BuilderChain) SpawnEntities(s Spawner) error {
	return SpawnAll(c.BuildData.SpawnList, s)
}

// SpawnAll hands list to s in order, stopping at the first error.
func SpawnAll(list []Spawn, s Spawner) error {
	for _, sp := range list {
		if err := s.Spawn(sp.Idx, sp.Name); err != nil {
			return fmt.Errorf("spawn %q at %d: %w", sp.Name, sp.Idx, err)
		}
	}
	return nil
}

func stageName(stage any) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", stage), "*")
	return strings.TrimPrefix(name, "mapgen.")
}
