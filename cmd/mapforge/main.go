// Package main is the mapforge command line: it dumps, views and serves
// generated levels.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"

	"github.com/samdwyer/mapforge/internal/entity"
	"github.com/samdwyer/mapforge/internal/level"
	"github.com/samdwyer/mapforge/internal/server"
	"github.com/samdwyer/mapforge/internal/spawn"
	"github.com/samdwyer/mapforge/internal/telemetry"
	"github.com/samdwyer/mapforge/internal/ui"
)

const usage = `usage: mapforge <command> [flags]

commands:
  dump   print a generated level as ASCII
  view   step through a level's generation in the terminal
  serve  expose generated levels over HTTP
`

func main() {
	// Not fatal: the variables may be set directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := level.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed (0 picks one from the clock)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "map width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "map height")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "dungeon depth")
	fs.IntVar(&cfg.WFCMaxAttempts, "wfc-attempts", cfg.WFCMaxAttempts, "wave function collapse attempts before failing")
	fs.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "log verbosity")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for serve")
	_ = fs.Parse(args)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	stdr.SetVerbosity(cfg.Verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
	telemetry.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Error(err, "telemetry setup failed, continuing without tracing")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error(err, "telemetry shutdown")
			}
		}()
	}

	switch cmd {
	case "dump":
		err = dump(ctx, cfg, logger)
	case "view":
		cfg.History = true
		err = view(ctx, cfg, logger)
	case "serve":
		err = serve(ctx, cfg, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(err, cmd+" failed")
		os.Exit(1)
	}
}

func dump(ctx context.Context, cfg level.Config, logger logr.Logger) error {
	a, err := level.Generate(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("%s (depth %d, seed %d)\n", a.Name, a.Depth, a.Seed)
	fmt.Print(a.Map.String())
	fmt.Printf("start (%d,%d), %d spawns, checksum %x\n", a.Start.X, a.Start.Y, len(a.SpawnList), a.Map.Checksum())

	registry, err := spawn.LoadRegistry()
	if err != nil {
		return err
	}
	pop := entity.NewPopulation(a.Map, registry)
	if err := a.SpawnEntities(pop); err != nil {
		return err
	}
	census := pop.Census()
	names := slices.Sorted(maps.Keys(census))
	for _, name := range names {
		fmt.Printf("  %-16s %d\n", name, census[name])
	}
	return nil
}

func view(ctx context.Context, cfg level.Config, logger logr.Logger) error {
	store := level.NewStore(cfg, logger)

	screen, err := ui.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Close()

	registry, err := spawn.LoadRegistry()
	if err != nil {
		return err
	}
	viewer := ui.NewViewer(ui.NewRenderer(screen, registry), store.Get)
	if err := viewer.Open(ctx, cfg.Depth); err != nil {
		return err
	}
	viewer.Run(ctx)
	return nil
}

func serve(ctx context.Context, cfg level.Config, logger logr.Logger) error {
	store := level.NewStore(cfg, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(store, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving levels", "addr", cfg.Addr, "baseSeed", store.BaseSeed())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
