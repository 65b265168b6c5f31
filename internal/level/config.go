package level

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/samdwyer/mapforge/internal/mapgen"
)

// Config controls level generation.
type Config struct {
	// Seed for the generator. A seed of 0 means a time based seed is chosen.
	Seed   int64
	Width  int
	Height int
	Depth  int

	// History records a grid snapshot after every generation step.
	History bool

	WFCMaxAttempts int
	Verbosity      int

	// Addr is the listen address for the debug server.
	Addr string
}

// DefaultConfig returns an 80x50 depth 1 configuration.
func DefaultConfig() Config {
	return Config{
		Width:          80,
		Height:         50,
		Depth:          1,
		WFCMaxAttempts: mapgen.DefaultWFCAttempts,
		Addr:           ":8080",
	}
}

// ConfigFromEnv starts from DefaultConfig and applies any MAPFORGE_*
// variables that are set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	ints := []struct {
		name string
		dst  *int
	}{
		{"MAPFORGE_WIDTH", &cfg.Width},
		{"MAPFORGE_HEIGHT", &cfg.Height},
		{"MAPFORGE_DEPTH", &cfg.Depth},
		{"MAPFORGE_WFC_ATTEMPTS", &cfg.WFCMaxAttempts},
		{"MAPFORGE_VERBOSITY", &cfg.Verbosity},
	}
	for _, v := range ints {
		s, ok := os.LookupEnv(v.name)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}

	if s := os.Getenv("MAPFORGE_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("MAPFORGE_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if s := os.Getenv("MAPFORGE_HISTORY"); s != "" {
		h, err := strconv.ParseBool(s)
		if err != nil {
			return cfg, fmt.Errorf("MAPFORGE_HISTORY: %w", err)
		}
		cfg.History = h
	}
	if s := os.Getenv("MAPFORGE_ADDR"); s != "" {
		cfg.Addr = s
	}
	return cfg, cfg.Validate()
}

// Validate rejects dimensions no recipe can work with. Every store reaches
// the town at depth 1, so maps must be at least town sized.
func (c Config) Validate() error {
	var errs []error
	if c.Width < mapgen.TownMinWidth || c.Height < mapgen.TownMinHeight {
		errs = append(errs, fmt.Errorf("map must be at least %dx%d, got %dx%d",
			mapgen.TownMinWidth, mapgen.TownMinHeight, c.Width, c.Height))
	}
	if c.Depth < 1 {
		errs = append(errs, fmt.Errorf("depth must be positive, got %d", c.Depth))
	}
	if c.WFCMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("wfc attempts must not be negative, got %d", c.WFCMaxAttempts))
	}
	return errors.Join(errs...)
}
