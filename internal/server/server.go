// Package server exposes generated levels over HTTP for debugging.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/samdwyer/mapforge/internal/level"
	"github.com/samdwyer/mapforge/internal/mapgen"
)

const maxDepth = 100

// LevelSource provides levels by depth. level.Store implements it.
type LevelSource interface {
	Get(ctx context.Context, depth int) (*level.Artifact, error)
	Depths() []int
	BaseSeed() int64
}

// Handler serves the level endpoints.
type Handler struct {
	levels LevelSource
	log    logr.Logger
}

// NewRouter returns the routes for levels.
func NewRouter(levels LevelSource, log logr.Logger) http.Handler {
	h := &Handler{levels: levels, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/levels", h.ListLevels)
	r.Route("/levels/{depth}", func(r chi.Router) {
		r.Get("/", h.GetLevel)
		r.Get("/ascii", h.GetASCII)
	})
	return r
}

// levelResponse is the JSON shape of GET /levels/{depth}.
type levelResponse struct {
	*level.Artifact
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Checksum string   `json:"checksum"`
	Tiles    []string `json:"tiles"`
}

// ListLevels handles GET /levels: the base seed and the depths generated so far.
func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		BaseSeed int64 `json:"base_seed"`
		Depths   []int `json:"depths"`
	}{h.levels.BaseSeed(), h.levels.Depths()})
}

// GetLevel handles GET /levels/{depth}.
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, levelResponse{
		Artifact: a,
		Width:    a.Map.Width,
		Height:   a.Map.Height,
		Checksum: strconv.FormatUint(a.Map.Checksum(), 16),
		Tiles:    a.Rows(),
	})
}

// GetASCII handles GET /levels/{depth}/ascii. The start is drawn as '@'.
func (h *Handler) GetASCII(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	rows := a.Rows()
	line := []rune(rows[a.Start.Y])
	line[a.Start.X] = '@'
	rows[a.Start.Y] = string(line)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Join(rows, "\n") + "\n"))
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*level.Artifact, bool) {
	depth, err := strconv.Atoi(chi.URLParam(r, "depth"))
	if err != nil || depth < 1 || depth > maxDepth {
		respondError(w, http.StatusBadRequest, "depth must be an integer between 1 and "+strconv.Itoa(maxDepth))
		return nil, false
	}
	a, err := h.levels.Get(r.Context(), depth)
	if err != nil {
		h.log.Error(err, "level generation failed", "depth", depth)
		status := http.StatusInternalServerError
		if errors.Is(err, mapgen.ErrBuildingPlacement) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, err.Error())
		return nil, false
	}
	return a, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
