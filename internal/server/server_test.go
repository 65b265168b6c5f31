package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/samdwyer/mapforge/internal/level"
	"github.com/samdwyer/mapforge/internal/mapgen"
	"github.com/samdwyer/mapforge/internal/world"
)

type stubLevels struct {
	levels map[int]*level.Artifact
	err    error
}

func (s stubLevels) Get(_ context.Context, depth int) (*level.Artifact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.levels[depth], nil
}

func (s stubLevels) Depths() []int {
	depths := make([]int, 0, len(s.levels))
	for d := range s.levels {
		depths = append(depths, d)
	}
	slices.Sort(depths)
	return depths
}

func (s stubLevels) BaseSeed() int64 { return 5 }

func stubArtifact() *level.Artifact {
	m := world.ParseMap(2, "stub", []string{
		"#####",
		"#..>#",
		"#####",
	})
	return &level.Artifact{
		Name:      "stub",
		Depth:     2,
		Seed:      7,
		Map:       m,
		Start:     world.Point{X: 1, Y: 1},
		SpawnList: []mapgen.Spawn{{Idx: 7, Name: "Rat"}},
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(stubLevels{}, logr.Discard()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetLevel(t *testing.T) {
	router := NewRouter(stubLevels{levels: map[int]*level.Artifact{2: stubArtifact()}}, logr.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/levels/2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var body struct {
		Name   string         `json:"name"`
		Depth  int            `json:"depth"`
		Width  int            `json:"width"`
		Start  world.Point    `json:"start"`
		Spawns []mapgen.Spawn `json:"spawns"`
		Tiles  []string       `json:"tiles"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Name != "stub" || body.Depth != 2 || body.Width != 5 {
		t.Errorf("Unexpected level header %+v", body)
	}
	if len(body.Tiles) != 3 || body.Tiles[1] != "#..>#" {
		t.Errorf("Tiles = %q", body.Tiles)
	}
	if len(body.Spawns) != 1 || body.Spawns[0].Name != "Rat" {
		t.Errorf("Spawns = %v", body.Spawns)
	}
}

func TestGetASCII(t *testing.T) {
	router := NewRouter(stubLevels{levels: map[int]*level.Artifact{2: stubArtifact()}}, logr.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/levels/2/ascii", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := "#####\n#@.>#\n#####\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("ascii = %q, want %q", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestLevelErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		levels stubLevels
		status int
	}{
		{"not a number", "/levels/deep", stubLevels{}, http.StatusBadRequest},
		{"zero depth", "/levels/0", stubLevels{}, http.StatusBadRequest},
		{"too deep", "/levels/1000", stubLevels{}, http.StatusBadRequest},
		{"placement", "/levels/1", stubLevels{err: mapgen.ErrBuildingPlacement}, http.StatusUnprocessableEntity},
		{"generation", "/levels/3", stubLevels{err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tt.levels, logr.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestServesStore(t *testing.T) {
	cfg := level.DefaultConfig()
	cfg.Seed = 12
	store := level.NewStore(cfg, logr.Discard())
	router := NewRouter(store, logr.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/levels/8/ascii", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if n := strings.Count(rec.Body.String(), "@"); n != 1 {
		t.Errorf("Expected one start marker, got %d", n)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/levels", nil))
	var index struct {
		BaseSeed int64 `json:"base_seed"`
		Depths   []int `json:"depths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&index); err != nil {
		t.Fatal(err)
	}
	if index.BaseSeed != 12 || !slices.Equal(index.Depths, []int{8}) {
		t.Errorf("GET /levels = %+v, want seed 12 and depths [8]", index)
	}
}
