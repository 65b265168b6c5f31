package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mapforge/internal/level"
)

// LevelLoader returns the level at a depth.
type LevelLoader func(ctx context.Context, depth int) (*level.Artifact, error)

// Viewer steps through the build history of generated levels. Left and right
// move between snapshots, n and p change depth, q or Escape quits.
type Viewer struct {
	renderer *Renderer
	load     LevelLoader

	level  *level.Artifact
	frames []Frame
	frame  int
	errMsg string
}

// NewViewer creates a viewer drawing through r.
func NewViewer(r *Renderer, load LevelLoader) *Viewer {
	return &Viewer{renderer: r, load: load}
}

// Open loads depth and shows its first snapshot.
func (v *Viewer) Open(ctx context.Context, depth int) error {
	a, err := v.load(ctx, depth)
	if err != nil {
		return err
	}
	v.level = a
	v.frames = v.frames[:0]
	if a.History != nil {
		for _, m := range a.History.Frames {
			v.frames = append(v.frames, Frame{Map: m})
		}
	}
	start := a.Start
	v.frames = append(v.frames, Frame{Map: a.Map, Start: &start, Spawns: a.SpawnList})
	v.frame = 0
	v.errMsg = ""
	return nil
}

// Frame returns the index of the current snapshot and the snapshot count.
func (v *Viewer) Frame() (int, int) {
	return v.frame, len(v.frames)
}

// Depth returns the depth on screen.
func (v *Viewer) Depth() int {
	if v.level == nil {
		return 0
	}
	return v.level.Depth
}

// Draw renders the current snapshot.
func (v *Viewer) Draw() {
	if len(v.frames) == 0 {
		return
	}
	status := fmt.Sprintf("%s  depth %d  seed %d  step %d/%d  [<-/-> step, n/p depth, q quit]",
		v.level.Name, v.level.Depth, v.level.Seed, v.frame+1, len(v.frames))
	if v.errMsg != "" {
		status = v.errMsg
	}
	v.renderer.Render(v.frames[v.frame], status)
}

// HandleKey applies one key press and reports whether the viewer should keep
// running.
func (v *Viewer) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.frame = max(v.frame-1, 0)
	case tcell.KeyRight:
		v.frame = min(v.frame+1, len(v.frames)-1)
	case tcell.KeyHome:
		v.frame = 0
	case tcell.KeyEnd:
		v.frame = len(v.frames) - 1
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'n':
			v.changeDepth(ctx, v.Depth()+1)
		case 'p':
			if v.Depth() > 1 {
				v.changeDepth(ctx, v.Depth()-1)
			}
		}
	}
	return true
}

func (v *Viewer) changeDepth(ctx context.Context, depth int) {
	if err := v.Open(ctx, depth); err != nil {
		v.errMsg = fmt.Sprintf("depth %d: %v", depth, err)
	}
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run(ctx context.Context) {
	screen := v.renderer.screen
	v.Draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !v.HandleKey(ctx, ev) {
				return
			}
		case nil:
			return
		}
		v.Draw()
	}
}
