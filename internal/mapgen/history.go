package mapgen

import "github.com/samdwyer/mapforge/internal/world"

// HistorySink receives grid snapshots while a chain runs.
type HistorySink interface {
	Snapshot(m *world.Map)
}

type discardHistory struct{}

func (discardHistory) Snapshot(*world.Map) {}

// SnapshotHistory keeps a deep copy of every snapshot, in order.
type SnapshotHistory struct {
	Frames []*world.Map
}

// NewSnapshotHistory creates an empty history.
func NewSnapshotHistory() *SnapshotHistory {
	return &SnapshotHistory{}
}

// Snapshot appends a copy of m.
func (h *SnapshotHistory) Snapshot(m *world.Map) {
	h.Frames = append(h.Frames, m.Clone())
}

// Len returns the number of recorded frames.
func (h *SnapshotHistory) Len() int {
	return len(h.Frames)
}
