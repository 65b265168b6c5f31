package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// CullUnreachable walls off every walkable tile the starting position cannot
// reach and drops spawn requests that were sitting on them.
type CullUnreachable struct{}

func NewCullUnreachable() *CullUnreachable {
	return &CullUnreachable{}
}

func (CullUnreachable) BuildMeta(_ *rand.Rand, bm *BuilderMap) error {
	start, err := bm.StartIdx()
	if err != nil {
		return err
	}
	culled := world.CullUnreachable(bm.Map, start)
	if len(culled) > 0 {
		kept := bm.SpawnList[:0]
		for _, s := range bm.SpawnList {
			if bm.Map.Tiles[s.Idx].IsPassable() {
				kept = append(kept, s)
			}
		}
		bm.SpawnList = kept
		bm.Log.V(2).Info("culled unreachable tiles", "count", len(culled))
	}
	bm.TakeSnapshot()
	return nil
}
