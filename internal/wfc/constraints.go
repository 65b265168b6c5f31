package wfc

import "github.com/bits-and-blooms/bitset"

// BuildConstraints computes, for every chunk and side, the set of chunks
// whose facing border is identical. Neighboring output chunks overlap by one
// row or column, so identical borders are exactly the compatibility rule.
//
// Chunks sharing a border hash share the same (read-only) bitset.
func (ps *PatternSet) BuildConstraints() {
	n := uint(len(ps.Chunks))
	for _, c := range ps.Chunks {
		for _, s := range AllSides() {
			c.Edges[s] = hashTiles(c.Edge(ps.Size, s))
		}
	}

	// groups[s][edge] = chunks whose border on side s hashes to edge
	var groups [4]map[uint64]*bitset.BitSet
	for _, s := range AllSides() {
		groups[s] = make(map[uint64]*bitset.BitSet)
		for _, c := range ps.Chunks {
			set, ok := groups[s][c.Edges[s]]
			if !ok {
				set = bitset.New(n)
				groups[s][c.Edges[s]] = set
			}
			set.Set(uint(c.ID))
		}
	}

	empty := bitset.New(n)
	for _, c := range ps.Chunks {
		for _, s := range AllSides() {
			if set, ok := groups[s.Opposite()][c.Edges[s]]; ok {
				c.Compatible[s] = set
			} else {
				c.Compatible[s] = empty
			}
		}
	}
}

// Compatible reports whether chunk b may sit on side s of chunk a.
func (ps *PatternSet) Compatible(a, b int, s Side) bool {
	set := ps.Chunks[a].Compatible[s]
	return set != nil && set.Test(uint(b))
}
