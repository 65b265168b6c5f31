package mapgen

import (
	"math/rand"

	"github.com/samdwyer/mapforge/internal/world"
)

// bspNode is a node of the partition tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *world.Rect
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// BspDungeonBuilder halves the map recursively, places one room per leaf
// and joins sibling subtrees with jittered corridors.
type BspDungeonBuilder struct {
	MinLeaf int // Leaves are never split below this size
	MinRoom int
	MaxRoom int
}

// NewBspDungeon returns a BSP builder tuned for 80x50 maps.
func NewBspDungeon() *BspDungeonBuilder {
	return &BspDungeonBuilder{MinLeaf: 10, MinRoom: 4, MaxRoom: 12}
}

func (b *BspDungeonBuilder) BuildInitial(rng *rand.Rand, bm *BuilderMap) error {
	root := &bspNode{x: 1, y: 1, width: bm.Width - 2, height: bm.Height - 2}

	stack := []*bspNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.split(rng, node) {
			stack = append(stack, node.right, node.left)
		}
	}

	bm.Rooms = make([]world.Rect, 0)
	for _, leaf := range leaves(root) {
		if room, ok := b.createRoom(rng, leaf); ok {
			leaf.room = &room
			applyRoom(bm.Map, room)
			bm.Rooms = append(bm.Rooms, room)
			bm.TakeSnapshot()
		}
	}
	if len(bm.Rooms) == 0 {
		return ErrNoRooms
	}

	bm.Corridors = make([][]int, 0, len(bm.Rooms))
	for _, node := range postOrder(root) {
		if node.isLeaf() {
			continue
		}
		left, right := firstRoom(node.left), firstRoom(node.right)
		if left == nil || right == nil {
			continue
		}
		x1, y1 := jitter(rng, *left)
		x2, y2 := jitter(rng, *right)
		bm.Corridors = append(bm.Corridors, lCorridor(rng, bm.Map, x1, y1, x2, y2))
		bm.TakeSnapshot()
	}
	return nil
}

// split divides node in two, choosing the axis with a coin weighted by the
// node's aspect ratio. It returns false when the node is too small.
func (b *BspDungeonBuilder) split(rng *rand.Rand, node *bspNode) bool {
	canH := node.height >= b.MinLeaf*2
	canV := node.width >= b.MinLeaf*2
	if !canH && !canV {
		return false
	}

	horizontal := rng.Intn(node.width+node.height) < node.height
	if horizontal && !canH {
		horizontal = false
	} else if !horizontal && !canV {
		horizontal = true
	}

	if horizontal {
		pos := b.MinLeaf + rng.Intn(node.height-2*b.MinLeaf+1)
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: pos}
		node.right = &bspNode{x: node.x, y: node.y + pos, width: node.width, height: node.height - pos}
	} else {
		pos := b.MinLeaf + rng.Intn(node.width-2*b.MinLeaf+1)
		node.left = &bspNode{x: node.x, y: node.y, width: pos, height: node.height}
		node.right = &bspNode{x: node.x + pos, y: node.y, width: node.width - pos, height: node.height}
	}
	return true
}

// createRoom picks a room strictly inside leaf. The returned rect follows the
// carving convention, so its floor is X1+1..X2 by Y1+1..Y2.
func (b *BspDungeonBuilder) createRoom(rng *rand.Rand, leaf *bspNode) (world.Rect, bool) {
	maxW := min(b.MaxRoom, leaf.width-2)
	maxH := min(b.MaxRoom, leaf.height-2)
	if maxW < b.MinRoom || maxH < b.MinRoom {
		return world.Rect{}, false
	}
	w := b.MinRoom + rng.Intn(maxW-b.MinRoom+1)
	h := b.MinRoom + rng.Intn(maxH-b.MinRoom+1)
	x := leaf.x + 1 + rng.Intn(leaf.width-w-1)
	y := leaf.y + 1 + rng.Intn(leaf.height-h-1)
	return world.NewRect(x-1, y-1, w, h), true
}

// jitter picks a random floor tile of a carved room.
func jitter(rng *rand.Rand, r world.Rect) (int, int) {
	return r.X1 + 1 + rng.Intn(r.Width()), r.Y1 + 1 + rng.Intn(r.Height())
}

// leaves returns the leaf nodes left to right.
func leaves(root *bspNode) []*bspNode {
	var out []*bspNode
	stack := []*bspNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.isLeaf() {
			out = append(out, node)
			continue
		}
		stack = append(stack, node.right, node.left)
	}
	return out
}

// postOrder returns every node with children before parents.
func postOrder(root *bspNode) []*bspNode {
	var out []*bspNode
	stack := []*bspNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, node)
		if !node.isLeaf() {
			stack = append(stack, node.left, node.right)
		}
	}
	// out is a reversed post-order (node, right, left)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// firstRoom returns the leftmost room in a subtree.
func firstRoom(node *bspNode) *world.Rect {
	for _, leaf := range leaves(node) {
		if leaf.room != nil {
			return leaf.room
		}
	}
	return nil
}
