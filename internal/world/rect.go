package world

// Rect is an axis-aligned room descriptor. X2 = X1 + width, Y2 = Y1 + height.
type Rect struct {
	X1, Y1 int // Top-left corner
	X2, Y2 int // Bottom-right corner
}

// NewRect creates a rectangle from a position and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.X2 - r.X1
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Y2 - r.Y1
}

// Area returns width times height.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// Center returns the center coordinates of the rectangle.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Contains returns true if the given point lies on or inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Intersects returns true if this rectangle overlaps or touches another.
// Edges are inclusive, so accepted rooms always keep a wall between them.
func (r Rect) Intersects(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}
