package world

import "math"

// DistanceMetric selects how the distance between two points is measured.
type DistanceMetric int

const (
	Pythagoras DistanceMetric = iota
	Manhattan
	Chebyshev
)

// String returns the metric name.
func (d DistanceMetric) String() string {
	switch d {
	case Pythagoras:
		return "pythagoras"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	default:
		return "unknown"
	}
}

// Distance measures the distance between a and b under the metric.
func (d DistanceMetric) Distance(a, b Point) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	switch d {
	case Manhattan:
		return dx + dy
	case Chebyshev:
		return math.Max(dx, dy)
	default:
		return math.Sqrt(dx*dx + dy*dy)
	}
}

// Line returns the Bresenham line from a to b, excluding a and including b.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	points := make([]Point, 0, max(dx, -dy))
	x, y := a.X, a.Y
	for x != b.X || y != b.Y {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		points = append(points, Point{x, y})
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
