// Package geom provides the pure geometry kernel for the tactical grid:
// the distance metric, adjacency enumeration, and segment-to-cell line
// tracing. It holds no mutable state.
package geom

// Point is a grid cell coordinate.
type Point struct {
	X int
	Y int
}

// Vec is a continuous position in grid space. Cell (x, y) spans
// [x, x+1) × [y, y+1); its center is (x+0.5, y+0.5).
type Vec struct {
	X float64
	Y float64
}

// Center returns the continuous center of cell p.
func Center(p Point) Vec {
	return Vec{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
}

// Chebyshev returns the Chebyshev distance between a and b: max(|dx|, |dy|).
// Diagonal steps cost the same as orthogonal steps, so this is the metric
// for both movement range and weapon range.
//
// Postcondition: Chebyshev(a, b) == Chebyshev(b, a); return value >= 0.
func Chebyshev(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Adjacent returns the up-to-8 neighbors of p clipped to a w×h grid.
//
// Precondition: w > 0 and h > 0.
// Postcondition: every returned point is in bounds and at Chebyshev
// distance exactly 1 from p; p itself is never included.
func Adjacent(p Point, w, h int) []Point {
	out := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Point{X: p.X + dx, Y: p.Y + dy}
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// CornerInset is how far cell corners are pulled toward the cell center
// before corner-to-corner sight tracing. A zero inset would make every
// sightline graze the cell's own boundary walls.
const CornerInset = 0.05

// Corners returns the four inset corners of cell p, used as ray endpoints
// for corner-to-corner line-of-sight checks.
func Corners(p Point) [4]Vec {
	x0 := float64(p.X) + CornerInset
	y0 := float64(p.Y) + CornerInset
	x1 := float64(p.X) + 1 - CornerInset
	y1 := float64(p.Y) + 1 - CornerInset
	return [4]Vec{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x0, Y: y1},
		{X: x1, Y: y1},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
