package geom

import "math"

// samplesPerCell is the sampling density for TraceLine. High enough that a
// segment cannot skip over a cell it crosses, including corner-grazing
// cells on steep diagonals.
const samplesPerCell = 16

// TraceLine enumerates every grid cell crossed by the segment from a to b,
// in order of traversal, with no duplicates. Endpoint cells are included.
//
// The endpoints are canonicalised (lexicographically smaller first) before
// sampling, so TraceLine(a, b) and TraceLine(b, a) return the same cell
// set. Naive directional stepping is asymmetric at diagonals; callers rely
// on the symmetry.
//
// Postcondition: returned slice is non-empty and contains the cells of
// both endpoints.
func TraceLine(a, b Vec) []Point {
	if less(b, a) {
		a, b = b, a
	}

	dx := b.X - a.X
	dy := b.Y - a.Y
	span := math.Max(math.Abs(dx), math.Abs(dy))
	steps := int(math.Ceil(span * samplesPerCell))
	if steps < 1 {
		steps = 1
	}

	seen := make(map[Point]struct{}, steps/samplesPerCell+2)
	out := make([]Point, 0, steps/samplesPerCell+2)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cell := Point{
			X: int(math.Floor(a.X + dx*t)),
			Y: int(math.Floor(a.Y + dy*t)),
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	return out
}

// TraceCells is TraceLine between two cell centers.
func TraceCells(a, b Point) []Point {
	return TraceLine(Center(a), Center(b))
}

// less orders Vecs lexicographically by X then Y.
func less(a, b Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
