// Package grid provides the battlefield model: a fixed-size square array
// of terrain cells plus the weighted movement-range expansion over it.
package grid

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Terrain is the closed set of cell kinds.
type Terrain int

const (
	Floor Terrain = iota
	Wall
	Crate // difficult terrain: double move cost, grants cover
	Door  // moves and sights like floor, grants cover
)

// String returns the human-readable terrain name.
func (t Terrain) String() string {
	switch t {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Crate:
		return "crate"
	case Door:
		return "door"
	default:
		return "unknown"
	}
}

// BlocksMove reports whether units cannot enter this terrain.
func (t Terrain) BlocksMove() bool { return t == Wall }

// BlocksSight reports whether this terrain interrupts sightlines.
func (t Terrain) BlocksSight() bool { return t == Wall }

// GrantsCover reports whether this terrain can grant standard cover when it
// sits on the attack line.
func (t Terrain) GrantsCover() bool { return t == Crate || t == Door }

// MoveCost returns the action cost of entering a cell of this terrain.
//
// Precondition: !t.BlocksMove().
func (t Terrain) MoveCost() int {
	if t == Crate {
		return 2
	}
	return 1
}

// Grid is a fixed-size battlefield. Dimensions are set at construction and
// never change; cells never change kind.
type Grid struct {
	width  int
	height int
	cells  []Terrain
}

// New creates a w×h grid of Floor cells.
//
// Precondition: w > 0 and h > 0.
func New(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", w, h))
	}
	return &Grid{width: w, height: h, cells: make([]Terrain, w*h)}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// At returns the terrain at p.
//
// Precondition: p must be in bounds.
func (g *Grid) At(p geom.Point) Terrain {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: At(%v) out of %dx%d bounds", p, g.width, g.height))
	}
	return g.cells[p.Y*g.width+p.X]
}

// Set assigns the terrain at p. Used only during construction; established
// encounters never mutate terrain.
//
// Precondition: p must be in bounds.
func (g *Grid) Set(p geom.Point, t Terrain) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: Set(%v) out of %dx%d bounds", p, g.width, g.height))
	}
	g.cells[p.Y*g.width+p.X] = t
}

// Passable reports whether p is in bounds and not movement-blocking.
func (g *Grid) Passable(p geom.Point) bool {
	return g.InBounds(p) && !g.At(p).BlocksMove()
}
