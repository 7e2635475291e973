package grid

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Terrain glyphs used by map definitions:
//
//	'.'  floor
//	'#'  wall
//	'%'  crate (difficult terrain)
//	'+'  door
const (
	glyphFloor = '.'
	glyphWall  = '#'
	glyphCrate = '%'
	glyphDoor  = '+'
)

// Parse builds a Grid from terrain-glyph rows. Every row must have the
// same length. An unknown glyph or a ragged layout is a content-authoring
// bug and fails immediately.
//
// Precondition: rows must be non-empty with non-empty first row.
// Postcondition: returned grid has height len(rows) and width len(rows[0]).
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid: empty map layout")
	}
	width := len(rows[0])
	g := New(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", y, len(row), width)
		}
		for x, glyph := range []byte(row) {
			t, err := terrainForGlyph(glyph)
			if err != nil {
				return nil, fmt.Errorf("grid: row %d col %d: %w", y, x, err)
			}
			g.Set(geom.Point{X: x, Y: y}, t)
		}
	}
	return g, nil
}

// MustParse parses rows and panics on error. Useful for test fixtures.
func MustParse(rows []string) *Grid {
	g, err := Parse(rows)
	if err != nil {
		panic("grid: MustParse: " + err.Error())
	}
	return g
}

func terrainForGlyph(b byte) (Terrain, error) {
	switch b {
	case glyphFloor:
		return Floor, nil
	case glyphWall:
		return Wall, nil
	case glyphCrate:
		return Crate, nil
	case glyphDoor:
		return Door, nil
	default:
		return Floor, fmt.Errorf("unknown terrain glyph %q", string(b))
	}
}
