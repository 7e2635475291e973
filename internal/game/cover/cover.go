// Package cover classifies attack geometry: whether a sightline exists
// between two cells, and which cover tier the target benefits from.
//
// Line of sight and cover deliberately use different tracing strategies.
// Sight is corner-to-corner and permissive: a unit can always peek around
// a wall corner, which is load-bearing for tactical positioning. Cover is
// center-to-center and stricter, so a sliver of sight past a wall still
// leaves the target behind hard cover.
package cover

import (
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Tier is the cover classification of one attack.
type Tier int

const (
	None Tier = iota
	Lesser
	Standard
	Greater
)

// Bonus returns the effective-AC bonus for the tier. Cover raises the
// defender's AC rather than penalising the attack roll, so it composes
// with shields and stances without special cases.
//
// Postcondition: return value ∈ {0, 1, 2, 4}.
func (t Tier) Bonus() int {
	switch t {
	case Lesser:
		return 1
	case Standard:
		return 2
	case Greater:
		return 4
	default:
		return 0
	}
}

// String returns the tier name used in log entries.
func (t Tier) String() string {
	switch t {
	case None:
		return "none"
	case Lesser:
		return "lesser"
	case Standard:
		return "standard"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

// LineOfSight reports whether any sightline exists from cell a to cell b.
// All 16 pairings of the two cells' inset corners are traced; sight is
// clear if any pairing crosses no wall cell. The endpoint cells themselves
// never block.
//
// Precondition: a and b must be in bounds.
func LineOfSight(g *grid.Grid, a, b geom.Point) bool {
	if a == b {
		return true
	}
	ca := geom.Corners(a)
	cb := geom.Corners(b)
	for _, from := range ca {
		for _, to := range cb {
			if segmentClear(g, from, to, a, b) {
				return true
			}
		}
	}
	return false
}

// segmentClear reports whether the segment crosses no sight-blocking cell,
// ignoring the two endpoint cells.
func segmentClear(g *grid.Grid, from, to geom.Vec, a, b geom.Point) bool {
	for _, c := range geom.TraceLine(from, to) {
		if c == a || c == b {
			continue
		}
		if g.InBounds(c) && g.At(c).BlocksSight() {
			return false
		}
	}
	return true
}

// Between computes the target's cover tier for an attack from attacker to
// target, tracing center-to-center. occupied holds the positions of every
// other living unit (attacker and target excluded).
//
// Sources along the path:
//   - cover-granting terrain (crates, doors): Standard, unless the
//     attacker stands adjacent to that cell while the target does not —
//     shooting around an obstruction at arm's length denies its cover
//   - a wall cell (corner sight may still be clear): Greater
//   - any other unit: Lesser, unconditionally — creatures move
//     unpredictably, so no adjacency rule applies
//
// Sources never stack; the single highest tier found wins.
//
// Postcondition: return value is one of the four defined tiers.
func Between(g *grid.Grid, attacker, target geom.Point, occupied map[geom.Point]bool) Tier {
	best := None
	for _, c := range geom.TraceCells(attacker, target) {
		if c == attacker || c == target || !g.InBounds(c) {
			continue
		}
		t := g.At(c)
		switch {
		case t.BlocksSight():
			return Greater // highest possible tier; nothing can beat it
		case t.GrantsCover():
			denied := geom.Chebyshev(attacker, c) == 1 && geom.Chebyshev(target, c) != 1
			if !denied && best < Standard {
				best = Standard
			}
		}
		if occupied[c] && best < Lesser {
			best = Lesser
		}
	}
	return best
}

// Upgrade returns the tier after the target's take-cover action. A unit
// hunkered behind anything counts as at least standard; existing standard
// cover hardens to greater.
func Upgrade(t Tier) Tier {
	switch t {
	case None, Lesser:
		return Standard
	default:
		return Greater
	}
}

// Resolve applies the per-attack overrides to a computed tier:
// the attacker's precision effect forces None regardless of geometry;
// the target's enhanced take-cover forces Greater; basic take-cover
// upgrades one step via Upgrade.
func Resolve(computed Tier, takingCover, enhancedCover, attackerPrecision bool) Tier {
	if attackerPrecision {
		return None
	}
	if enhancedCover {
		return Greater
	}
	if takingCover {
		return Upgrade(computed)
	}
	return computed
}
