package engine

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/cover"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// ActionKind names the pending action a controller has declared for the
// active unit. The declaration is advisory state for presentation
// callers; commands do not require one.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionStep
	ActionStrike
	ActionAbility
	ActionStance
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionStep:
		return "step"
	case ActionStrike:
		return "strike"
	case ActionAbility:
		return "ability"
	case ActionStance:
		return "stance"
	default:
		return "unknown"
	}
}

// Declare records the pending action kind for the active unit.
func (e *Engine) Declare(k ActionKind) { e.pending = k }

// Pending returns the declared pending action kind.
func (e *Engine) Pending() ActionKind { return e.pending }

// ValidMoves returns every cell the active unit can reach with a full
// move, sorted row-major for deterministic iteration. Empty outside
// combat.
func (e *Engine) ValidMoves() []geom.Point {
	u := e.ActiveUnit()
	if u == nil || !u.Alive() {
		return nil
	}
	reach := grid.MovementRange(e.grid, u.Pos, u.Speed, e.occupied(u.ID))
	out := make([]geom.Point, 0, len(reach))
	for p := range reach {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// ValidTargets returns the living opposing units the active unit could
// strike right now: in weapon range with a clear sightline. Ammo is not
// considered; an empty magazine makes the strike illegal, not the
// target invalid.
func (e *Engine) ValidTargets() []uuid.UUID {
	u := e.ActiveUnit()
	if u == nil || !u.Alive() {
		return nil
	}
	var out []uuid.UUID
	for _, w := range e.roster {
		if !w.Alive() || w == u || w.Side() == u.Side() {
			continue
		}
		if geom.Chebyshev(u.Pos, w.Pos) > u.Weapon.Range {
			continue
		}
		if !cover.LineOfSight(e.grid, u.Pos, w.Pos) {
			continue
		}
		out = append(out, w.ID)
	}
	return out
}

// CoverPreview reports the sightline and computed cover tier between two
// arbitrary cells, for hover tooling. The tier ignores take-cover and
// precision effects, which are per-attack.
func (e *Engine) CoverPreview(from, to geom.Point) (tier cover.Tier, los bool) {
	los = cover.LineOfSight(e.grid, from, to)
	if !los {
		return cover.None, false
	}
	return cover.Between(e.grid, from, to, e.occupiedExceptAt(from, to)), true
}

// occupiedExceptAt builds the living-unit occupancy map excluding
// whatever stands on the two given cells.
func (e *Engine) occupiedExceptAt(a, b geom.Point) map[geom.Point]bool {
	occ := make(map[geom.Point]bool)
	for _, u := range e.roster {
		if u.Alive() && u.Pos != a && u.Pos != b {
			occ[u.Pos] = true
		}
	}
	return occ
}

// Log returns a copy of the full combat log.
func (e *Engine) Log() []LogEntry {
	out := make([]LogEntry, len(e.log))
	copy(out, e.log)
	return out
}
