package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/cover"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Move relocates the active unit to any unoccupied cell within its
// weighted movement range. Costs 1 action. Moving clears prone and may
// trip overwatch triggers on opposing units; the triggers are recorded
// in the log but no reaction strike fires in the current rules.
func (e *Engine) Move(dest geom.Point) error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	reach := grid.MovementRange(e.grid, u.Pos, u.Speed, e.occupied(u.ID))
	if _, ok := reach[dest]; !ok {
		return e.reject(u, fmt.Sprintf("cannot reach (%d,%d)", dest.X, dest.Y))
	}

	from := u.Pos
	u.Pos = dest
	e.clearProne(u)
	e.appendLog(CatMove, fmt.Sprintf("%s moves from (%d,%d) to (%d,%d)", u.Name, from.X, from.Y, dest.X, dest.Y), "")

	for _, w := range e.roster {
		if !w.Alive() || w.Side() == u.Side() || !w.Effects.Has(effect.Overwatch) {
			continue
		}
		if geom.Chebyshev(w.Pos, dest) <= w.Weapon.Range && cover.LineOfSight(e.grid, w.Pos, dest) {
			e.appendLog(CatReaction, fmt.Sprintf("%s's overwatch is triggered by %s", w.Name, u.Name), "")
		}
	}

	e.spend(u, 1)
	return nil
}

// Step is careful single-tile movement: one orthogonal or diagonal tile,
// 1 action, and no reaction triggers.
func (e *Engine) Step(dest geom.Point) error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	if geom.Chebyshev(u.Pos, dest) != 1 {
		return e.reject(u, "step must target an adjacent cell")
	}
	if !e.grid.InBounds(dest) || !e.grid.Passable(dest) || e.UnitAt(dest) != nil {
		return e.reject(u, fmt.Sprintf("cannot step to (%d,%d)", dest.X, dest.Y))
	}

	from := u.Pos
	u.Pos = dest
	e.clearProne(u)
	e.appendLog(CatMove, fmt.Sprintf("%s steps from (%d,%d) to (%d,%d)", u.Name, from.X, from.Y, dest.X, dest.Y), "")

	e.spend(u, 1)
	return nil
}

// PushUnit attempts to knock the target back dist cells along the given
// direction. A braced target has the distance clamped to 1. The push is
// all-or-nothing: if the destination would leave the grid, land on a
// wall, or land on an occupied cell, nothing moves and false is
// returned. Forced movement clears prone like any other movement.
//
// Precondition: dx, dy in {-1, 0, 1}, not both zero; dist >= 1.
func (e *Engine) PushUnit(targetID uuid.UUID, dx, dy, dist int) bool {
	tgt, ok := e.units[targetID]
	if !ok || !tgt.Alive() {
		return false
	}
	if tgt.Effects.Has(effect.Braced) && dist > 1 {
		dist = 1
		e.appendLog(CatEffect, fmt.Sprintf("%s is braced and holds ground", tgt.Name), "")
	}
	dest := geom.Point{X: tgt.Pos.X + dx*dist, Y: tgt.Pos.Y + dy*dist}
	if !e.grid.InBounds(dest) || !e.grid.Passable(dest) || e.UnitAt(dest) != nil {
		return false
	}
	from := tgt.Pos
	tgt.Pos = dest
	e.clearProne(tgt)
	e.appendLog(CatMove, fmt.Sprintf("%s is knocked from (%d,%d) to (%d,%d)", tgt.Name, from.X, from.Y, dest.X, dest.Y), "")
	return true
}

func (e *Engine) clearProne(u *unit.Unit) {
	if u.Effects.Has(effect.Prone) {
		u.Effects.Remove(effect.Prone)
		e.appendLog(CatEffect, fmt.Sprintf("%s stands up", u.Name), "")
	}
}
