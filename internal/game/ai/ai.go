// Package ai drives enemy units through the engine's public command
// surface. The controller is a pure synchronous step-producer: given the
// current engine state it returns the next action or reports that the
// turn holds nothing further. Pacing, animation, and any other delay
// belongs to the caller's loop, never in here.
package ai

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/engine"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Kind names an AI-producible action.
type Kind int

const (
	Strike Kind = iota
	Move
	Reload
)

// Action is one step the controller wants taken.
type Action struct {
	Kind   Kind
	Target uuid.UUID  // Strike
	Dest   geom.Point // Move
}

// Controller produces the next action for the active unit, or ok=false
// when nothing beneficial remains and the turn should end.
type Controller interface {
	Next(e *engine.Engine) (Action, bool)
}

// Greedy is the reference policy: close on the nearest living opposing
// unit and attack it the moment range and sight allow.
type Greedy struct{}

// Next implements Controller.
//
// Postcondition: a returned action is legal against the engine state it
// was derived from.
func (Greedy) Next(e *engine.Engine) (Action, bool) {
	u := e.ActiveUnit()
	if u == nil || !u.CanAct() {
		return Action{}, false
	}
	tgt := nearestOpponent(e, u)
	if tgt == nil {
		return Action{}, false
	}

	inRange := geom.Chebyshev(u.Pos, tgt.Pos) <= u.Weapon.Range
	if inRange && lineOfSight(e, u.Pos, tgt.Pos) {
		if !u.Weapon.Loaded() {
			return Action{Kind: Reload}, true
		}
		return Action{Kind: Strike, Target: tgt.ID}, true
	}

	best, ok := closingMove(e, u, tgt)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: Move, Dest: best}, true
}

// Apply executes one action against the engine.
func Apply(e *engine.Engine, a Action) error {
	switch a.Kind {
	case Strike:
		_, err := e.Strike(a.Target)
		return err
	case Move:
		return e.Move(a.Dest)
	case Reload:
		return e.Reload()
	default:
		return nil
	}
}

// PlayTurn drives the active unit's whole turn with the given
// controller, ending the turn once the controller is done. Any rejected
// action also ends the turn so a confused policy cannot stall the
// encounter.
func PlayTurn(e *engine.Engine, c Controller) error {
	u := e.ActiveUnit()
	if u == nil {
		return nil
	}
	for e.Phase() == engine.Combat && e.ActiveUnit() == u {
		a, ok := c.Next(e)
		if !ok {
			return e.EndTurn()
		}
		if err := Apply(e, a); err != nil {
			if e.Phase() == engine.Combat && e.ActiveUnit() == u {
				return e.EndTurn()
			}
			return nil
		}
	}
	return nil
}

func nearestOpponent(e *engine.Engine, u *unit.Unit) *unit.Unit {
	var best *unit.Unit
	bestDist := 0
	for _, w := range e.Units() {
		if !w.Alive() || w.Side() == u.Side() {
			continue
		}
		d := geom.Chebyshev(u.Pos, w.Pos)
		if best == nil || d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// closingMove picks the reachable cell that minimizes distance to the
// target, provided it actually improves on standing still.
func closingMove(e *engine.Engine, u *unit.Unit, tgt *unit.Unit) (geom.Point, bool) {
	current := geom.Chebyshev(u.Pos, tgt.Pos)
	best := geom.Point{}
	bestDist := current
	found := false
	for _, p := range e.ValidMoves() {
		if d := geom.Chebyshev(p, tgt.Pos); d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

func lineOfSight(e *engine.Engine, a, b geom.Point) bool {
	_, los := e.CoverPreview(a, b)
	return los
}
