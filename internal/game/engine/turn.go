package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// beginTurn grants the active unit a fresh budget and resets its strike
// counter.
//
// Precondition: the cursor points at a living unit.
func (e *Engine) beginTurn() {
	u := e.ActiveUnit()
	u.ActionsLeft = e.actionsPerTurn
	u.StrikesThisTurn = 0
	e.pending = ActionNone
	e.appendLog(CatTurn, fmt.Sprintf("%s acts", u.Name), "")
	e.logger.Debug("turn begins",
		zap.String("unit", u.Name),
		zap.Int("round", e.round),
		zap.Int("actions", u.ActionsLeft),
	)
}

// EndTurn closes the active unit's turn and advances the cursor.
func (e *Engine) EndTurn() error {
	if e.phase != Combat {
		return e.reject(nil, "no turn is open")
	}
	e.advance()
	return nil
}

// advance moves the cursor to the next living unit, wrapping the round
// and expiring effects when the full order has been traversed. Victory
// and defeat are checked eagerly after every hp mutation, so a living
// unit must exist; hitting the guard is a defect, not a game state.
func (e *Engine) advance() {
	for tries := 0; tries <= len(e.order); tries++ {
		e.cursor++
		if e.cursor >= len(e.order) {
			e.cursor = 0
			e.round++
			e.appendLog(CatRound, fmt.Sprintf("round %d begins", e.round), "")
			e.expireEffects()
		}
		if e.phase != Combat {
			return
		}
		if u := e.units[e.order[e.cursor]]; u.Alive() {
			e.beginTurn()
			return
		}
	}
	panic("engine: no living unit in initiative order")
}

// expireEffects runs the once-per-round duration decrement across every
// living unit, pruning anything that reaches zero.
func (e *Engine) expireEffects() {
	for _, u := range e.roster {
		if !u.Alive() {
			continue
		}
		for _, k := range u.Effects.Tick() {
			e.appendLog(CatEffect, fmt.Sprintf("%s loses %s", u.Name, k), "")
		}
	}
}

// spend deducts cost from u's budget and auto-advances the turn when the
// budget is exhausted or u died to its own action. Always the last step
// of a command.
func (e *Engine) spend(u *unit.Unit, cost int) {
	u.SpendActions(cost)
	if e.phase != Combat || e.ActiveUnit() != u {
		return
	}
	if u.ActionsLeft == 0 || !u.Alive() {
		e.advance()
	}
}

// requireActive validates that a command may run right now and returns
// the acting unit.
func (e *Engine) requireActive(cost int) (*unit.Unit, error) {
	if e.phase != Combat {
		return nil, e.reject(nil, "no encounter in progress")
	}
	u := e.ActiveUnit()
	if !u.Alive() {
		return nil, e.reject(u, "unit is down")
	}
	if u.ActionsLeft < cost {
		return nil, e.reject(u, fmt.Sprintf("needs %d actions, has %d", cost, u.ActionsLeft))
	}
	return u, nil
}
