package engine

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Stance effect magnitudes. Cover-style stances carry no magnitude; the
// cover resolver reads their presence, not a number.
const (
	aimedBonus       = 2
	defendBonus      = 2
	raiseShieldBonus = 2
	proneAttackPen   = 2
)

// Aim steadies the next attacks: +2 to attack rolls until round expiry.
func (e *Engine) Aim() error {
	return e.stance(effect.Effect{Kind: effect.Aimed, Magnitude: aimedBonus, Rounds: 1}, "takes aim")
}

// Defend adopts a defensive stance: +2 AC until round expiry.
func (e *Engine) Defend() error {
	return e.stance(effect.Effect{Kind: effect.Defending, Magnitude: defendBonus, Rounds: 1}, "fights defensively")
}

// RaiseShield lifts the shield: +2 AC until round expiry.
func (e *Engine) RaiseShield() error {
	return e.stance(effect.Effect{Kind: effect.ShieldRaised, Magnitude: raiseShieldBonus, Rounds: 1}, "raises a shield")
}

// DropProne flattens the unit. Prone is sticky: it persists until the
// unit moves, and it penalizes the unit's own attack rolls.
func (e *Engine) DropProne() error {
	return e.stance(effect.Effect{Kind: effect.Prone, Magnitude: proneAttackPen, Rounds: effect.Sticky}, "drops prone")
}

// Brace sets the unit against knockback, clamping any push to one cell
// until round expiry.
func (e *Engine) Brace() error {
	return e.stance(effect.Effect{Kind: effect.Braced, Rounds: 1}, "braces")
}

// Overwatch readies the weapon against enemy movement. The trigger is
// recorded when tripped; no reaction strike fires in the current rules.
func (e *Engine) Overwatch() error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	if !u.Weapon.Loaded() {
		return e.reject(u, "out of ammo")
	}
	u.Effects.Apply(effect.Effect{Kind: effect.Overwatch, Rounds: 1})
	e.appendLog(CatEffect, fmt.Sprintf("%s goes on overwatch", u.Name), "")
	e.spend(u, 1)
	return nil
}

// TakeCover presses the unit against nearby obstruction, upgrading its
// computed cover one tier against incoming attacks. Requires adjacency
// to cover-granting terrain or a wall.
func (e *Engine) TakeCover() error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	if !e.adjacentToCover(u.Pos) {
		return e.reject(u, "no cover within reach")
	}
	u.Effects.Apply(effect.Effect{Kind: effect.TakingCover, Rounds: 1})
	e.appendLog(CatEffect, fmt.Sprintf("%s takes cover", u.Name), "")
	e.spend(u, 1)
	return nil
}

func (e *Engine) stance(eff effect.Effect, verb string) error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	u.Effects.Apply(eff)
	e.appendLog(CatEffect, fmt.Sprintf("%s %s", u.Name, verb), "")
	e.spend(u, 1)
	return nil
}

// adjacentToCover reports whether any neighboring cell grants cover or
// is a wall.
func (e *Engine) adjacentToCover(p geom.Point) bool {
	for _, n := range geom.Adjacent(p, e.grid.Width(), e.grid.Height()) {
		t := e.grid.At(n)
		if t.GrantsCover() || t.BlocksSight() {
			return true
		}
	}
	return false
}
