// Package unit holds the runtime state of a single combatant: archetype
// stats instantiated onto the board, plus per-encounter resources such as
// hit points, ammo, the action budget, and active effects.
package unit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Kind distinguishes the side a unit fights for. Turrets are deployed
// hardware that fight for their owner's side.
type Kind int

const (
	Player Kind = iota
	Enemy
	Turret
)

func (k Kind) String() string {
	switch k {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	case Turret:
		return "turret"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Weapon is the runtime weapon state: the archetype profile plus the
// current magazine.
type Weapon struct {
	Range   int
	Ammo    int
	MaxAmmo int
	Splash  bool
	Line    bool
}

// Tracked reports whether this weapon consumes ammunition.
func (w *Weapon) Tracked() bool { return w.MaxAmmo > 0 }

// Loaded reports whether the weapon can fire: untracked weapons are
// always loaded.
func (w *Weapon) Loaded() bool { return !w.Tracked() || w.Ammo > 0 }

// Unit is a combatant on the board.
type Unit struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	Archetype *archetype.Archetype

	Pos         geom.Point
	HP          int
	MaxHP       int
	Armor       int
	Speed       int
	AttackBonus int
	Damage      dice.Expression
	Weapon      Weapon

	// ActionsLeft is the remaining action budget for the current turn.
	ActionsLeft int
	// StrikesThisTurn drives the multiple attack penalty. Reset when the
	// unit's turn begins.
	StrikesThisTurn int

	Effects *effect.Set

	// OwnerID links a deployed turret back to the unit that placed it.
	// Zero for anything that is not a deployment.
	OwnerID uuid.UUID
	// OwnerSide is the side the deploying unit fought for.
	OwnerSide Kind

	// Retired marks a turret that ran out of ammunition and shut down.
	// Retired units are out of the fight but do not count as casualties.
	Retired bool
}

// New instantiates a unit from an archetype at the given position.
//
// Precondition: a passed archetype.Validate.
// Postcondition: HP == MaxHP, the magazine is full, and a weapon range
// of zero is normalized to melee reach 1.
func New(a *archetype.Archetype, kind Kind, name string, pos geom.Point) *Unit {
	u := &Unit{
		ID:          uuid.New(),
		Name:        name,
		Kind:        kind,
		Archetype:   a,
		Pos:         pos,
		HP:          a.MaxHP,
		MaxHP:       a.MaxHP,
		Armor:       a.Armor,
		Speed:       a.Speed,
		AttackBonus: a.AttackBonus,
		Damage:      a.DamageExpr(),
		Effects:     effect.NewSet(),
	}
	if w := a.Weapon; w != nil {
		u.Weapon = Weapon{
			Range:   w.Range,
			Ammo:    w.Ammo,
			MaxAmmo: w.Ammo,
			Splash:  w.HasTag(archetype.TagSplash),
			Line:    w.HasTag(archetype.TagLine),
		}
	}
	if u.Weapon.Range < 1 {
		u.Weapon.Range = 1
	}
	return u
}

// Alive reports whether the unit is still in the fight.
func (u *Unit) Alive() bool { return u.HP > 0 && !u.Retired }

// ApplyDamage reduces HP by n, clamped at zero, and returns the damage
// actually dealt.
//
// Precondition: n >= 0.
func (u *Unit) ApplyDamage(n int) int {
	if n > u.HP {
		n = u.HP
	}
	u.HP -= n
	return n
}

// Heal restores up to n HP, clamped at MaxHP, and returns the amount
// actually restored.
//
// Precondition: n >= 0.
func (u *Unit) Heal(n int) int {
	if u.HP+n > u.MaxHP {
		n = u.MaxHP - u.HP
	}
	u.HP += n
	return n
}

// EffectiveAC is the unit's armor class including active stance and
// ally-granted effects. Cover is situational per attack and is applied
// by the attack resolver, not here.
func (u *Unit) EffectiveAC() int {
	return u.Armor + effect.ACBonus(u.Effects)
}

// Side maps the unit to the player or enemy side. Turrets fight for
// the side of their owner.
func (u *Unit) Side() Kind {
	if u.Kind == Turret {
		return u.OwnerSide
	}
	return u.Kind
}

// CanAct reports whether the unit may take another action this turn.
func (u *Unit) CanAct() bool { return u.Alive() && u.ActionsLeft > 0 }

// SpendActions deducts cost from the action budget.
//
// Precondition: cost <= ActionsLeft; callers check affordability first.
func (u *Unit) SpendActions(cost int) {
	if cost > u.ActionsLeft {
		panic(fmt.Sprintf("unit %s: spending %d actions with %d left", u.Name, cost, u.ActionsLeft))
	}
	u.ActionsLeft -= cost
}
