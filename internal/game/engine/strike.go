package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/cover"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// mapSchedule is the multiple attack penalty by strike count within a
// turn. Strikes past the end of the schedule use the last entry.
var mapSchedule = [...]int{0, -5, -10}

func mapPenalty(strikes int) int {
	if strikes >= len(mapSchedule) {
		strikes = len(mapSchedule) - 1
	}
	return mapSchedule[strikes]
}

// Resolution is the ephemeral record of one attack roll against one
// target, produced for the log and for presentation callers.
type Resolution struct {
	Attacker uuid.UUID
	Target   uuid.UUID
	Roll     int // raw d20 face
	Bonus    int // attack bonus including effect modifiers
	MAP      int // multiple attack penalty, <= 0
	Total    int
	Cover    cover.Tier
	TargetAC int // effective AC including cover
	Hit      bool
	Critical bool
	Damage   int    // damage dealt; 0 on a miss
	Detail   string // dice audit string
}

// Strike attacks the target unit with the active unit's weapon. Costs 1
// action and 1 round of ammunition on tracked weapons. Line weapons
// resolve an independent attack against every living unit along the ray
// through the target; splash weapons deal 1 bonus damage to everything
// adjacent to a struck target. The returned slice holds one Resolution
// per attack roll made, declared target first.
func (e *Engine) Strike(targetID uuid.UUID) ([]Resolution, error) {
	u, err := e.requireActive(1)
	if err != nil {
		return nil, err
	}
	tgt, ok := e.units[targetID]
	if !ok || !tgt.Alive() {
		return nil, e.reject(u, "no such target")
	}
	if tgt == u {
		return nil, e.reject(u, "cannot target itself")
	}
	if tgt.Side() == u.Side() {
		return nil, e.reject(u, fmt.Sprintf("%s is an ally", tgt.Name))
	}
	if geom.Chebyshev(u.Pos, tgt.Pos) > u.Weapon.Range {
		return nil, e.reject(u, fmt.Sprintf("%s is out of range", tgt.Name))
	}
	if !cover.LineOfSight(e.grid, u.Pos, tgt.Pos) {
		return nil, e.reject(u, fmt.Sprintf("no line of sight to %s", tgt.Name))
	}
	if !u.Weapon.Loaded() {
		return nil, e.reject(u, "out of ammo")
	}

	pen := mapPenalty(u.StrikesThisTurn)
	var results []Resolution
	if u.Weapon.Line {
		for _, v := range e.unitsOnRay(u, tgt) {
			results = append(results, e.resolveAttack(u, v, pen))
		}
	} else {
		res := e.resolveAttack(u, tgt, pen)
		results = append(results, res)
		if res.Hit && u.Weapon.Splash {
			e.applySplash(u, tgt)
		}
	}

	if u.Weapon.Tracked() {
		u.Weapon.Ammo--
	}
	u.StrikesThisTurn++
	e.retireIfSpent(u)
	e.spend(u, 1)
	return results, nil
}

// Reload refills a tracked weapon's magazine. Costs 1 action.
func (e *Engine) Reload() error {
	u, err := e.requireActive(1)
	if err != nil {
		return err
	}
	if !u.Weapon.Tracked() {
		return e.reject(u, "weapon does not use ammo")
	}
	if u.Weapon.Ammo == u.Weapon.MaxAmmo {
		return e.reject(u, "magazine is already full")
	}
	u.Weapon.Ammo = u.Weapon.MaxAmmo
	e.appendLog(CatAttack, fmt.Sprintf("%s reloads", u.Name), "")
	e.spend(u, 1)
	return nil
}

// resolveAttack rolls one full attack by att against tgt and applies any
// damage. Cover is computed per target from the current positions.
func (e *Engine) resolveAttack(att, tgt *unit.Unit, pen int) Resolution {
	roll := dice.RollDie(e.roller.Source(), 20)
	bonus := att.AttackBonus + effect.AttackBonus(att.Effects)

	computed := cover.Between(e.grid, att.Pos, tgt.Pos, e.occupied(att.ID, tgt.ID))
	tier := cover.Resolve(computed,
		tgt.Effects.Has(effect.TakingCover),
		tgt.Effects.Has(effect.TakingCoverEnhanced),
		att.Effects.Has(effect.PrecisionDrilling),
	)
	targetAC := tgt.EffectiveAC() + tier.Bonus()
	total := roll + bonus + pen

	res := Resolution{
		Attacker: att.ID,
		Target:   tgt.ID,
		Roll:     roll,
		Bonus:    bonus,
		MAP:      pen,
		Total:    total,
		Cover:    tier,
		TargetAC: targetAC,
		Hit:      total >= targetAC,
		Critical: roll == 20 || total-targetAC >= 10,
	}

	if !res.Hit {
		e.appendLog(CatAttack,
			fmt.Sprintf("%s misses %s", att.Name, tgt.Name),
			fmt.Sprintf("%d%+d%+d = %d vs AC %d (%s cover)", roll, bonus, pen, total, targetAC, tier),
		)
		return res
	}

	rr := e.roller.Roll(att.Damage)
	dmg := rr.Total()
	if res.Critical {
		dmg *= 2
	}
	// Flat buffs land after crit doubling; they are never doubled.
	dmg += effect.DamageBonus(att.Effects)
	if dmg < 0 {
		dmg = 0
	}
	res.Damage = tgt.ApplyDamage(dmg)
	res.Detail = rr.String()

	verb := "hits"
	if res.Critical {
		verb = "critically hits"
	}
	e.appendLog(CatAttack,
		fmt.Sprintf("%s %s %s for %d", att.Name, verb, tgt.Name, res.Damage),
		fmt.Sprintf("%d%+d%+d = %d vs AC %d (%s cover); %s", roll, bonus, pen, total, targetAC, tier, res.Detail),
	)
	if !tgt.Alive() {
		e.appendLog(CatDamage, fmt.Sprintf("%s goes down", tgt.Name), "")
	}
	e.checkEnd()
	return res
}

// applySplash deals the fixed 1 point to every other living unit
// adjacent to the struck target, friend or foe, the attacker included
// if it stands next to its own target.
func (e *Engine) applySplash(att, primary *unit.Unit) {
	for _, w := range e.roster {
		if !w.Alive() || w == primary {
			continue
		}
		if geom.Chebyshev(w.Pos, primary.Pos) != 1 {
			continue
		}
		w.ApplyDamage(1)
		e.appendLog(CatDamage, fmt.Sprintf("%s is caught in the splash for 1", w.Name), "")
		if !w.Alive() {
			e.appendLog(CatDamage, fmt.Sprintf("%s goes down", w.Name), "")
		}
		e.checkEnd()
	}
}

// unitsOnRay collects every living unit, the attacker excluded, on the
// ray from the attacker through the declared target extended to the grid
// edge, nearest first. The beam stops at the first wall.
func (e *Engine) unitsOnRay(att, tgt *unit.Unit) []*unit.Unit {
	from := geom.Center(att.Pos)
	to := geom.Center(tgt.Pos)
	dx, dy := to.X-from.X, to.Y-from.Y
	scale := float64(e.grid.Width()+e.grid.Height()) / math.Max(math.Abs(dx), math.Abs(dy))
	far := geom.Vec{X: from.X + dx*scale, Y: from.Y + dy*scale}

	cells := geom.TraceLine(from, far)
	sort.SliceStable(cells, func(i, j int) bool {
		return geom.Chebyshev(att.Pos, cells[i]) < geom.Chebyshev(att.Pos, cells[j])
	})

	var hit []*unit.Unit
	for _, c := range cells {
		if c == att.Pos {
			continue
		}
		if !e.grid.InBounds(c) || e.grid.At(c).BlocksSight() {
			break
		}
		if v := e.UnitAt(c); v != nil && v != att {
			hit = append(hit, v)
		}
	}
	return hit
}

// retireIfSpent shuts a turret down once its magazine is empty. Retired
// turrets leave play but do not count as casualties.
func (e *Engine) retireIfSpent(u *unit.Unit) {
	if u.Kind != unit.Turret || !u.Weapon.Tracked() || u.Weapon.Ammo > 0 {
		return
	}
	u.Retired = true
	e.appendLog(CatOutcome, fmt.Sprintf("%s powers down, ammunition spent", u.Name), "")
	e.checkEnd()
}
