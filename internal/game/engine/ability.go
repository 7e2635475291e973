package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Action point cost per ability.
var abilityCost = map[archetype.AbilityID]int{
	archetype.AbilityShieldWall:     2,
	archetype.AbilityFieldDressing:  2,
	archetype.AbilityCombatBrew:     1,
	archetype.AbilityPrecisionDrill: 1,
	archetype.AbilityHunkerDown:     1,
	archetype.AbilitySlam:           1,
	archetype.AbilityDeployTurret:   2,
}

const (
	shieldWallBonus   = 2
	combatBrewBonus   = 2
	combatBrewRounds  = 2
	precisionRounds   = 2
	slamPushDistance  = 2
	fieldDressingDice = "1d8"
)

// UseAbility executes a named archetype ability. Self-targeted abilities
// ignore targetID; pass uuid.Nil for them. Deploy-type abilities take a
// cell instead, via UseAbilityAt.
func (e *Engine) UseAbility(id archetype.AbilityID, targetID uuid.UUID) error {
	u, err := e.requireAbility(id)
	if err != nil {
		return err
	}
	switch id {
	case archetype.AbilityShieldWall:
		return e.shieldWall(u)
	case archetype.AbilityFieldDressing:
		return e.fieldDressing(u, targetID)
	case archetype.AbilityCombatBrew:
		return e.combatBrew(u, targetID)
	case archetype.AbilityPrecisionDrill:
		return e.precisionDrill(u)
	case archetype.AbilityHunkerDown:
		return e.hunkerDown(u)
	case archetype.AbilitySlam:
		return e.slam(u, targetID)
	case archetype.AbilityDeployTurret:
		return e.reject(u, "deploy requires a target cell")
	default:
		return e.reject(u, fmt.Sprintf("unknown ability %q", id))
	}
}

// UseAbilityAt executes a cell-targeted ability.
func (e *Engine) UseAbilityAt(id archetype.AbilityID, cell geom.Point) error {
	u, err := e.requireAbility(id)
	if err != nil {
		return err
	}
	if id != archetype.AbilityDeployTurret {
		return e.reject(u, fmt.Sprintf("%s does not target a cell", id))
	}
	return e.deployTurret(u, cell)
}

// requireAbility validates phase, budget, and that the acting unit's
// archetype actually knows the ability.
func (e *Engine) requireAbility(id archetype.AbilityID) (*unit.Unit, error) {
	cost, ok := abilityCost[id]
	if !ok {
		return nil, e.reject(e.ActiveUnit(), fmt.Sprintf("unknown ability %q", id))
	}
	u, err := e.requireActive(cost)
	if err != nil {
		return nil, err
	}
	known := false
	for _, a := range u.Archetype.Abilities {
		if a == id {
			known = true
			break
		}
	}
	if !known {
		return nil, e.reject(u, fmt.Sprintf("does not know %s", id))
	}
	return u, nil
}

// shieldWall grants the shield-wall AC bonus to the user and every
// adjacent living ally. Re-activation replaces the effect and resets its
// duration; bonuses from multiple activators never stack.
func (e *Engine) shieldWall(u *unit.Unit) error {
	eff := effect.Effect{Kind: effect.ShieldWall, Magnitude: shieldWallBonus, Rounds: 1}
	u.Effects.Apply(eff)
	count := 0
	for _, w := range e.roster {
		if !w.Alive() || w == u || w.Side() != u.Side() {
			continue
		}
		if geom.Chebyshev(w.Pos, u.Pos) == 1 {
			w.Effects.Apply(eff)
			count++
		}
	}
	e.appendLog(CatAbility, fmt.Sprintf("%s forms a shield wall covering %d allies", u.Name, count), "")
	e.spend(u, abilityCost[archetype.AbilityShieldWall])
	return nil
}

// fieldDressing heals a wounded ally within reach (or the user itself)
// for 1d8.
func (e *Engine) fieldDressing(u *unit.Unit, targetID uuid.UUID) error {
	tgt, ok := e.units[targetID]
	if !ok || !tgt.Alive() {
		return e.reject(u, "no such patient")
	}
	if tgt.Side() != u.Side() {
		return e.reject(u, fmt.Sprintf("%s is not an ally", tgt.Name))
	}
	if tgt != u && geom.Chebyshev(u.Pos, tgt.Pos) != 1 {
		return e.reject(u, fmt.Sprintf("%s is out of reach", tgt.Name))
	}
	if tgt.HP == tgt.MaxHP {
		return e.reject(u, fmt.Sprintf("%s is not wounded", tgt.Name))
	}
	rr, err := e.roller.RollExpr(fieldDressingDice)
	if err != nil {
		panic(err) // constant expression, cannot fail
	}
	healed := tgt.Heal(rr.Total())
	e.appendLog(CatAbility, fmt.Sprintf("%s patches %s up for %d", u.Name, tgt.Name, healed), rr.String())
	e.spend(u, abilityCost[archetype.AbilityFieldDressing])
	return nil
}

// combatBrew hands a stim to the user or an adjacent ally: flat bonus
// damage for two rounds, added after any critical doubling.
func (e *Engine) combatBrew(u *unit.Unit, targetID uuid.UUID) error {
	tgt, ok := e.units[targetID]
	if !ok || !tgt.Alive() {
		return e.reject(u, "no such target")
	}
	if tgt.Side() != u.Side() {
		return e.reject(u, fmt.Sprintf("%s is not an ally", tgt.Name))
	}
	if tgt != u && geom.Chebyshev(u.Pos, tgt.Pos) != 1 {
		return e.reject(u, fmt.Sprintf("%s is out of reach", tgt.Name))
	}
	tgt.Effects.Apply(effect.Effect{Kind: effect.CombatBrew, Magnitude: combatBrewBonus, Rounds: combatBrewRounds})
	e.appendLog(CatAbility, fmt.Sprintf("%s downs a combat brew from %s", tgt.Name, u.Name), "")
	e.spend(u, abilityCost[archetype.AbilityCombatBrew])
	return nil
}

// precisionDrill trains fire discipline: the user ignores target cover
// entirely for two rounds.
func (e *Engine) precisionDrill(u *unit.Unit) error {
	u.Effects.Apply(effect.Effect{Kind: effect.PrecisionDrilling, Rounds: precisionRounds})
	e.appendLog(CatAbility, fmt.Sprintf("%s drills in on targets, ignoring cover", u.Name), "")
	e.spend(u, abilityCost[archetype.AbilityPrecisionDrill])
	return nil
}

// hunkerDown digs in hard behind adjacent obstruction, forcing greater
// cover against incoming attacks.
func (e *Engine) hunkerDown(u *unit.Unit) error {
	if !e.adjacentToCover(u.Pos) {
		return e.reject(u, "no cover within reach")
	}
	u.Effects.Apply(effect.Effect{Kind: effect.TakingCoverEnhanced, Rounds: 1})
	e.appendLog(CatAbility, fmt.Sprintf("%s hunkers down", u.Name), "")
	e.spend(u, abilityCost[archetype.AbilityHunkerDown])
	return nil
}

// slam is a melee attack that knocks the target back two cells on a hit.
// It counts against the multiple attack penalty like any strike.
func (e *Engine) slam(u *unit.Unit, targetID uuid.UUID) error {
	tgt, ok := e.units[targetID]
	if !ok || !tgt.Alive() {
		return e.reject(u, "no such target")
	}
	if tgt.Side() == u.Side() {
		return e.reject(u, fmt.Sprintf("%s is an ally", tgt.Name))
	}
	if geom.Chebyshev(u.Pos, tgt.Pos) != 1 {
		return e.reject(u, fmt.Sprintf("%s is out of slam reach", tgt.Name))
	}

	res := e.resolveAttack(u, tgt, mapPenalty(u.StrikesThisTurn))
	u.StrikesThisTurn++
	if res.Hit && tgt.Alive() {
		dx := sign(tgt.Pos.X - u.Pos.X)
		dy := sign(tgt.Pos.Y - u.Pos.Y)
		if !e.PushUnit(tgt.ID, dx, dy, slamPushDistance) {
			e.appendLog(CatAbility, fmt.Sprintf("%s holds against the slam", tgt.Name), "")
		}
	}
	e.spend(u, abilityCost[archetype.AbilitySlam])
	return nil
}

// deployTurret spawns the archetype's construct on an adjacent open
// cell. The turret fights for the deployer's side and joins the end of
// the initiative order.
func (e *Engine) deployTurret(u *unit.Unit, cell geom.Point) error {
	spec, ok := e.registryLookup(u.Archetype.Deploys)
	if !ok {
		return e.reject(u, fmt.Sprintf("unknown construct %q", u.Archetype.Deploys))
	}
	if geom.Chebyshev(u.Pos, cell) != 1 {
		return e.reject(u, "construct must be placed on an adjacent cell")
	}
	if !e.grid.InBounds(cell) || !e.grid.Passable(cell) || e.UnitAt(cell) != nil {
		return e.reject(u, fmt.Sprintf("cannot deploy at (%d,%d)", cell.X, cell.Y))
	}

	t := unit.New(spec, unit.Turret, fmt.Sprintf("%s's %s", u.Name, spec.Name), cell)
	t.OwnerID = u.ID
	t.OwnerSide = u.Side()
	e.units[t.ID] = t
	e.roster = append(e.roster, t)
	e.order = append(e.order, t.ID)
	e.appendLog(CatAbility, fmt.Sprintf("%s deploys a %s at (%d,%d)", u.Name, spec.Name, cell.X, cell.Y), "")
	e.spend(u, abilityCost[archetype.AbilityDeployTurret])
	return nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
