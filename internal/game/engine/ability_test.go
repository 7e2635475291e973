package engine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/engine"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

func medic() *archetype.Archetype {
	return &archetype.Archetype{
		ID:          "medic",
		Name:        "Medic",
		MaxHP:       10,
		Armor:       13,
		Speed:       5,
		AttackBonus: 1,
		Damage:      "1d4",
		Abilities: []archetype.AbilityID{
			archetype.AbilityFieldDressing,
			archetype.AbilityCombatBrew,
		},
	}
}

func shieldbearer() *archetype.Archetype {
	a := rifle()
	a.ID = "shieldbearer"
	a.Name = "Shieldbearer"
	a.Abilities = []archetype.AbilityID{archetype.AbilityShieldWall}
	return a
}

func sapper() *archetype.Archetype {
	return &archetype.Archetype{
		ID:          "sapper",
		Name:        "Sapper",
		MaxHP:       9,
		Armor:       13,
		Speed:       4,
		AttackBonus: 2,
		Damage:      "1d4",
		Weapon:      &archetype.Weapon{Range: 4, Ammo: 3},
		Abilities:   []archetype.AbilityID{archetype.AbilityDeployTurret},
		Deploys:     "gun-turret",
	}
}

func gunTurret() *archetype.Archetype {
	return &archetype.Archetype{
		ID:          "gun-turret",
		Name:        "Gun Turret",
		MaxHP:       4,
		Armor:       12,
		Speed:       0,
		AttackBonus: 3,
		Damage:      "1d6",
		Weapon:      &archetype.Weapon{Range: 5, Ammo: 1},
	}
}

// TestShieldWall_CoversAdjacentAllies: the user and every adjacent ally
// get the bonus; distant allies and enemies do not.
func TestShieldWall_CoversAdjacentAllies(t *testing.T) {
	e := newEngine(t, []string{".....", "....."}, faces(20, 1, 1, 1))
	bearer := place(t, e, shieldbearer(), unit.Player, "Brom", geom.Point{X: 1, Y: 0})
	near := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 2, Y: 1})
	far := place(t, e, rifle(), unit.Player, "Mira", geom.Point{X: 4, Y: 1})
	foe := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 0, Y: 1})
	require.NoError(t, e.Start())

	require.NoError(t, e.UseAbility(archetype.AbilityShieldWall, uuid.Nil))
	assert.True(t, bearer.Effects.Has(effect.ShieldWall))
	assert.True(t, near.Effects.Has(effect.ShieldWall))
	assert.False(t, far.Effects.Has(effect.ShieldWall))
	assert.False(t, foe.Effects.Has(effect.ShieldWall), "adjacent enemies get nothing")
	assert.Equal(t, 1, bearer.ActionsLeft, "costs two actions")
}

// TestFieldDressing_HealsWoundedAdjacentAlly and rejects the healthy.
func TestFieldDressing(t *testing.T) {
	e := newEngine(t, []string{"...."}, faces(20, 1, 1, 6))
	doc := place(t, e, medic(), unit.Player, "Sana", geom.Point{X: 0})
	patient := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 1})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	err := e.UseAbility(archetype.AbilityFieldDressing, patient.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "patient is not wounded")

	patient.ApplyDamage(7)
	require.NoError(t, e.UseAbility(archetype.AbilityFieldDressing, patient.ID))
	assert.Equal(t, patient.MaxHP-7+6, patient.HP, "1d8 came up 6")
	assert.Equal(t, 1, doc.ActionsLeft)
}

func TestFieldDressing_RejectsEnemiesAndDistance(t *testing.T) {
	e := newEngine(t, []string{"......"}, faces(20, 1, 1, 1))
	place(t, e, medic(), unit.Player, "Sana", geom.Point{X: 0})
	farAlly := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 3})
	foe := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 5})
	require.NoError(t, e.Start())

	farAlly.ApplyDamage(4)
	foe.ApplyDamage(4)
	assert.ErrorIs(t, e.UseAbility(archetype.AbilityFieldDressing, farAlly.ID), engine.ErrIllegalAction)
	assert.ErrorIs(t, e.UseAbility(archetype.AbilityFieldDressing, foe.ID), engine.ErrIllegalAction)
}

// TestCombatBrew applies the damage buff to an adjacent ally.
func TestCombatBrew(t *testing.T) {
	e := newEngine(t, []string{"...."}, faces(20, 1, 1))
	doc := place(t, e, medic(), unit.Player, "Sana", geom.Point{X: 0})
	ally := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 1})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	require.NoError(t, e.UseAbility(archetype.AbilityCombatBrew, ally.ID))
	assert.True(t, ally.Effects.Has(effect.CombatBrew))
	assert.Equal(t, 2, ally.Effects.Magnitude(effect.CombatBrew))
	assert.Equal(t, 2, doc.ActionsLeft, "costs one action")
}

// TestUnknownAbility_Rejected: the archetype must actually know the
// ability being used.
func TestUnknownAbility_Rejected(t *testing.T) {
	e := newEngine(t, []string{"...."}, faces(20, 1))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	err := e.UseAbility(archetype.AbilitySlam, uuid.Nil)
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
	assert.Equal(t, 3, vance.ActionsLeft)
}

// TestSlam_KnocksTargetBack: a landed slam shoves the target two cells
// directly away.
func TestSlam_KnocksTargetBack(t *testing.T) {
	e := newEngine(t, []string{"......"}, faces(1, 20, 1, 15, 3))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 5})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 1})
	tgt := place(t, e, rifle(), unit.Player, "Mira", geom.Point{X: 2})
	require.NoError(t, e.Start())

	require.NoError(t, e.UseAbility(archetype.AbilitySlam, tgt.ID))
	assert.Equal(t, geom.Point{X: 4}, tgt.Pos, "shoved from x=2 to x=4")
	assert.Equal(t, 1, gorr.StrikesThisTurn, "slam counts one strike")
}

// TestDeployTurret_SpawnsAndJoinsOrder, then the turret retires once
// its single round of ammo is spent.
func TestDeployTurret_AndRetirement(t *testing.T) {
	reg := archetype.NewRegistry()
	reg.Register(gunTurret())

	e := newEngine(t, []string{".....", "....."}, faces(20, 1, 15, 4))
	e.SetRegistry(reg)
	sap := place(t, e, sapper(), unit.Player, "Pell", geom.Point{X: 0, Y: 0})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4, Y: 1})
	require.NoError(t, e.Start())

	require.NoError(t, e.UseAbilityAt(archetype.AbilityDeployTurret, geom.Point{X: 1, Y: 1}))
	require.Len(t, e.Units(), 3)
	turret := e.Units()[2]
	assert.Equal(t, unit.Turret, turret.Kind)
	assert.Equal(t, sap.ID, turret.OwnerID)
	assert.Equal(t, unit.Player, turret.Side())
	assert.Equal(t, 1, sap.ActionsLeft)

	// Sapper passes; turret activates at the end of the order and fires
	// its only round.
	require.NoError(t, e.EndTurn()) // sapper
	require.NoError(t, e.EndTurn()) // enemy
	require.Equal(t, turret.ID, e.ActiveUnit().ID)
	_, err := e.Strike(e.ValidTargets()[0])
	require.NoError(t, err)
	assert.True(t, turret.Retired, "no ammo left")
	assert.False(t, turret.Alive())
	assert.Equal(t, engine.Combat, e.Phase(), "a retired turret is not a casualty")
}

func TestDeployTurret_RejectsBadCell(t *testing.T) {
	reg := archetype.NewRegistry()
	reg.Register(gunTurret())

	e := newEngine(t, []string{".#..."}, faces(20, 1))
	place(t, e, sapper(), unit.Player, "Pell", geom.Point{X: 0})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4})
	e.SetRegistry(reg)
	require.NoError(t, e.Start())

	assert.ErrorIs(t, e.UseAbilityAt(archetype.AbilityDeployTurret, geom.Point{X: 1}), engine.ErrIllegalAction, "wall")
	assert.ErrorIs(t, e.UseAbilityAt(archetype.AbilityDeployTurret, geom.Point{X: 3}), engine.ErrIllegalAction, "not adjacent")
	assert.Len(t, e.Units(), 2)
}

// TestHunkerDown_RequiresCoverAdjacency mirrors take-cover's terrain
// requirement.
func TestHunkerDown_RequiresCoverAdjacency(t *testing.T) {
	hunkerer := rifle()
	hunkerer.Abilities = []archetype.AbilityID{archetype.AbilityHunkerDown}
	e := newEngine(t, []string{".....", ".....", "...%."}, faces(20, 1))
	vance := place(t, e, hunkerer, unit.Player, "Vance", geom.Point{X: 0, Y: 0})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4, Y: 0})
	require.NoError(t, e.Start())

	assert.ErrorIs(t, e.UseAbility(archetype.AbilityHunkerDown, uuid.Nil), engine.ErrIllegalAction)

	require.NoError(t, e.Move(geom.Point{X: 3, Y: 1}))
	require.NoError(t, e.UseAbility(archetype.AbilityHunkerDown, uuid.Nil))
	assert.True(t, vance.Effects.Has(effect.TakingCoverEnhanced))
}

// TestTakeCover_RequiresAdjacency: same rule on the stance side.
func TestTakeCover_RequiresAdjacency(t *testing.T) {
	e := newEngine(t, []string{".....", "....#"}, faces(20, 1))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0, Y: 0})
	place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 2, Y: 1})
	require.NoError(t, e.Start())

	assert.ErrorIs(t, e.TakeCover(), engine.ErrIllegalAction)

	require.NoError(t, e.Move(geom.Point{X: 3, Y: 0}))
	require.NoError(t, e.TakeCover())
	assert.True(t, vance.Effects.Has(effect.TakingCover))
}
