package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/cover"
	"github.com/cory-johannsen/skirmish/internal/game/effect"
	"github.com/cory-johannsen/skirmish/internal/game/engine"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// TestStrike_BasicHit: attack bonus +3, forced roll 15 against AC 14 in
// the open. Total 18 hits; 18-14=4 is no critical.
func TestStrike_BasicHit(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 15, 4))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	r := res[0]
	assert.Equal(t, 15, r.Roll)
	assert.Equal(t, 3, r.Bonus)
	assert.Equal(t, 0, r.MAP)
	assert.Equal(t, 18, r.Total)
	assert.Equal(t, cover.None, r.Cover)
	assert.Equal(t, 14, r.TargetAC)
	assert.True(t, r.Hit)
	assert.False(t, r.Critical)
	assert.Equal(t, 5, r.Damage, "1d6 face 4 plus the flat +1")
	assert.Equal(t, 14-5, gorr.HP)
}

// TestStrike_CriticalDoubling: a natural 20 doubles dice and flat
// modifier; combat-brew's buff lands after the doubling, not inside it.
func TestStrike_CriticalDoubling(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 20, 3))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	vance.Effects.Apply(effect.Effect{Kind: effect.CombatBrew, Magnitude: 2, Rounds: 2})
	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	r := res[0]
	assert.True(t, r.Critical)
	// (3+1)*2 doubled, +2 brew after the doubling.
	assert.Equal(t, 10, r.Damage)
}

// TestStrike_CritRule: nat 20 is always critical; below 20 a critical
// needs total to beat effective AC by 10 or more.
func TestStrike_CritRule(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		face := rapid.IntRange(1, 20).Draw(rt, "face")
		e := newEngine(t, []string{"....."}, faces(20, 1, face, 4))
		place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
		gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
		require.NoError(t, e.Start())

		res, err := e.Strike(gorr.ID)
		require.NoError(t, err)
		r := res[0]
		want := face == 20 || r.Total-r.TargetAC >= 10
		assert.Equal(t, want, r.Critical)
	})
}

// TestStrike_MAPSchedule: 0, -5, then -10 clamped for every further
// strike in the turn.
func TestStrike_MAPSchedule(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 2, 2, 2))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	var pens []int
	for i := 0; i < 3; i++ {
		res, err := e.Strike(gorr.ID)
		require.NoError(t, err)
		pens = append(pens, res[0].MAP)
	}
	assert.Equal(t, []int{0, -5, -10}, pens)
}

// TestStrike_MAPResetsOnNewTurn: the counter is per turn, not per round.
func TestStrike_MAPResetsOnNewTurn(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 2, 2))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res[0].MAP)
	require.NoError(t, e.EndTurn())
	require.NoError(t, e.EndTurn()) // Gorr passes; back to Vance

	res, err = e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res[0].MAP, "fresh turn restarts the schedule")
}

// TestStrike_AmmoConservation: capacity C minus N strikes, the empty
// strike rejected without mutation, reload back to C for one action.
func TestStrike_AmmoConservation(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 2, 2, 2, 2))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	for i := 0; i < 3; i++ {
		_, err := e.Strike(gorr.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, vance.Weapon.Ammo)

	require.NoError(t, e.EndTurn())
	_, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, vance.Weapon.Ammo)

	_, err = e.Strike(gorr.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "dry magazine")
	assert.Equal(t, 0, vance.Weapon.Ammo)
	left := vance.ActionsLeft

	require.NoError(t, e.Reload())
	assert.Equal(t, 4, vance.Weapon.Ammo)
	assert.Equal(t, left-1, vance.ActionsLeft, "reload is exactly one action")
}

// TestStrike_CoverDenial: the attacker stands right next to the crate
// it is shooting past while the target is well behind it, so the crate
// grants nothing.
func TestStrike_CoverDenial(t *testing.T) {
	e := newEngine(t, []string{".%..."}, faces(20, 1, 10, 4))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, cover.None, res[0].Cover)
	assert.Equal(t, 14, res[0].TargetAC, "no +2 for the adjacent crate")
}

// TestStrike_CoverFromDistance: the same crate grants standard cover
// once the attacker backs off.
func TestStrike_CoverFromDistance(t *testing.T) {
	e := newEngine(t, []string{"..%...."}, faces(20, 1, 10, 4))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 6})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, cover.Standard, res[0].Cover)
	assert.Equal(t, 16, res[0].TargetAC)
}

// TestStrike_CreatureCover: another unit in the path grants lesser
// cover with no adjacency condition.
func TestStrike_CreatureCover(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 1, 10, 4))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	place(t, e, bruiser(), unit.Enemy, "Koth", geom.Point{X: 2})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, cover.Lesser, res[0].Cover)
	assert.Equal(t, 15, res[0].TargetAC)
}

// TestStrike_NoLineOfSight: sight failure makes the attack illegal, not
// penalized.
func TestStrike_NoLineOfSight(t *testing.T) {
	e := newEngine(t, []string{"...#."}, faces(20, 1, 1))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4})
	require.NoError(t, e.Start())

	_, err := e.Strike(gorr.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
	assert.Equal(t, gorr.MaxHP, gorr.HP)
}

// TestStrike_Splash: a landed splash hit chips 1 off every living unit
// adjacent to the primary target, friend or foe.
func TestStrike_Splash(t *testing.T) {
	thrower := rifle()
	thrower.Weapon = &archetype.Weapon{Range: 6, Ammo: 4, Tags: []string{archetype.TagSplash}}
	e := newEngine(t, []string{".....", ".....", "....."}, faces(20, 1, 1, 1, 15, 4))
	place(t, e, thrower, unit.Player, "Vance", geom.Point{X: 0, Y: 1})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3, Y: 1})
	bystander := place(t, e, bruiser(), unit.Enemy, "Koth", geom.Point{X: 4, Y: 1})
	friend := place(t, e, rifle(), unit.Player, "Mira", geom.Point{X: 3, Y: 0})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	require.True(t, res[0].Hit)
	assert.Equal(t, bystander.MaxHP-1, bystander.HP, "enemy adjacent to target")
	assert.Equal(t, friend.MaxHP-1, friend.HP, "splash does not spare allies")
	assert.Equal(t, gorr.MaxHP-res[0].Damage, gorr.HP, "primary takes roll damage only")
}

// TestStrike_SplashRequiresHit: no splash on a miss.
func TestStrike_SplashRequiresHit(t *testing.T) {
	thrower := rifle()
	thrower.Weapon = &archetype.Weapon{Range: 6, Ammo: 4, Tags: []string{archetype.TagSplash}}
	e := newEngine(t, []string{"....."}, faces(20, 1, 1, 2))
	place(t, e, thrower, unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	bystander := place(t, e, bruiser(), unit.Enemy, "Koth", geom.Point{X: 4})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	require.False(t, res[0].Hit)
	assert.Equal(t, bystander.MaxHP, bystander.HP)
}

// TestStrike_LineWeapon: the beam rolls an independent attack against
// every living unit along the ray, allies included, declared target
// first.
func TestStrike_LineWeapon(t *testing.T) {
	lancer := rifle()
	lancer.Weapon = &archetype.Weapon{Range: 6, Ammo: 4, Tags: []string{archetype.TagLine}}
	e := newEngine(t, []string{"......"}, faces(
		20, 1, 1, 1, // initiative
		15, 4, // vs declared target: hit
		2,     // vs second enemy: miss
		15, 3, // vs the ally behind them: hit
	))
	place(t, e, lancer, unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 2})
	koth := place(t, e, bruiser(), unit.Enemy, "Koth", geom.Point{X: 3})
	mira := place(t, e, rifle(), unit.Player, "Mira", geom.Point{X: 4})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, gorr.ID, res[0].Target)
	assert.Equal(t, koth.ID, res[1].Target)
	assert.Equal(t, mira.ID, res[2].Target, "friendlies in the beam are fair game")
	assert.True(t, res[0].Hit)
	assert.False(t, res[1].Hit)
	assert.True(t, res[2].Hit)
	assert.Equal(t, mira.MaxHP-res[2].Damage, mira.HP)
}

// TestStrike_LineStopsAtWall: the beam does not burn through walls.
func TestStrike_LineStopsAtWall(t *testing.T) {
	lancer := rifle()
	lancer.Weapon = &archetype.Weapon{Range: 6, Ammo: 4, Tags: []string{archetype.TagLine}}
	e := newEngine(t, []string{"...#..", "......"}, faces(20, 1, 1, 15, 4))
	place(t, e, lancer, unit.Player, "Vance", geom.Point{X: 0, Y: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 2, Y: 0})
	shielded := place(t, e, bruiser(), unit.Enemy, "Koth", geom.Point{X: 5, Y: 0})
	require.NoError(t, e.Start())

	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	require.Len(t, res, 1, "wall at x=3 stops the beam")
	assert.Equal(t, gorr.ID, res[0].Target)
	assert.Equal(t, shielded.MaxHP, shielded.HP)
}

// TestStrike_ProneAttackPenalty: a prone attacker shoots worse.
func TestStrike_ProneAttackPenalty(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 13, 4))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	vance.Effects.Apply(effect.Effect{Kind: effect.Prone, Magnitude: 2, Rounds: effect.Sticky})
	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res[0].Bonus, "base +3 less the prone -2")
	assert.Equal(t, 14, res[0].Total)
}

// TestStrike_AimedBonus applies on top of the base attack bonus.
func TestStrike_AimedBonus(t *testing.T) {
	e := newEngine(t, []string{"....."}, faces(20, 1, 9, 4))
	place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 3})
	require.NoError(t, e.Start())

	require.NoError(t, e.Aim())
	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res[0].Bonus)
	assert.Equal(t, 14, res[0].Total)
	assert.True(t, res[0].Hit, "the aim turned the miss into a hit")
}

// TestStrike_TakeCoverUpgrade: take-cover lifts computed none to
// standard; precision drilling strips it back to none.
func TestStrike_TakeCoverUpgrade(t *testing.T) {
	e := newEngine(t, []string{".....", ".....", "..%.."}, faces(20, 1, 10, 4, 10, 4))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0, Y: 0})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 4, Y: 1})
	require.NoError(t, e.Start())

	gorr.Effects.Apply(effect.Effect{Kind: effect.TakingCover, Rounds: 1})
	res, err := e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, cover.Standard, res[0].Cover)
	assert.Equal(t, 16, res[0].TargetAC)

	vance.Effects.Apply(effect.Effect{Kind: effect.PrecisionDrilling, Rounds: 2})
	res, err = e.Strike(gorr.ID)
	require.NoError(t, err)
	assert.Equal(t, cover.None, res[0].Cover, "precision ignores cover entirely")
}

// TestStrike_TargetValidation covers the ally, self, and range rejects.
func TestStrike_TargetValidation(t *testing.T) {
	e := newEngine(t, []string{"..........."}, faces(20, 1, 1))
	vance := place(t, e, rifle(), unit.Player, "Vance", geom.Point{X: 0})
	mira := place(t, e, rifle(), unit.Player, "Mira", geom.Point{X: 1})
	gorr := place(t, e, bruiser(), unit.Enemy, "Gorr", geom.Point{X: 10})
	require.NoError(t, e.Start())

	_, err := e.Strike(mira.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "ally")
	_, err = e.Strike(vance.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "self")
	_, err = e.Strike(gorr.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "out of range")
	assert.Equal(t, 3, vance.ActionsLeft, "rejections never cost actions")
}
