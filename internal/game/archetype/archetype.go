// Package archetype provides the content registry for unit archetypes:
// base stats, weapons, and ability lists loaded from YAML. Content errors
// are authoring bugs and fail at load time, never at runtime.
package archetype

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// AbilityID is the closed vocabulary of archetype abilities. The engine
// switches exhaustively over these; an unknown id in a content file is a
// load-time error.
type AbilityID string

const (
	AbilityShieldWall     AbilityID = "shield-wall"
	AbilityFieldDressing  AbilityID = "field-dressing"
	AbilityCombatBrew     AbilityID = "combat-brew"
	AbilityPrecisionDrill AbilityID = "precision-drill"
	AbilityHunkerDown     AbilityID = "hunker-down"
	AbilitySlam           AbilityID = "slam"
	AbilityDeployTurret   AbilityID = "deploy-turret"
)

// KnownAbility reports whether id is part of the ability vocabulary.
func KnownAbility(id AbilityID) bool {
	switch id {
	case AbilityShieldWall, AbilityFieldDressing, AbilityCombatBrew,
		AbilityPrecisionDrill, AbilityHunkerDown, AbilitySlam, AbilityDeployTurret:
		return true
	default:
		return false
	}
}

// Weapon tags for special attack shapes.
const (
	TagSplash = "splash" // 1 point to every living unit adjacent to the struck target
	TagLine   = "line"   // beam: independent attack against every unit on the line
)

// Weapon describes an archetype's weapon profile.
type Weapon struct {
	// Range is the maximum Chebyshev attack distance; 0 means melee (1).
	Range int `yaml:"range"`
	// Ammo is the magazine capacity; 0 disables ammo tracking.
	Ammo int `yaml:"ammo"`
	// Tags holds special attack shapes: "splash", "line".
	Tags []string `yaml:"tags"`
}

// HasTag reports whether the weapon carries the given tag.
func (w *Weapon) HasTag(tag string) bool {
	if w == nil {
		return false
	}
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Archetype defines a reusable combatant template loaded from YAML.
type Archetype struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	MaxHP       int         `yaml:"max_hp"`
	Armor       int         `yaml:"armor"` // base AC
	Speed       int         `yaml:"speed"` // movement budget per move action
	AttackBonus int         `yaml:"attack_bonus"`
	Damage      string      `yaml:"damage"` // dice notation, e.g. "1d6+1"
	Weapon      *Weapon     `yaml:"weapon"`
	Abilities   []AbilityID `yaml:"abilities"`
	// Deploys names the archetype spawned by the deploy-turret ability.
	Deploys string `yaml:"deploys"`
}

// DamageExpr returns the parsed damage expression.
//
// Precondition: the archetype passed Validate.
func (a *Archetype) DamageExpr() dice.Expression {
	return dice.MustParse(a.Damage)
}

// Validate checks the archetype's invariants, including that the damage
// expression parses.
//
// Precondition: a must not be nil.
// Postcondition: nil return guarantees non-empty ID and Name, MaxHP >= 1,
// Armor >= 1, Speed >= 0, parseable Damage, non-negative weapon stats,
// known weapon tags, and known ability ids.
func (a *Archetype) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("archetype: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if a.MaxHP < 1 {
		return fmt.Errorf("archetype %q: max_hp must be >= 1", a.ID)
	}
	if a.Armor < 1 {
		return fmt.Errorf("archetype %q: armor must be >= 1", a.ID)
	}
	if a.Speed < 0 {
		return fmt.Errorf("archetype %q: speed must be >= 0", a.ID)
	}
	if _, err := dice.Parse(a.Damage); err != nil {
		return fmt.Errorf("archetype %q: damage: %w", a.ID, err)
	}
	if w := a.Weapon; w != nil {
		if w.Range < 0 {
			return fmt.Errorf("archetype %q: weapon range must be >= 0", a.ID)
		}
		if w.Ammo < 0 {
			return fmt.Errorf("archetype %q: weapon ammo must be >= 0", a.ID)
		}
		for _, tag := range w.Tags {
			if tag != TagSplash && tag != TagLine {
				return fmt.Errorf("archetype %q: unknown weapon tag %q", a.ID, tag)
			}
		}
	}
	hasDeploy := false
	for _, id := range a.Abilities {
		if !KnownAbility(id) {
			return fmt.Errorf("archetype %q: unknown ability %q", a.ID, id)
		}
		if id == AbilityDeployTurret {
			hasDeploy = true
		}
	}
	if hasDeploy && a.Deploys == "" {
		return fmt.Errorf("archetype %q: deploy-turret requires a deploys target", a.ID)
	}
	if !hasDeploy && a.Deploys != "" {
		return fmt.Errorf("archetype %q: deploys set without deploy-turret ability", a.ID)
	}
	return nil
}
