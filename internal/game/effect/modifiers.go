package effect

// ACBonus returns the net defensive AC modifier from all active effects.
// Cover is handled separately by the cover resolver; this covers stance
// and ally-granted defenses only.
//
// Postcondition: Returns >= 0.
func ACBonus(s *Set) int {
	return s.Magnitude(Defending) + s.Magnitude(ShieldRaised) + s.Magnitude(ShieldWall)
}

// AttackBonus returns the net attack-roll modifier from all active
// effects: the aimed bonus minus the prone penalty.
func AttackBonus(s *Set) int {
	return s.Magnitude(Aimed) - s.Magnitude(Prone)
}

// DamageBonus returns the flat damage modifier from active effects. It is
// added after critical-hit doubling: additive buffs are not doubled.
//
// Postcondition: Returns >= 0.
func DamageBonus(s *Set) int {
	return s.Magnitude(CombatBrew)
}
