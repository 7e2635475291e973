// Package effect models temporary status effects on units: a closed set of
// tags, each carrying a magnitude and a remaining duration in rounds.
package effect

// Kind is the closed set of status-effect tags. Adding a tag here forces
// every switch over Kind to be revisited, which is the point: effects must
// never be loose strings.
type Kind int

const (
	ShieldWall Kind = iota // AC bonus granted by a shield-bearing ally
	Aimed                  // attack-roll bonus from the aim stance
	Defending              // AC bonus from the defend stance
	Prone                  // attack-roll penalty; sticky until the unit moves
	ShieldRaised           // AC bonus from the raise-shield stance
	TakingCover            // upgrades computed cover one tier
	TakingCoverEnhanced    // forces greater cover
	Braced                 // clamps incoming knockback distance to 1
	PrecisionDrilling      // attacker ignores target cover entirely
	CombatBrew             // flat damage bonus, added after crit doubling
	Overwatch              // reaction placeholder; trigger recorded, no reaction fires yet
)

// String returns the tag name used in log entries and content files.
func (k Kind) String() string {
	switch k {
	case ShieldWall:
		return "shield-wall"
	case Aimed:
		return "aimed"
	case Defending:
		return "defending"
	case Prone:
		return "prone"
	case ShieldRaised:
		return "shield-raised"
	case TakingCover:
		return "taking-cover"
	case TakingCoverEnhanced:
		return "taking-cover-enhanced"
	case Braced:
		return "braced"
	case PrecisionDrilling:
		return "precision-drilling"
	case CombatBrew:
		return "combat-brew"
	case Overwatch:
		return "overwatch"
	default:
		return "unknown"
	}
}

// Sticky marks an effect that persists until an explicit counter-action
// (e.g. prone is cleared by moving, never by round expiry).
const Sticky = -1

// Effect is one applied status effect instance.
type Effect struct {
	Kind      Kind
	Magnitude int
	// Rounds is the remaining duration in full round rotations, or Sticky.
	Rounds int
}
