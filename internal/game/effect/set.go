package effect

// Set tracks all effects currently applied to one unit. It is not safe for
// concurrent use; the engine serialises all access.
type Set struct {
	effects map[Kind]Effect
}

// NewSet creates an empty effect Set.
func NewSet() *Set {
	return &Set{effects: make(map[Kind]Effect)}
}

// Apply adds e to the set. Re-applying a tag that is already present
// replaces the existing instance outright: no duration or magnitude
// stacking, last application wins.
//
// Postcondition: Has(e.Kind) is true; Magnitude(e.Kind) == e.Magnitude.
func (s *Set) Apply(e Effect) {
	s.effects[e.Kind] = e
}

// Remove deletes the effect with the given tag. No-op when absent.
//
// Postcondition: Has(k) is false.
func (s *Set) Remove(k Kind) {
	delete(s.effects, k)
}

// Has reports whether the tag is currently active.
func (s *Set) Has(k Kind) bool {
	_, ok := s.effects[k]
	return ok
}

// Magnitude returns the active magnitude for tag k, or 0 when absent.
func (s *Set) Magnitude(k Kind) int {
	return s.effects[k].Magnitude
}

// Tick runs round expiry: every non-sticky effect has its duration
// decremented by 1 and is removed once it reaches 0. Sticky effects are
// untouched. Returns the expired tags.
//
// Effects are never pruned mid-round even when their triggering condition
// no longer applies; expiry happens only here, once per full rotation.
func (s *Set) Tick() []Kind {
	var expired []Kind
	for k, e := range s.effects {
		if e.Rounds == Sticky {
			continue
		}
		e.Rounds--
		if e.Rounds <= 0 {
			expired = append(expired, k)
			delete(s.effects, k)
			continue
		}
		s.effects[k] = e
	}
	return expired
}

// All returns a snapshot of the active effects.
func (s *Set) All() []Effect {
	out := make([]Effect, 0, len(s.effects))
	for _, e := range s.effects {
		out = append(out, e)
	}
	return out
}

// Len returns the number of active effects.
func (s *Set) Len() int { return len(s.effects) }
