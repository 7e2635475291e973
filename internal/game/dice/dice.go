// Package dice provides the randomness abstraction and roll-result types
// for the skirmish combat engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d6+1"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"1d6+1 → [4] +1 = 5"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie rolls a single die with the given number of sides.
//
// Precondition: sides >= 2; src must be non-nil.
// Postcondition: return value is in [1, sides].
func RollDie(src Source, sides int) int {
	if sides < 2 {
		panic(fmt.Sprintf("dice: RollDie called with sides %d < 2", sides))
	}
	return src.Intn(sides) + 1
}

// RollDice rolls count dice with the given number of sides.
//
// Precondition: count >= 1; sides >= 2; src must be non-nil.
// Postcondition: len(result) == count; every value is in [1, sides].
func RollDice(src Source, sides, count int) []int {
	if count < 1 {
		panic(fmt.Sprintf("dice: RollDice called with count %d < 1", count))
	}
	out := make([]int, count)
	for i := range out {
		out[i] = RollDie(src, sides)
	}
	return out
}
