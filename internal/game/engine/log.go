package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// ErrIllegalAction wraps every command rejection: target out of range,
// insufficient budget, no line of sight, no ammo, and so on. The engine
// guarantees zero state mutation when it is returned.
var ErrIllegalAction = errors.New("illegal action")

// Combat log category tags.
const (
	CatRound    = "round"
	CatTurn     = "turn"
	CatMove     = "move"
	CatAttack   = "attack"
	CatDamage   = "damage"
	CatEffect   = "effect"
	CatAbility  = "ability"
	CatReaction = "reaction"
	CatReject   = "reject"
	CatOutcome  = "outcome"
)

// LogEntry is one record in the append-only combat audit trail.
type LogEntry struct {
	Round    int
	Category string
	Message  string
	// Detail carries optional roll breakdowns and similar diagnostics.
	Detail string
}

func (e *Engine) appendLog(category, message, detail string) {
	e.log = append(e.log, LogEntry{
		Round:    e.round,
		Category: category,
		Message:  message,
		Detail:   detail,
	})
	e.logger.Debug("combat log",
		zap.Int("round", e.round),
		zap.String("category", category),
		zap.String("message", message),
	)
}

// reject records an observable rejection for u and returns the wrapped
// sentinel. Callers must not have mutated any state before calling it.
func (e *Engine) reject(u *unit.Unit, reason string) error {
	name := "encounter"
	if u != nil {
		name = u.Name
	}
	e.appendLog(CatReject, fmt.Sprintf("%s: %s", name, reason), "")
	return fmt.Errorf("%w: %s", ErrIllegalAction, reason)
}
