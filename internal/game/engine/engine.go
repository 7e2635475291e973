// Package engine is the turn/state machine at the center of the
// simulator: it owns the grid, the unit roster, initiative order, the
// action budget, and the combat log, and it is the only mutator of unit
// state. Every command validates fully before touching anything, so a
// rejected action leaves the encounter byte-for-byte unchanged.
package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// DefaultActionsPerTurn is the per-turn action budget.
const DefaultActionsPerTurn = 3

// Phase is the encounter state machine.
type Phase int

const (
	Setup Phase = iota
	Combat
	Victory // every enemy-side unit is down
	Defeat  // every player-side unit is down
)

func (p Phase) String() string {
	switch p {
	case Setup:
		return "setup"
	case Combat:
		return "combat"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Engine owns all encounter state. It is not safe for concurrent use;
// callers drive it one completed command at a time.
type Engine struct {
	grid           *grid.Grid
	roller         *dice.Roller
	logger         *zap.Logger
	actionsPerTurn int
	registry       *archetype.Registry

	phase  Phase
	round  int
	units  map[uuid.UUID]*unit.Unit
	roster []*unit.Unit // insertion order, stable iteration
	order  []uuid.UUID  // initiative order, fixed after Start
	cursor int
	log    []LogEntry

	pending ActionKind
}

// New constructs an engine over g in the Setup phase.
//
// Precondition: g, src, and logger must be non-nil.
// Postcondition: Phase() == Setup; an actionsPerTurn of 0 falls back to
// DefaultActionsPerTurn.
func New(g *grid.Grid, src dice.Source, logger *zap.Logger, actionsPerTurn int) *Engine {
	if actionsPerTurn <= 0 {
		actionsPerTurn = DefaultActionsPerTurn
	}
	return &Engine{
		grid:           g,
		roller:         dice.NewLoggedRoller(src, logger),
		logger:         logger,
		actionsPerTurn: actionsPerTurn,
		phase:          Setup,
		units:          make(map[uuid.UUID]*unit.Unit),
	}
}

// SetRegistry provides the archetype definitions that deploy-type
// abilities instantiate from. Engines without a registry reject those
// abilities.
func (e *Engine) SetRegistry(reg *archetype.Registry) { e.registry = reg }

func (e *Engine) registryLookup(id string) (*archetype.Archetype, bool) {
	if e.registry == nil {
		return nil, false
	}
	return e.registry.Get(id)
}

// AddUnit places u on the board during setup.
//
// Postcondition: on nil return, u is part of the roster and occupies its
// position exclusively.
func (e *Engine) AddUnit(u *unit.Unit) error {
	if e.phase != Setup {
		return e.reject(u, "units may only be added during setup")
	}
	if !e.grid.InBounds(u.Pos) || !e.grid.Passable(u.Pos) {
		return e.reject(u, fmt.Sprintf("cannot place at (%d,%d)", u.Pos.X, u.Pos.Y))
	}
	if e.UnitAt(u.Pos) != nil {
		return e.reject(u, fmt.Sprintf("cell (%d,%d) is occupied", u.Pos.X, u.Pos.Y))
	}
	e.units[u.ID] = u
	e.roster = append(e.roster, u)
	return nil
}

// Start rolls initiative and opens combat.
//
// Initiative is 1d20 plus speed/5 per unit, sorted descending. Ties keep
// roster order; the sort is stable on purpose.
//
// Precondition: Phase() == Setup with at least one living unit per side.
// Postcondition: Phase() == Combat, round 1, and the first unit in
// initiative order is active with a fresh budget.
func (e *Engine) Start() error {
	if e.phase != Setup {
		return e.reject(nil, "encounter already started")
	}
	players, enemies := e.livingBySide()
	if players == 0 || enemies == 0 {
		return e.reject(nil, "both sides need at least one unit")
	}

	type entry struct {
		id    uuid.UUID
		score int
	}
	rolls := make([]entry, 0, len(e.roster))
	for _, u := range e.roster {
		score := dice.RollDie(e.roller.Source(), 20) + u.Speed/5
		rolls = append(rolls, entry{id: u.ID, score: score})
		e.logger.Debug("initiative",
			zap.String("unit", u.Name),
			zap.Int("score", score),
		)
	}
	sort.SliceStable(rolls, func(i, j int) bool { return rolls[i].score > rolls[j].score })

	e.order = make([]uuid.UUID, len(rolls))
	for i, r := range rolls {
		e.order[i] = r.id
	}
	e.phase = Combat
	e.round = 1
	e.cursor = 0
	e.appendLog(CatRound, "round 1 begins", "")
	e.beginTurn()
	return nil
}

// Reset abandons the encounter and returns to a fresh Setup state over
// the same grid.
func (e *Engine) Reset() {
	e.phase = Setup
	e.round = 0
	e.cursor = 0
	e.units = make(map[uuid.UUID]*unit.Unit)
	e.roster = nil
	e.order = nil
	e.log = nil
	e.pending = ActionNone
}

// Phase returns the current encounter phase.
func (e *Engine) Phase() Phase { return e.phase }

// Round returns the current round number (1-based; 0 during setup).
func (e *Engine) Round() int { return e.round }

// ActiveUnit returns the unit whose turn is open, or nil outside combat.
func (e *Engine) ActiveUnit() *unit.Unit {
	if e.phase != Combat || len(e.order) == 0 {
		return nil
	}
	return e.units[e.order[e.cursor]]
}

// UnitByID looks a unit up by identity; dead units remain findable for
// log and stat purposes.
func (e *Engine) UnitByID(id uuid.UUID) (*unit.Unit, bool) {
	u, ok := e.units[id]
	return u, ok
}

// Units returns the roster in insertion order, dead units included.
func (e *Engine) Units() []*unit.Unit {
	out := make([]*unit.Unit, len(e.roster))
	copy(out, e.roster)
	return out
}

// UnitAt returns the living unit occupying p, or nil.
func (e *Engine) UnitAt(p geom.Point) *unit.Unit {
	for _, u := range e.roster {
		if u.Alive() && u.Pos == p {
			return u
		}
	}
	return nil
}

// occupied returns the positions of all living units except the given
// ids.
func (e *Engine) occupied(except ...uuid.UUID) map[geom.Point]bool {
	skip := make(map[uuid.UUID]bool, len(except))
	for _, id := range except {
		skip[id] = true
	}
	occ := make(map[geom.Point]bool)
	for _, u := range e.roster {
		if u.Alive() && !skip[u.ID] {
			occ[u.Pos] = true
		}
	}
	return occ
}

// livingBySide counts living units per side. Deployed constructs are
// equipment, not combatants: a side with nothing left but a turret has
// lost, and a surviving turret never blocks the other side's victory.
func (e *Engine) livingBySide() (players, enemies int) {
	for _, u := range e.roster {
		if !u.Alive() || u.Kind == unit.Turret {
			continue
		}
		switch u.Side() {
		case unit.Player:
			players++
		case unit.Enemy:
			enemies++
		}
	}
	return players, enemies
}

// checkEnd flips the phase the instant a side is wiped out. Called after
// every hp mutation, not only at turn boundaries.
func (e *Engine) checkEnd() {
	if e.phase != Combat {
		return
	}
	players, enemies := e.livingBySide()
	switch {
	case enemies == 0:
		e.phase = Victory
		e.appendLog(CatOutcome, "all hostiles down: victory", "")
	case players == 0:
		e.phase = Defeat
		e.appendLog(CatOutcome, "all operatives down: defeat", "")
	}
}
