// Package scenario loads encounter definitions: a terrain map plus a
// starting roster, pure data with no behavior. Authoring mistakes fail
// at load time.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Position is a grid coordinate in the scenario file.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Placement is one starting unit.
type Placement struct {
	Archetype string   `yaml:"archetype"`
	Kind      string   `yaml:"kind"` // "player" or "enemy"
	Name      string   `yaml:"name"` // optional; archetype name when empty
	At        Position `yaml:"at"`
}

// Scenario is a complete encounter definition.
type Scenario struct {
	Name  string      `yaml:"name"`
	Map   []string    `yaml:"map"`
	Units []Placement `yaml:"units"`
}

// LoadFromBytes parses and validates a scenario from raw YAML.
func LoadFromBytes(data []byte, reg *archetype.Registry) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := s.Validate(reg); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates a scenario file.
func Load(path string, reg *archetype.Registry) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	s, err := LoadFromBytes(data, reg)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return s, nil
}

// Validate checks the scenario against the registry: the map parses,
// every placement sits on a unique passable in-bounds cell, and every
// archetype and side is known.
//
// Postcondition: a nil return guarantees Build will succeed.
func (s *Scenario) Validate(reg *archetype.Registry) error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name must not be empty")
	}
	g, err := grid.Parse(s.Map)
	if err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if len(s.Units) == 0 {
		return fmt.Errorf("scenario %q: needs at least one unit", s.Name)
	}
	seen := make(map[geom.Point]bool)
	for i, p := range s.Units {
		if _, ok := reg.Get(p.Archetype); !ok {
			return fmt.Errorf("scenario %q: unit %d: unknown archetype %q", s.Name, i, p.Archetype)
		}
		if _, err := parseKind(p.Kind); err != nil {
			return fmt.Errorf("scenario %q: unit %d: %w", s.Name, i, err)
		}
		at := geom.Point{X: p.At.X, Y: p.At.Y}
		if !g.InBounds(at) || !g.Passable(at) {
			return fmt.Errorf("scenario %q: unit %d: cannot start at (%d,%d)", s.Name, i, at.X, at.Y)
		}
		if seen[at] {
			return fmt.Errorf("scenario %q: unit %d: cell (%d,%d) is already taken", s.Name, i, at.X, at.Y)
		}
		seen[at] = true
	}
	return nil
}

// Build instantiates the scenario into a grid and a roster.
//
// Precondition: the scenario passed Validate against the same registry.
func (s *Scenario) Build(reg *archetype.Registry) (*grid.Grid, []*unit.Unit, error) {
	if err := s.Validate(reg); err != nil {
		return nil, nil, err
	}
	g := grid.MustParse(s.Map)
	units := make([]*unit.Unit, 0, len(s.Units))
	for _, p := range s.Units {
		a, _ := reg.Get(p.Archetype)
		kind, _ := parseKind(p.Kind)
		name := p.Name
		if name == "" {
			name = a.Name
		}
		units = append(units, unit.New(a, kind, name, geom.Point{X: p.At.X, Y: p.At.Y}))
	}
	return g, units, nil
}

func parseKind(s string) (unit.Kind, error) {
	switch s {
	case "player":
		return unit.Player, nil
	case "enemy":
		return unit.Enemy, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
