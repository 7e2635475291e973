package archetype

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all known Archetypes keyed by ID.
type Registry struct {
	defs map[string]*Archetype
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Archetype)}
}

// Register adds a to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: a must not be nil and a.ID must not be empty.
func (r *Registry) Register(a *Archetype) {
	r.defs[a.ID] = a
}

// Get returns the Archetype for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Archetype, bool) {
	a, ok := r.defs[id]
	return a, ok
}

// All returns a snapshot slice of all registered Archetypes.
func (r *Registry) All() []*Archetype {
	out := make([]*Archetype, 0, len(r.defs))
	for _, a := range r.defs {
		out = append(out, a)
	}
	return out
}

// validateRefs checks cross-archetype references: every deploys target
// must name a registered archetype.
func (r *Registry) validateRefs() error {
	for _, a := range r.defs {
		if a.Deploys == "" {
			continue
		}
		if _, ok := r.defs[a.Deploys]; !ok {
			return fmt.Errorf("archetype %q: deploys unknown archetype %q", a.ID, a.Deploys)
		}
	}
	return nil
}

// LoadFromBytes parses a single Archetype from raw YAML bytes.
//
// Postcondition: Returns a validated *Archetype, or an error.
func LoadFromBytes(data []byte) (*Archetype, error) {
	var a Archetype
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing archetype YAML: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadDirectory reads every *.yaml file in dir, parses each as an
// Archetype, and returns a populated Registry with cross-references
// checked.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error on the first
// parse, validation, or reference failure.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading archetype dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		a, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(a)
	}
	if err := reg.validateRefs(); err != nil {
		return nil, err
	}
	return reg, nil
}
