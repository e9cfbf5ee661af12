// Package definition loads state machines described in YAML.
//
// States and triggers are strings. Guards, actions and selectors are
// referenced by name and resolved against a Registry when the machine is
// built:
//
//	name: door
//	initial: Closed
//	states:
//	  - name: Closed
//	    permit:
//	      - {trigger: Open, to: Opened}
//	      - {trigger: Lock, to: Locked, guards: [isClosed]}
//	  - name: Opened
//	    entry: [logOpen]
//	    permit:
//	      - {trigger: Close, to: Closed}
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the root of a machine description.
type Definition struct {
	Name    string `yaml:"name"`
	Initial string `yaml:"initial"`

	// Firing is "queued" (the default) or "immediate".
	Firing string `yaml:"firing"`

	// Triggers maps a trigger to the type names of its parameters.
	Triggers map[string][]string `yaml:"triggers"`

	States []State `yaml:"states"`
}

// State describes one state.
type State struct {
	Name       string `yaml:"name"`
	SubstateOf string `yaml:"substate_of"`
	Initial    string `yaml:"initial"`

	Permit   []Permit   `yaml:"permit"`
	Reentry  []Guarded  `yaml:"reentry"`
	Ignore   []Guarded  `yaml:"ignore"`
	Internal []Internal `yaml:"internal"`
	Dynamic  []Dynamic  `yaml:"dynamic"`

	Entry      []string     `yaml:"entry"`
	EntryFrom  []ActionFrom `yaml:"entry_from"`
	Exit       []string     `yaml:"exit"`
	ExitFrom   []ActionFrom `yaml:"exit_from"`
	Activate   []string     `yaml:"activate"`
	Deactivate []string     `yaml:"deactivate"`
}

// Guarded is a trigger with optional guards.
type Guarded struct {
	Trigger string   `yaml:"trigger"`
	Guards  []string `yaml:"guards"`
}

// Permit is a transition to a fixed destination.
type Permit struct {
	Trigger string   `yaml:"trigger"`
	To      string   `yaml:"to"`
	Guards  []string `yaml:"guards"`
}

// Internal runs a named action without leaving the state.
type Internal struct {
	Trigger string   `yaml:"trigger"`
	Action  string   `yaml:"action"`
	Guards  []string `yaml:"guards"`
}

// Dynamic selects its destination with a named selector. Async selectors
// are looked up among the registered asynchronous selectors.
type Dynamic struct {
	Trigger  string        `yaml:"trigger"`
	Selector string        `yaml:"selector"`
	Async    bool          `yaml:"async"`
	Possible []Destination `yaml:"possible"`
	Guards   []string      `yaml:"guards"`
}

// Destination documents a state a selector may return.
type Destination struct {
	State     string `yaml:"state"`
	Criterion string `yaml:"criterion"`
}

// ActionFrom runs a named action only for one trigger.
type ActionFrom struct {
	Trigger string `yaml:"trigger"`
	Action  string `yaml:"action"`
}

// ErrInvalidDefinition is wrapped by every structural error in a
// definition.
var ErrInvalidDefinition = errors.New("invalid definition")

// Parse decodes a definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a definition from r.
func Load(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads and decodes the definition at path.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	def, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks the definition for structural errors. Names of guards
// and actions are checked when the machine is built.
func (d *Definition) Validate() error {
	var errs []error
	if d.Initial == "" {
		errs = append(errs, fmt.Errorf("%w: initial state is required", ErrInvalidDefinition))
	}
	switch d.Firing {
	case "", "queued", "immediate":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown firing mode %q", ErrInvalidDefinition, d.Firing))
	}
	for trigger, types := range d.Triggers {
		for _, name := range types {
			if _, ok := parameterTypes[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: trigger %q: unknown parameter type %q", ErrInvalidDefinition, trigger, name))
			}
		}
	}

	seen := make(map[string]bool, len(d.States))
	for i, s := range d.States {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%w: state #%d has no name", ErrInvalidDefinition, i+1))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("%w: state %q is defined twice", ErrInvalidDefinition, s.Name))
		}
		seen[s.Name] = true
		errs = append(errs, s.validate()...)
	}
	return errors.Join(errs...)
}

func (s State) validate() []error {
	var errs []error
	missing := func(kind string) {
		errs = append(errs, fmt.Errorf("%w: state %q: %s", ErrInvalidDefinition, s.Name, kind))
	}
	for _, p := range s.Permit {
		if p.Trigger == "" || p.To == "" {
			missing("permit needs a trigger and a destination")
		}
	}
	for _, g := range append(append([]Guarded(nil), s.Reentry...), s.Ignore...) {
		if g.Trigger == "" {
			missing("reentry and ignore need a trigger")
		}
	}
	for _, in := range s.Internal {
		if in.Trigger == "" || in.Action == "" {
			missing("internal needs a trigger and an action")
		}
	}
	for _, dyn := range s.Dynamic {
		if dyn.Trigger == "" || dyn.Selector == "" {
			missing("dynamic needs a trigger and a selector")
		}
	}
	for _, a := range append(append([]ActionFrom(nil), s.EntryFrom...), s.ExitFrom...) {
		if a.Trigger == "" || a.Action == "" {
			missing("entry_from and exit_from need a trigger and an action")
		}
	}
	return errs
}
