package definition

import (
	"github.com/atlekbai/hsm"
)

// Registry holds the host functions a definition refers to by name.
type Registry struct {
	guards         map[string]hsm.GuardFunc
	actions        map[string]hsm.TransitionAction[string, string]
	activations    map[string]hsm.ActivationAction
	selectors      map[string]hsm.StateSelector[string]
	asyncSelectors map[string]hsm.AsyncStateSelector[string]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:         make(map[string]hsm.GuardFunc),
		actions:        make(map[string]hsm.TransitionAction[string, string]),
		activations:    make(map[string]hsm.ActivationAction),
		selectors:      make(map[string]hsm.StateSelector[string]),
		asyncSelectors: make(map[string]hsm.AsyncStateSelector[string]),
	}
}

// Guard registers a guard evaluated against the trigger arguments.
func (r *Registry) Guard(name string, fn hsm.GuardFunc) *Registry {
	r.guards[name] = fn
	return r
}

// Action registers an entry, exit or internal action.
func (r *Registry) Action(name string, fn hsm.TransitionAction[string, string]) *Registry {
	r.actions[name] = fn
	return r
}

// Activation registers an activation or deactivation action.
func (r *Registry) Activation(name string, fn hsm.ActivationAction) *Registry {
	r.activations[name] = fn
	return r
}

// Selector registers a dynamic state selector.
func (r *Registry) Selector(name string, fn hsm.StateSelector[string]) *Registry {
	r.selectors[name] = fn
	return r
}

// AsyncSelector registers an asynchronous state selector.
func (r *Registry) AsyncSelector(name string, fn hsm.AsyncStateSelector[string]) *Registry {
	r.asyncSelectors[name] = fn
	return r
}

func lookup[T any](m map[string]T, kind, name string) (T, error) {
	fn, ok := m[name]
	if !ok {
		var zero T
		return zero, &UnknownNameError{Kind: kind, Name: name}
	}
	return fn, nil
}

// UnknownNameError reports a name missing from the Registry.
type UnknownNameError struct {
	Kind string
	Name string
}

func (e *UnknownNameError) Error() string {
	return e.Kind + " '" + e.Name + "' is not registered"
}
