package hsm

// Transition describes a single step of a state change. A fresh value is
// built for every exit, entry and notification.
type Transition[TState, TTrigger comparable] struct {
	// Source is the state transitioned from.
	Source TState

	// Destination is the state transitioned to.
	Destination TState

	// Trigger is the trigger that caused the transition.
	Trigger TTrigger

	// Parameters are the arguments the trigger was fired with.
	Parameters []any

	isInitial bool
}

// NewTransition creates a new transition.
func NewTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters ...any) Transition[TState, TTrigger] {
	if parameters == nil {
		parameters = []any{}
	}
	return Transition[TState, TTrigger]{
		Source:      source,
		Destination: destination,
		Trigger:     trigger,
		Parameters:  parameters,
	}
}

// NewInitialTransition creates the transition taken automatically from a
// superstate into its initial substate.
func NewInitialTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters ...any) Transition[TState, TTrigger] {
	t := NewTransition(source, destination, trigger, parameters...)
	t.isInitial = true
	return t
}

// IsReentry reports whether the transition is the identity transition.
func (t Transition[TState, TTrigger]) IsReentry() bool {
	return t.Source == t.Destination
}

// IsInitial reports whether this is an initial transition into a substate.
func (t Transition[TState, TTrigger]) IsInitial() bool {
	return t.isInitial
}

// Arg returns the parameter at position i, or nil when absent.
func (t Transition[TState, TTrigger]) Arg(i int) any {
	if i < 0 || i >= len(t.Parameters) {
		return nil
	}
	return t.Parameters[i]
}
