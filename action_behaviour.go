package hsm

import "context"

// TransitionAction is run on entry, exit or by an internal transition.
type TransitionAction[TState, TTrigger comparable] func(ctx context.Context, t Transition[TState, TTrigger]) error

// ActivationAction is run when a state is activated or deactivated.
type ActivationAction func(ctx context.Context) error

// transitionActionBehaviour is an entry or exit action, optionally
// restricted to transitions caused by one trigger.
type transitionActionBehaviour[TState, TTrigger comparable] struct {
	action      TransitionAction[TState, TTrigger]
	method      InvocationInfo
	fromTrigger *TTrigger
}

func newTransitionActionBehaviour[TState, TTrigger comparable](
	action TransitionAction[TState, TTrigger],
	method InvocationInfo,
	fromTrigger *TTrigger,
) transitionActionBehaviour[TState, TTrigger] {
	return transitionActionBehaviour[TState, TTrigger]{action: action, method: method, fromTrigger: fromTrigger}
}

func (a transitionActionBehaviour[TState, TTrigger]) execute(ctx context.Context, t Transition[TState, TTrigger]) error {
	if a.fromTrigger != nil && *a.fromTrigger != t.Trigger {
		return nil
	}
	return a.action(ctx, t)
}

func (a transitionActionBehaviour[TState, TTrigger]) info() ActionInfo {
	var from any
	if a.fromTrigger != nil {
		from = *a.fromTrigger
	}
	return NewActionInfo(a.method, from)
}

type activationActionBehaviour struct {
	action ActivationAction
	method InvocationInfo
}

func (a activationActionBehaviour) execute(ctx context.Context) error {
	return a.action(ctx)
}
