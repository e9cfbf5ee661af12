package hsm

import "context"

// TriggerBehaviour describes what firing a trigger does in a given state.
// The set of implementations is closed: IgnoredTrigger, InternalTrigger,
// ReentryTrigger, TransitioningTrigger, DynamicTrigger and DynamicAsyncTrigger.
type TriggerBehaviour[TState, TTrigger comparable] interface {
	// Trigger returns the trigger this behaviour responds to.
	Trigger() TTrigger

	// Guard returns the guard conditions of this behaviour.
	Guard() TransitionGuard

	behaviour()
}

// StateSelector computes the destination of a dynamic transition.
type StateSelector[TState comparable] func(source TState, args []any) TState

// SelectorResult is the outcome of an asynchronous state selector.
type SelectorResult[TState comparable] struct {
	State TState
	Err   error
}

// AsyncStateSelector computes the destination of a dynamic transition
// asynchronously. The returned channel must deliver exactly one result.
type AsyncStateSelector[TState comparable] func(ctx context.Context, source TState, args []any) <-chan SelectorResult[TState]

// Resolved returns an already-completed selector result.
func Resolved[TState comparable](state TState) <-chan SelectorResult[TState] {
	ch := make(chan SelectorResult[TState], 1)
	ch <- SelectorResult[TState]{State: state}
	return ch
}

// Failed returns an already-failed selector result.
func Failed[TState comparable](err error) <-chan SelectorResult[TState] {
	ch := make(chan SelectorResult[TState], 1)
	ch <- SelectorResult[TState]{Err: err}
	return ch
}

type triggerBehaviourBase[TTrigger comparable] struct {
	trigger TTrigger
	guard   TransitionGuard
}

func (b *triggerBehaviourBase[TTrigger]) Trigger() TTrigger {
	return b.trigger
}

func (b *triggerBehaviourBase[TTrigger]) Guard() TransitionGuard {
	return b.guard
}

// IgnoredTrigger swallows the trigger without side effects.
type IgnoredTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]
}

func (*IgnoredTrigger[TState, TTrigger]) behaviour() {}

// InternalTrigger runs an action without leaving the state.
type InternalTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]

	action TransitionAction[TState, TTrigger]
	method InvocationInfo
}

func (*InternalTrigger[TState, TTrigger]) behaviour() {}

// Execute runs the internal action.
func (b *InternalTrigger[TState, TTrigger]) Execute(ctx context.Context, t Transition[TState, TTrigger]) error {
	if b.action == nil {
		return nil
	}
	return b.action(ctx, t)
}

// ReentryTrigger exits and re-enters Destination.
type ReentryTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]

	Destination TState
}

func (*ReentryTrigger[TState, TTrigger]) behaviour() {}

// TransitioningTrigger moves to a fixed Destination.
type TransitioningTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]

	Destination TState
}

func (*TransitioningTrigger[TState, TTrigger]) behaviour() {}

// DynamicTrigger moves to a destination computed at fire time.
type DynamicTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]

	selector StateSelector[TState]
	method   InvocationInfo
	possible []DynamicStateInfo
}

func (*DynamicTrigger[TState, TTrigger]) behaviour() {}

// Destination invokes the selector.
func (b *DynamicTrigger[TState, TTrigger]) Destination(source TState, args []any) TState {
	return b.selector(source, args)
}

// DynamicAsyncTrigger moves to a destination computed asynchronously.
type DynamicAsyncTrigger[TState, TTrigger comparable] struct {
	triggerBehaviourBase[TTrigger]

	selector AsyncStateSelector[TState]
	method   InvocationInfo
	possible []DynamicStateInfo
}

func (*DynamicAsyncTrigger[TState, TTrigger]) behaviour() {}

// Destination invokes the selector and waits for its result or for ctx.
func (b *DynamicAsyncTrigger[TState, TTrigger]) Destination(ctx context.Context, source TState, args []any) (TState, error) {
	var zero TState
	ch := b.selector(ctx, source, args)
	if ch == nil {
		return zero, &ConfigurationError{State: source, Message: "async state selector returned a nil channel"}
	}
	select {
	case res, ok := <-ch:
		if !ok {
			return zero, &ConfigurationError{State: source, Message: "async state selector closed without a result"}
		}
		return res.State, res.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
