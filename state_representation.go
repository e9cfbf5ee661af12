package hsm

import (
	"context"
	"fmt"
)

// stateRepresentation holds everything configured for one state. One
// representation exists per state value for the lifetime of a machine.
type stateRepresentation[TState, TTrigger comparable] struct {
	state TState

	superstate *stateRepresentation[TState, TTrigger]
	substates  []*stateRepresentation[TState, TTrigger]

	triggerBehaviours map[TTrigger][]TriggerBehaviour[TState, TTrigger]
	triggerOrder      []TTrigger

	entryActions      []transitionActionBehaviour[TState, TTrigger]
	exitActions       []transitionActionBehaviour[TState, TTrigger]
	activateActions   []activationActionBehaviour
	deactivateActions []activationActionBehaviour

	hasInitialTransition    bool
	initialTransitionTarget TState

	active bool
}

func newStateRepresentation[TState, TTrigger comparable](state TState) *stateRepresentation[TState, TTrigger] {
	return &stateRepresentation[TState, TTrigger]{
		state:             state,
		triggerBehaviours: make(map[TTrigger][]TriggerBehaviour[TState, TTrigger]),
	}
}

func (sr *stateRepresentation[TState, TTrigger]) addTriggerBehaviour(b TriggerBehaviour[TState, TTrigger]) {
	trigger := b.Trigger()
	if _, ok := sr.triggerBehaviours[trigger]; !ok {
		sr.triggerOrder = append(sr.triggerOrder, trigger)
	}
	sr.triggerBehaviours[trigger] = append(sr.triggerBehaviours[trigger], b)
}

// handlerResult is the outcome of resolving a trigger against the hierarchy.
type handlerResult[TState, TTrigger comparable] struct {
	handler     TriggerBehaviour[TState, TTrigger]
	owner       *stateRepresentation[TState, TTrigger]
	unmetGuards []string
}

// tryFindHandler resolves trigger locally, then up the superstate chain.
// Local behaviours are tried in declaration order. When nothing passes,
// the unmet guard descriptions of every level are collected.
func (sr *stateRepresentation[TState, TTrigger]) tryFindHandler(trigger TTrigger, args []any) (handlerResult[TState, TTrigger], bool) {
	var unmet []string
	for rep := sr; rep != nil; rep = rep.superstate {
		for _, b := range rep.triggerBehaviours[trigger] {
			if b.Guard().ConditionsMet(args) {
				return handlerResult[TState, TTrigger]{handler: b, owner: rep}, true
			}
			for _, desc := range b.Guard().UnmetConditions(args) {
				if !contains(unmet, desc) {
					unmet = append(unmet, desc)
				}
			}
		}
	}
	return handlerResult[TState, TTrigger]{unmetGuards: unmet}, false
}

func (sr *stateRepresentation[TState, TTrigger]) canHandle(trigger TTrigger, args []any) bool {
	_, ok := sr.tryFindHandler(trigger, args)
	return ok
}

// includes reports whether state is this state or one of its descendants.
func (sr *stateRepresentation[TState, TTrigger]) includes(state TState) bool {
	if sr.state == state {
		return true
	}
	for _, sub := range sr.substates {
		if sub.includes(state) {
			return true
		}
	}
	return false
}

func (sr *stateRepresentation[TState, TTrigger]) hasSubstate(state TState) bool {
	for _, sub := range sr.substates {
		if sub.state == state {
			return true
		}
	}
	return false
}

// isIncludedIn reports whether this state is state or one of its descendants.
func (sr *stateRepresentation[TState, TTrigger]) isIncludedIn(state TState) bool {
	for rep := sr; rep != nil; rep = rep.superstate {
		if rep.state == state {
			return true
		}
	}
	return false
}

func (sr *stateRepresentation[TState, TTrigger]) enter(ctx context.Context, t Transition[TState, TTrigger]) error {
	if t.IsReentry() {
		return sr.executeEntryActions(ctx, t)
	}
	if !sr.includes(t.Source) {
		if sr.superstate != nil && !t.IsInitial() {
			if err := sr.superstate.enter(ctx, t); err != nil {
				return err
			}
		}
		return sr.executeEntryActions(ctx, t)
	}
	return nil
}

// exit runs exit actions for every level being vacated, innermost first.
func (sr *stateRepresentation[TState, TTrigger]) exit(ctx context.Context, t Transition[TState, TTrigger]) error {
	if t.IsReentry() {
		return sr.executeExitActions(ctx, t)
	}
	if !sr.includes(t.Destination) {
		if err := sr.executeExitActions(ctx, t); err != nil {
			return err
		}
		if sr.superstate == nil {
			return nil
		}
		if sr.isIncludedIn(t.Destination) {
			if sr.superstate.state != t.Destination {
				return sr.superstate.exit(ctx, t)
			}
			return nil
		}
		return sr.superstate.exit(ctx, t)
	}
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) executeEntryActions(ctx context.Context, t Transition[TState, TTrigger]) error {
	for _, a := range sr.entryActions {
		if err := a.execute(ctx, t); err != nil {
			return &ActionError{State: sr.state, Phase: "entry", Err: err}
		}
	}
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) executeExitActions(ctx context.Context, t Transition[TState, TTrigger]) error {
	for _, a := range sr.exitActions {
		if err := a.execute(ctx, t); err != nil {
			return &ActionError{State: sr.state, Phase: "exit", Err: err}
		}
	}
	return nil
}

// activate activates ancestors first. Activation actions run at most once
// until the state is deactivated.
func (sr *stateRepresentation[TState, TTrigger]) activate(ctx context.Context) error {
	if sr.superstate != nil {
		if err := sr.superstate.activate(ctx); err != nil {
			return err
		}
	}
	if sr.active {
		return nil
	}
	for _, a := range sr.activateActions {
		if err := a.execute(ctx); err != nil {
			return &ActionError{State: sr.state, Phase: "activate", Err: err}
		}
	}
	sr.active = true
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) deactivate(ctx context.Context) error {
	if sr.active {
		for _, a := range sr.deactivateActions {
			if err := a.execute(ctx); err != nil {
				return &ActionError{State: sr.state, Phase: "deactivate", Err: err}
			}
		}
		sr.active = false
	}
	if sr.superstate != nil {
		return sr.superstate.deactivate(ctx)
	}
	return nil
}

// permittedTriggers lists triggers with at least one eligible behaviour,
// local triggers first.
func (sr *stateRepresentation[TState, TTrigger]) permittedTriggers(args []any) []TTrigger {
	var result []TTrigger
	for rep := sr; rep != nil; rep = rep.superstate {
		for _, trigger := range rep.triggerOrder {
			if contains(result, trigger) {
				continue
			}
			for _, b := range rep.triggerBehaviours[trigger] {
				if b.Guard().ConditionsMet(args) {
					result = append(result, trigger)
					break
				}
			}
		}
	}
	return result
}

func (sr *stateRepresentation[TState, TTrigger]) String() string {
	return fmt.Sprint(sr.state)
}

func contains[T comparable](items []T, item T) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
