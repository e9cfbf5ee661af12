package hsm

import "fmt"

// StateConfiguration is the fluent builder returned by Configure. Every call
// mutates the state's representation; configuring a state repeatedly
// accumulates behaviours.
type StateConfiguration[TState, TTrigger comparable] struct {
	representation *stateRepresentation[TState, TTrigger]
	lookup         func(TState) *stateRepresentation[TState, TTrigger]
}

func newStateConfiguration[TState, TTrigger comparable](
	representation *stateRepresentation[TState, TTrigger],
	lookup func(TState) *stateRepresentation[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	return &StateConfiguration[TState, TTrigger]{representation: representation, lookup: lookup}
}

// State returns the state being configured.
func (sc *StateConfiguration[TState, TTrigger]) State() TState {
	return sc.representation.state
}

// Permit transitions to destination when trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) Permit(trigger TTrigger, destination TState) *StateConfiguration[TState, TTrigger] {
	return sc.PermitIf(trigger, destination)
}

// PermitIf transitions to destination when trigger is fired and every guard
// passes. Several PermitIf calls for one trigger are tried in declaration order.
func (sc *StateConfiguration[TState, TTrigger]) PermitIf(trigger TTrigger, destination TState, guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destination)
	sc.lookup(destination)
	sc.representation.addTriggerBehaviour(&TransitioningTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
		Destination:          destination,
	})
	return sc
}

// PermitReentry exits and re-enters the state when trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentry(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	return sc.PermitReentryIf(trigger)
}

// PermitReentryIf is PermitReentry restricted by guards.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentryIf(trigger TTrigger, guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(&ReentryTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
		Destination:          sc.representation.state,
	})
	return sc
}

// Ignore swallows trigger in this state, including when a superstate
// handles it.
func (sc *StateConfiguration[TState, TTrigger]) Ignore(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	return sc.IgnoreIf(trigger)
}

// IgnoreIf is Ignore restricted by guards.
func (sc *StateConfiguration[TState, TTrigger]) IgnoreIf(trigger TTrigger, guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(&IgnoredTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
	})
	return sc
}

// InternalTransition runs action when trigger is fired without exiting or
// entering any state.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransition(trigger TTrigger, action TransitionAction[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	return sc.InternalTransitionIf(trigger, action)
}

// InternalTransitionIf is InternalTransition restricted by guards.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransitionIf(trigger TTrigger, action TransitionAction[TState, TTrigger], guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	if action == nil {
		configPanic(sc.representation.state, nil, "internal transition action cannot be nil")
	}
	sc.representation.addTriggerBehaviour(&InternalTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
		action:               action,
		method:               CreateInvocationInfo(action, "", TimingSynchronous),
	})
	return sc
}

// PermitDynamic transitions to the state computed by selector. The optional
// possible destinations are used only for introspection.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamic(trigger TTrigger, selector StateSelector[TState], possible ...DynamicStateInfo) *StateConfiguration[TState, TTrigger] {
	return sc.PermitDynamicIf(trigger, selector, possible)
}

// PermitDynamicIf is PermitDynamic restricted by guards.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamicIf(trigger TTrigger, selector StateSelector[TState], possible []DynamicStateInfo, guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	if selector == nil {
		configPanic(sc.representation.state, nil, "state selector cannot be nil")
	}
	sc.representation.addTriggerBehaviour(&DynamicTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
		selector:             selector,
		method:               CreateInvocationInfo(selector, "", TimingSynchronous),
		possible:             append([]DynamicStateInfo(nil), possible...),
	})
	return sc
}

// PermitDynamicAsync transitions to the state delivered by an asynchronous
// selector. Firing waits for the selector before any exit action runs.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamicAsync(trigger TTrigger, selector AsyncStateSelector[TState], possible ...DynamicStateInfo) *StateConfiguration[TState, TTrigger] {
	return sc.PermitDynamicAsyncIf(trigger, selector, possible)
}

// PermitDynamicAsyncIf is PermitDynamicAsync restricted by guards.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamicAsyncIf(trigger TTrigger, selector AsyncStateSelector[TState], possible []DynamicStateInfo, guards ...GuardCondition) *StateConfiguration[TState, TTrigger] {
	if selector == nil {
		configPanic(sc.representation.state, nil, "state selector cannot be nil")
	}
	sc.representation.addTriggerBehaviour(&DynamicAsyncTrigger[TState, TTrigger]{
		triggerBehaviourBase: triggerBehaviourBase[TTrigger]{trigger: trigger, guard: newTransitionGuard(guards...)},
		selector:             selector,
		method:               CreateInvocationInfo(selector, "", TimingAsynchronous),
		possible:             append([]DynamicStateInfo(nil), possible...),
	})
	return sc
}

// OnEntry runs action whenever the state is entered.
func (sc *StateConfiguration[TState, TTrigger]) OnEntry(action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.addEntryAction(action, nil, firstOrEmpty(description))
	return sc
}

// OnEntryFrom runs action only when the state is entered because of trigger.
func (sc *StateConfiguration[TState, TTrigger]) OnEntryFrom(trigger TTrigger, action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.addEntryAction(action, &trigger, firstOrEmpty(description))
	return sc
}

// OnExit runs action whenever the state is exited.
func (sc *StateConfiguration[TState, TTrigger]) OnExit(action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.addExitAction(action, nil, firstOrEmpty(description))
	return sc
}

// OnExitFrom runs action only when the state is exited because of trigger.
func (sc *StateConfiguration[TState, TTrigger]) OnExitFrom(trigger TTrigger, action TransitionAction[TState, TTrigger], description ...string) *StateConfiguration[TState, TTrigger] {
	sc.addExitAction(action, &trigger, firstOrEmpty(description))
	return sc
}

// OnActivate runs action when the machine is activated in this state.
func (sc *StateConfiguration[TState, TTrigger]) OnActivate(action ActivationAction, description ...string) *StateConfiguration[TState, TTrigger] {
	if action == nil {
		configPanic(sc.representation.state, nil, "activation action cannot be nil")
	}
	sc.representation.activateActions = append(sc.representation.activateActions, activationActionBehaviour{
		action: action,
		method: CreateInvocationInfo(action, firstOrEmpty(description), TimingSynchronous),
	})
	return sc
}

// OnDeactivate runs action when the machine is deactivated in this state.
func (sc *StateConfiguration[TState, TTrigger]) OnDeactivate(action ActivationAction, description ...string) *StateConfiguration[TState, TTrigger] {
	if action == nil {
		configPanic(sc.representation.state, nil, "deactivation action cannot be nil")
	}
	sc.representation.deactivateActions = append(sc.representation.deactivateActions, activationActionBehaviour{
		action: action,
		method: CreateInvocationInfo(action, firstOrEmpty(description), TimingSynchronous),
	})
	return sc
}

// SubstateOf makes this state a substate of superstate. Unhandled triggers
// are resolved against the superstate.
func (sc *StateConfiguration[TState, TTrigger]) SubstateOf(superstate TState) *StateConfiguration[TState, TTrigger] {
	rep := sc.representation
	if rep.state == superstate {
		configPanic(rep.state, nil, "a state cannot be its own superstate")
	}
	if rep.superstate != nil {
		if rep.superstate.state == superstate {
			return sc
		}
		configPanic(rep.state, nil, "superstate is already set to '%v'", rep.superstate.state)
	}
	super := sc.lookup(superstate)
	if super.isIncludedIn(rep.state) {
		configPanic(rep.state, nil, "making '%v' a superstate would create a cycle", superstate)
	}
	rep.superstate = super
	super.substates = append(super.substates, rep)
	return sc
}

// InitialTransition enters target automatically whenever this state is
// entered. target must be a substate; this is checked by Validate or on the
// first entry.
func (sc *StateConfiguration[TState, TTrigger]) InitialTransition(target TState) *StateConfiguration[TState, TTrigger] {
	rep := sc.representation
	if rep.hasInitialTransition {
		configPanic(rep.state, nil, "an initial transition to '%v' is already configured", rep.initialTransitionTarget)
	}
	if rep.state == target {
		configPanic(rep.state, nil, "setting the current state as the target destination state is not allowed")
	}
	sc.lookup(target)
	rep.hasInitialTransition = true
	rep.initialTransitionTarget = target
	return sc
}

func (sc *StateConfiguration[TState, TTrigger]) addEntryAction(action TransitionAction[TState, TTrigger], from *TTrigger, description string) {
	if action == nil {
		configPanic(sc.representation.state, nil, "entry action cannot be nil")
	}
	sc.representation.entryActions = append(sc.representation.entryActions,
		newTransitionActionBehaviour[TState, TTrigger](action, CreateInvocationInfo(action, description, TimingSynchronous), from))
}

func (sc *StateConfiguration[TState, TTrigger]) addExitAction(action TransitionAction[TState, TTrigger], from *TTrigger, description string) {
	if action == nil {
		configPanic(sc.representation.state, nil, "exit action cannot be nil")
	}
	sc.representation.exitActions = append(sc.representation.exitActions,
		newTransitionActionBehaviour[TState, TTrigger](action, CreateInvocationInfo(action, description, TimingSynchronous), from))
}

func (sc *StateConfiguration[TState, TTrigger]) enforceNotIdentityTransition(destination TState) {
	if destination == sc.representation.state {
		configPanic(sc.representation.state, nil,
			"permit requires a destination other than the source; use Ignore or PermitReentry to accept '%s' without changing state",
			fmt.Sprint(destination))
	}
}
