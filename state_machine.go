package hsm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
)

// TransitionFunc observes a transition.
type TransitionFunc[TState, TTrigger comparable] func(t Transition[TState, TTrigger])

// UnhandledTriggerFunc decides what happens when no behaviour handles a
// trigger. unmetGuards holds the descriptions of guards that blocked
// otherwise matching behaviours. A nil return makes Fire succeed.
type UnhandledTriggerFunc[TState, TTrigger comparable] func(ctx context.Context, state TState, trigger TTrigger, unmetGuards []string) error

// StateMachine models behaviour as transitions between a finite set of
// states. It is not safe for concurrent use: callers serialize Fire,
// configuration and queries. The internal locks only keep Pending and the
// observer lists consistent when read from another goroutine.
type StateMachine[TState, TTrigger comparable] struct {
	storage      StateStorage[TState]
	initialState TState

	representations map[TState]*stateRepresentation[TState, TTrigger]
	order           []TState

	triggerConfiguration map[TTrigger]*TriggerWithParameters[TTrigger]

	unhandledTriggerAction UnhandledTriggerFunc[TState, TTrigger]
	onTransitioned         transitionEvent[TState, TTrigger]
	onTransitionCompleted  transitionEvent[TState, TTrigger]

	firingMode FiringMode
	logger     *slog.Logger
	name       string

	mu         sync.Mutex
	eventQueue []queuedTrigger[TTrigger]
	firing     bool
}

type queuedTrigger[TTrigger comparable] struct {
	ctx     context.Context
	trigger TTrigger
	args    []any
}

type transitionEvent[TState, TTrigger comparable] struct {
	mu       sync.RWMutex
	handlers []TransitionFunc[TState, TTrigger]
}

func (e *transitionEvent[TState, TTrigger]) register(fn TransitionFunc[TState, TTrigger]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, fn)
}

func (e *transitionEvent[TState, TTrigger]) invoke(t Transition[TState, TTrigger]) {
	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()
	for _, h := range handlers {
		h(t)
	}
}

// NewStateMachine creates a machine that stores its own state, starting in
// initial.
func NewStateMachine[TState, TTrigger comparable](initial TState, opts ...Option) *StateMachine[TState, TTrigger] {
	return NewStateMachineWithStorage[TState, TTrigger](&boxedStorage[TState]{state: initial}, opts...)
}

// NewStateMachineWithAccessors creates a machine whose state lives in host
// storage reached through get and set.
func NewStateMachineWithAccessors[TState, TTrigger comparable](get func() TState, set func(TState), opts ...Option) *StateMachine[TState, TTrigger] {
	if get == nil || set == nil {
		configPanic(nil, nil, "state accessor and mutator cannot be nil")
	}
	return NewStateMachineWithStorage[TState, TTrigger](StorageFuncs[TState]{Get: get, Set: set}, opts...)
}

// NewStateMachineWithStorage creates a machine backed by storage.
func NewStateMachineWithStorage[TState, TTrigger comparable](storage StateStorage[TState], opts ...Option) *StateMachine[TState, TTrigger] {
	if storage == nil {
		configPanic(nil, nil, "state storage cannot be nil")
	}
	o := newOptions(opts)
	sm := &StateMachine[TState, TTrigger]{
		storage:              storage,
		initialState:         storage.State(),
		representations:      make(map[TState]*stateRepresentation[TState, TTrigger]),
		triggerConfiguration: make(map[TTrigger]*TriggerWithParameters[TTrigger]),
		firingMode:           o.firingMode,
		logger:               o.logger.With("machine", o.name),
		name:                 o.name,
	}
	sm.unhandledTriggerAction = sm.DefaultUnhandledTrigger
	return sm
}

// Name returns the label given with WithName or the generated one.
func (sm *StateMachine[TState, TTrigger]) Name() string {
	return sm.name
}

// FiringMode returns the firing mode fixed at construction.
func (sm *StateMachine[TState, TTrigger]) FiringMode() FiringMode {
	return sm.firingMode
}

// State returns the current state.
func (sm *StateMachine[TState, TTrigger]) State() TState {
	return sm.storage.State()
}

func (sm *StateMachine[TState, TTrigger]) setState(state TState) {
	sm.storage.SetState(state)
}

// Configure begins configuration of state.
func (sm *StateMachine[TState, TTrigger]) Configure(state TState) *StateConfiguration[TState, TTrigger] {
	return newStateConfiguration(sm.representation(state), sm.representation)
}

func (sm *StateMachine[TState, TTrigger]) representation(state TState) *stateRepresentation[TState, TTrigger] {
	rep, ok := sm.representations[state]
	if !ok {
		rep = newStateRepresentation[TState, TTrigger](state)
		sm.representations[state] = rep
		sm.order = append(sm.order, state)
	}
	return rep
}

func (sm *StateMachine[TState, TTrigger]) currentRepresentation() *stateRepresentation[TState, TTrigger] {
	return sm.representation(sm.State())
}

// SetTriggerParameters registers the argument types trigger must be fired
// with. A contract can be registered only once per trigger.
func (sm *StateMachine[TState, TTrigger]) SetTriggerParameters(trigger TTrigger, argumentTypes ...reflect.Type) (*TriggerWithParameters[TTrigger], error) {
	tp := NewTriggerWithParameters(trigger, argumentTypes...)
	if err := sm.saveTriggerConfiguration(tp); err != nil {
		return nil, err
	}
	return tp, nil
}

func (sm *StateMachine[TState, TTrigger]) saveTriggerConfiguration(tp *TriggerWithParameters[TTrigger]) error {
	if _, ok := sm.triggerConfiguration[tp.Trigger()]; ok {
		return fmt.Errorf("trigger '%v': %w", tp.Trigger(), ErrDuplicateParameterConfiguration)
	}
	sm.triggerConfiguration[tp.Trigger()] = tp
	return nil
}

// IsInState reports whether the current state is state or one of its
// substates.
func (sm *StateMachine[TState, TTrigger]) IsInState(state TState) bool {
	return sm.currentRepresentation().isIncludedIn(state)
}

// CanFire reports whether trigger would be handled in the current state.
func (sm *StateMachine[TState, TTrigger]) CanFire(trigger TTrigger, args ...any) bool {
	return sm.currentRepresentation().canHandle(trigger, args)
}

// CanFireWithUnmetGuards is CanFire that also returns the descriptions of
// the guards that prevent the trigger from being handled.
func (sm *StateMachine[TState, TTrigger]) CanFireWithUnmetGuards(trigger TTrigger, args ...any) (bool, []string) {
	result, ok := sm.currentRepresentation().tryFindHandler(trigger, args)
	return ok, result.unmetGuards
}

// GetPermittedTriggers returns the triggers that can be fired in the
// current state given args, local triggers before inherited ones.
func (sm *StateMachine[TState, TTrigger]) GetPermittedTriggers(args ...any) []TTrigger {
	return sm.currentRepresentation().permittedTriggers(args)
}

// GetDetailedPermittedTriggers is GetPermittedTriggers with the parameter
// contract of each trigger.
func (sm *StateMachine[TState, TTrigger]) GetDetailedPermittedTriggers(args ...any) []TriggerDetails[TTrigger] {
	triggers := sm.GetPermittedTriggers(args...)
	details := make([]TriggerDetails[TTrigger], len(triggers))
	for i, trigger := range triggers {
		tp, ok := sm.triggerConfiguration[trigger]
		details[i] = TriggerDetails[TTrigger]{Trigger: trigger, HasParameters: ok, Parameters: tp}
	}
	return details
}

// Activate runs the activation actions of the current state and its
// ancestors. Activating an already active state does nothing.
func (sm *StateMachine[TState, TTrigger]) Activate(ctx context.Context) error {
	return sm.currentRepresentation().activate(ctx)
}

// Deactivate runs the deactivation actions of the current state and its
// ancestors. Deactivating an inactive state does nothing.
func (sm *StateMachine[TState, TTrigger]) Deactivate(ctx context.Context) error {
	return sm.currentRepresentation().deactivate(ctx)
}

// OnTransitioned registers fn to run after the source is exited and before
// the destination is entered.
func (sm *StateMachine[TState, TTrigger]) OnTransitioned(fn TransitionFunc[TState, TTrigger]) {
	if fn == nil {
		configPanic(nil, nil, "transition callback cannot be nil")
	}
	sm.onTransitioned.register(fn)
}

// OnTransitionCompleted registers fn to run once the destination and any
// initial transitions have been entered.
func (sm *StateMachine[TState, TTrigger]) OnTransitionCompleted(fn TransitionFunc[TState, TTrigger]) {
	if fn == nil {
		configPanic(nil, nil, "transition callback cannot be nil")
	}
	sm.onTransitionCompleted.register(fn)
}

// OnUnhandledTrigger replaces the unhandled trigger policy.
func (sm *StateMachine[TState, TTrigger]) OnUnhandledTrigger(fn UnhandledTriggerFunc[TState, TTrigger]) {
	if fn == nil {
		configPanic(nil, nil, "unhandled trigger action cannot be nil")
	}
	sm.unhandledTriggerAction = fn
}

// DefaultUnhandledTrigger is the policy installed on every new machine. It
// returns an *UnhandledTriggerError and evaluates no guards.
func (sm *StateMachine[TState, TTrigger]) DefaultUnhandledTrigger(_ context.Context, state TState, trigger TTrigger, unmetGuards []string) error {
	return &UnhandledTriggerError{
		State:       state,
		Trigger:     trigger,
		UnmetGuards: unmetGuards,
	}
}

// Validate checks the configured hierarchy. Every initial transition must
// target a direct substate.
func (sm *StateMachine[TState, TTrigger]) Validate() error {
	var errs []error
	for _, state := range sm.order {
		rep := sm.representations[state]
		if rep.hasInitialTransition && !rep.hasSubstate(rep.initialTransitionTarget) {
			errs = append(errs, invalidInitialTransition(rep))
		}
	}
	return errors.Join(errs...)
}

func (sm *StateMachine[TState, TTrigger]) String() string {
	triggers := sm.GetPermittedTriggers()
	names := make([]string, len(triggers))
	for i, t := range triggers {
		names[i] = fmt.Sprint(t)
	}
	return fmt.Sprintf("StateMachine { State = %v, PermittedTriggers = { %s } }", sm.State(), strings.Join(names, ", "))
}

func invalidInitialTransition[TState, TTrigger comparable](rep *stateRepresentation[TState, TTrigger]) error {
	return &ConfigurationError{
		State:   rep.state,
		Message: fmt.Sprintf("the target (%v) for the initial transition is not a substate", rep.initialTransitionTarget),
		Err:     ErrInvalidInitialTransitionTarget,
	}
}
