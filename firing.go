package hsm

import (
	"context"
	"fmt"
)

// Fire fires trigger with args. Depending on the firing mode the transition
// is processed now or after the transitions already in progress.
func (sm *StateMachine[TState, TTrigger]) Fire(trigger TTrigger, args ...any) error {
	return sm.FireCtx(context.Background(), trigger, args...)
}

// FireCtx is Fire with a context. The context is checked before the trigger
// is processed and passed to actions and asynchronous selectors.
func (sm *StateMachine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger, args ...any) error {
	return sm.internalFire(ctx, trigger, args)
}

// FireParams fires the trigger of a parameter contract.
func (sm *StateMachine[TState, TTrigger]) FireParams(ctx context.Context, tp *TriggerWithParameters[TTrigger], args ...any) error {
	if tp == nil {
		return &ConfigurationError{Message: "trigger parameters cannot be nil"}
	}
	return sm.internalFire(ctx, tp.Trigger(), args)
}

func (sm *StateMachine[TState, TTrigger]) internalFire(ctx context.Context, trigger TTrigger, args []any) error {
	if args == nil {
		args = []any{}
	}
	switch sm.firingMode {
	case FiringImmediate:
		return sm.internalFireOne(ctx, trigger, args)
	case FiringQueued:
		return sm.internalFireQueued(ctx, trigger, args)
	default:
		return fmt.Errorf("%w: %v", ErrMisconfiguredFiringMode, sm.firingMode)
	}
}

// internalFireQueued appends the trigger to the queue. The outermost call
// drains the queue; nested calls return immediately. On error the
// remaining events stay queued for the next Fire.
func (sm *StateMachine[TState, TTrigger]) internalFireQueued(ctx context.Context, trigger TTrigger, args []any) error {
	sm.mu.Lock()
	sm.eventQueue = append(sm.eventQueue, queuedTrigger[TTrigger]{ctx: ctx, trigger: trigger, args: args})
	if sm.firing {
		sm.mu.Unlock()
		sm.logger.Debug("queued", "trigger", trigger, "state", sm.State())
		return nil
	}
	sm.firing = true
	sm.mu.Unlock()

	defer func() {
		sm.mu.Lock()
		sm.firing = false
		sm.mu.Unlock()
	}()

	for {
		sm.mu.Lock()
		if len(sm.eventQueue) == 0 {
			sm.mu.Unlock()
			return nil
		}
		event := sm.eventQueue[0]
		sm.eventQueue[0] = queuedTrigger[TTrigger]{}
		sm.eventQueue = sm.eventQueue[1:]
		sm.mu.Unlock()

		if err := sm.internalFireOne(event.ctx, event.trigger, event.args); err != nil {
			return err
		}
	}
}

// Pending returns the number of queued triggers not yet processed.
func (sm *StateMachine[TState, TTrigger]) Pending() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.eventQueue)
}

func (sm *StateMachine[TState, TTrigger]) internalFireOne(ctx context.Context, trigger TTrigger, args []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tp, ok := sm.triggerConfiguration[trigger]; ok {
		if err := tp.ValidateParameters(args); err != nil {
			sm.logger.Warn("invalid parameters", "trigger", trigger, "error", err)
			return err
		}
	}

	source := sm.State()
	rep := sm.representation(source)
	sm.logger.Debug("fire", "trigger", trigger, "state", source)

	result, ok := rep.tryFindHandler(trigger, args)
	if !ok {
		sm.logger.Debug("unhandled trigger", "trigger", trigger, "state", source, "unmet_guards", result.unmetGuards)
		return sm.unhandledTriggerAction(ctx, source, trigger, result.unmetGuards)
	}

	switch b := result.handler.(type) {
	case *IgnoredTrigger[TState, TTrigger]:
		return nil

	case *ReentryTrigger[TState, TTrigger]:
		return sm.handleReentryTrigger(ctx, rep, NewTransition(source, b.Destination, trigger, args...))

	case *DynamicTrigger[TState, TTrigger]:
		destination := b.Destination(source, args)
		return sm.handleTransitioningTrigger(ctx, rep, NewTransition(source, destination, trigger, args...))

	case *DynamicAsyncTrigger[TState, TTrigger]:
		destination, err := b.Destination(ctx, source, args)
		if err != nil {
			return fmt.Errorf("select destination for trigger '%v' in state '%v': %w", trigger, source, err)
		}
		return sm.handleTransitioningTrigger(ctx, rep, NewTransition(source, destination, trigger, args...))

	case *TransitioningTrigger[TState, TTrigger]:
		// A superstate transition into the current substate would re-enter it.
		if source == b.Destination {
			return nil
		}
		return sm.handleTransitioningTrigger(ctx, rep, NewTransition(source, b.Destination, trigger, args...))

	case *InternalTrigger[TState, TTrigger]:
		if err := b.Execute(ctx, NewTransition(source, source, trigger, args...)); err != nil {
			return &ActionError{State: source, Phase: "internal", Err: err}
		}
		return nil

	default:
		return &ConfigurationError{State: source, Message: fmt.Sprintf("unknown trigger behaviour %T", result.handler)}
	}
}

func (sm *StateMachine[TState, TTrigger]) handleReentryTrigger(ctx context.Context, rep *stateRepresentation[TState, TTrigger], t Transition[TState, TTrigger]) error {
	if err := rep.exit(ctx, t); err != nil {
		return err
	}
	dest := sm.representation(t.Destination)
	if t.Source != t.Destination {
		// Re-entering a superstate from one of its substates: the superstate
		// itself is exited and entered again.
		t = NewTransition(t.Destination, t.Destination, t.Trigger, t.Parameters...)
		if err := dest.exit(ctx, t); err != nil {
			return err
		}
	}

	sm.setState(t.Destination)
	sm.logTransition("reentry", t)
	sm.onTransitioned.invoke(t)
	final, err := sm.enterState(ctx, dest, t)
	if err != nil {
		return err
	}
	sm.setState(final.state)
	sm.onTransitionCompleted.invoke(NewTransition(t.Source, final.state, t.Trigger, t.Parameters...))
	return nil
}

func (sm *StateMachine[TState, TTrigger]) handleTransitioningTrigger(ctx context.Context, rep *stateRepresentation[TState, TTrigger], t Transition[TState, TTrigger]) error {
	if err := rep.exit(ctx, t); err != nil {
		return err
	}

	sm.setState(t.Destination)
	sm.logTransition("transition", t)
	sm.onTransitioned.invoke(t)

	final, err := sm.enterState(ctx, sm.representation(t.Destination), t)
	if err != nil {
		return err
	}
	if final.state != sm.State() {
		sm.setState(final.state)
	}
	sm.onTransitionCompleted.invoke(NewTransition(t.Source, sm.State(), t.Trigger, t.Parameters...))
	return nil
}

// enterState enters rep and follows initial transitions down to the
// resting state, which is returned.
func (sm *StateMachine[TState, TTrigger]) enterState(ctx context.Context, rep *stateRepresentation[TState, TTrigger], t Transition[TState, TTrigger]) (*stateRepresentation[TState, TTrigger], error) {
	if err := rep.enter(ctx, t); err != nil {
		return nil, err
	}

	if sm.firingMode == FiringImmediate && sm.State() != t.Destination {
		// An entry action fired another trigger.
		rep = sm.currentRepresentation()
		t = NewTransition(t.Source, rep.state, t.Trigger, t.Parameters...)
	}

	if !rep.hasInitialTransition {
		return rep, nil
	}
	if !rep.hasSubstate(rep.initialTransitionTarget) {
		return nil, invalidInitialTransition(rep)
	}

	initial := NewInitialTransition(rep.state, rep.initialTransitionTarget, t.Trigger, t.Parameters...)
	sm.setState(initial.Destination)
	sm.logTransition("initial transition", initial)
	sm.onTransitioned.invoke(initial)

	final, err := sm.enterState(ctx, sm.representation(initial.Destination), initial)
	if err != nil {
		return nil, err
	}
	sm.onTransitionCompleted.invoke(NewInitialTransition(rep.state, final.state, t.Trigger, t.Parameters...))
	return final, nil
}

func (sm *StateMachine[TState, TTrigger]) logTransition(msg string, t Transition[TState, TTrigger]) {
	sm.logger.Debug(msg, "trigger", t.Trigger, "source", t.Source, "destination", t.Destination)
}
