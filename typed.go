package hsm

import "context"

// SetTriggerParameters1 registers a one-argument contract for trigger.
func SetTriggerParameters1[TArg0 any, TState, TTrigger comparable](sm *StateMachine[TState, TTrigger], trigger TTrigger) (*TriggerWithParameters1[TTrigger, TArg0], error) {
	tp, err := sm.SetTriggerParameters(trigger, typeOf[TArg0]())
	if err != nil {
		return nil, err
	}
	return &TriggerWithParameters1[TTrigger, TArg0]{tp}, nil
}

// SetTriggerParameters2 registers a two-argument contract for trigger.
func SetTriggerParameters2[TArg0, TArg1 any, TState, TTrigger comparable](sm *StateMachine[TState, TTrigger], trigger TTrigger) (*TriggerWithParameters2[TTrigger, TArg0, TArg1], error) {
	tp, err := sm.SetTriggerParameters(trigger, typeOf[TArg0](), typeOf[TArg1]())
	if err != nil {
		return nil, err
	}
	return &TriggerWithParameters2[TTrigger, TArg0, TArg1]{tp}, nil
}

// SetTriggerParameters3 registers a three-argument contract for trigger.
func SetTriggerParameters3[TArg0, TArg1, TArg2 any, TState, TTrigger comparable](sm *StateMachine[TState, TTrigger], trigger TTrigger) (*TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2], error) {
	tp, err := sm.SetTriggerParameters(trigger, typeOf[TArg0](), typeOf[TArg1](), typeOf[TArg2]())
	if err != nil {
		return nil, err
	}
	return &TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2]{tp}, nil
}

// Fire1 fires a one-argument trigger.
func Fire1[TArg0 any, TState, TTrigger comparable](ctx context.Context, sm *StateMachine[TState, TTrigger], tp *TriggerWithParameters1[TTrigger, TArg0], arg0 TArg0) error {
	return sm.FireCtx(ctx, tp.Trigger(), arg0)
}

// Fire2 fires a two-argument trigger.
func Fire2[TArg0, TArg1 any, TState, TTrigger comparable](ctx context.Context, sm *StateMachine[TState, TTrigger], tp *TriggerWithParameters2[TTrigger, TArg0, TArg1], arg0 TArg0, arg1 TArg1) error {
	return sm.FireCtx(ctx, tp.Trigger(), arg0, arg1)
}

// Fire3 fires a three-argument trigger.
func Fire3[TArg0, TArg1, TArg2 any, TState, TTrigger comparable](ctx context.Context, sm *StateMachine[TState, TTrigger], tp *TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2], arg0 TArg0, arg1 TArg1, arg2 TArg2) error {
	return sm.FireCtx(ctx, tp.Trigger(), arg0, arg1, arg2)
}

// CanFire1 reports whether a one-argument trigger would be handled with arg0.
func CanFire1[TArg0 any, TState, TTrigger comparable](sm *StateMachine[TState, TTrigger], tp *TriggerWithParameters1[TTrigger, TArg0], arg0 TArg0) bool {
	return sm.CanFire(tp.Trigger(), arg0)
}

// PermitIf1 is PermitIf with a guard over the typed argument.
func PermitIf1[TArg0 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	tp *TriggerWithParameters1[TTrigger, TArg0],
	destination TState,
	guard func(TArg0) bool,
	description ...string,
) *StateConfiguration[TState, TTrigger] {
	g := GuardArgs(func(args []any) bool {
		return guard(argAt[TArg0](args, 0))
	}, description...)
	if len(description) == 0 {
		g.method = CreateInvocationInfo(guard, "", TimingSynchronous)
	}
	return sc.PermitIf(tp.Trigger(), destination, g)
}

// OnEntryFrom1 runs action with the typed argument when the state is
// entered through tp.
func OnEntryFrom1[TArg0 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	tp *TriggerWithParameters1[TTrigger, TArg0],
	action func(ctx context.Context, arg0 TArg0, t Transition[TState, TTrigger]) error,
	description ...string,
) *StateConfiguration[TState, TTrigger] {
	trigger := tp.Trigger()
	sc.representation.entryActions = append(sc.representation.entryActions, newTransitionActionBehaviour[TState, TTrigger](
		func(ctx context.Context, t Transition[TState, TTrigger]) error {
			return action(ctx, argAt[TArg0](t.Parameters, 0), t)
		},
		CreateInvocationInfo(action, firstOrEmpty(description), TimingSynchronous),
		&trigger,
	))
	return sc
}

// OnEntryFrom2 runs action with the typed arguments when the state is
// entered through tp.
func OnEntryFrom2[TArg0, TArg1 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	tp *TriggerWithParameters2[TTrigger, TArg0, TArg1],
	action func(ctx context.Context, arg0 TArg0, arg1 TArg1, t Transition[TState, TTrigger]) error,
	description ...string,
) *StateConfiguration[TState, TTrigger] {
	trigger := tp.Trigger()
	sc.representation.entryActions = append(sc.representation.entryActions, newTransitionActionBehaviour[TState, TTrigger](
		func(ctx context.Context, t Transition[TState, TTrigger]) error {
			return action(ctx, argAt[TArg0](t.Parameters, 0), argAt[TArg1](t.Parameters, 1), t)
		},
		CreateInvocationInfo(action, firstOrEmpty(description), TimingSynchronous),
		&trigger,
	))
	return sc
}

// OnEntryFrom3 runs action with the typed arguments when the state is
// entered through tp.
func OnEntryFrom3[TArg0, TArg1, TArg2 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	tp *TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2],
	action func(ctx context.Context, arg0 TArg0, arg1 TArg1, arg2 TArg2, t Transition[TState, TTrigger]) error,
	description ...string,
) *StateConfiguration[TState, TTrigger] {
	trigger := tp.Trigger()
	sc.representation.entryActions = append(sc.representation.entryActions, newTransitionActionBehaviour[TState, TTrigger](
		func(ctx context.Context, t Transition[TState, TTrigger]) error {
			return action(ctx, argAt[TArg0](t.Parameters, 0), argAt[TArg1](t.Parameters, 1), argAt[TArg2](t.Parameters, 2), t)
		},
		CreateInvocationInfo(action, firstOrEmpty(description), TimingSynchronous),
		&trigger,
	))
	return sc
}

func argAt[T any](args []any, i int) T {
	var zero T
	if i >= len(args) {
		return zero
	}
	v, ok := args[i].(T)
	if !ok {
		return zero
	}
	return v
}
