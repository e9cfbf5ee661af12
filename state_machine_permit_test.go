package hsm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hsm"
)

func alwaysTrue() bool  { return true }
func alwaysFalse() bool { return false }

func TestPermitIf_FirstPassingGuardWins(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.Guard(alwaysFalse, "first")).
		PermitIf(TriggerX, StateC, hsm.Guard(alwaysTrue, "second")).
		PermitIf(TriggerX, StateD, hsm.Guard(alwaysTrue, "third"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateC, sm.State())
}

func TestPermitIf_AllGuardsMustPass(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.Guard(alwaysTrue, "open"), hsm.Guard(alwaysFalse, "closed"))

	ok, unmet := sm.CanFireWithUnmetGuards(TriggerX)
	assert.False(t, ok)
	assert.Equal(t, []string{"closed"}, unmet)
}

func TestPermitIf_UnmetGuardsReported(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.Guard(alwaysFalse, "first")).
		PermitIf(TriggerX, StateC, hsm.Guard(alwaysFalse, "second"))

	err := sm.Fire(TriggerX)

	var unhandled *hsm.UnhandledTriggerError
	require.ErrorAs(t, err, &unhandled)
	assert.Equal(t, []string{"first", "second"}, unhandled.UnmetGuards)
	assert.EqualError(t, err,
		"trigger 'TriggerX' is valid for transition from state 'StateA' but guard conditions are not met: first, second")
	assert.Equal(t, StateA, sm.State())
}

func TestGuard_DefaultDescription(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.Guard(alwaysFalse)).
		PermitIf(TriggerY, StateB, hsm.Guard(func() bool { return false }))

	_, unmet := sm.CanFireWithUnmetGuards(TriggerX)
	assert.Equal(t, []string{"alwaysFalse"}, unmet)

	_, unmet = sm.CanFireWithUnmetGuards(TriggerY)
	assert.Equal(t, []string{hsm.DefaultFunctionDescription}, unmet)
}

func TestGuardArgs(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.GuardArgs(func(args []any) bool {
			if len(args) == 0 {
				return false
			}
			n, ok := args[0].(int)
			return ok && n > 10
		}, "above ten"))

	assert.False(t, sm.CanFire(TriggerX, 3))
	assert.True(t, sm.CanFire(TriggerX, 11))

	require.Error(t, sm.Fire(TriggerX, 3))
	require.NoError(t, sm.Fire(TriggerX, 11))
	assert.Equal(t, StateB, sm.State())
}

func TestPermitIf1(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	tp, err := hsm.SetTriggerParameters1[int](sm, TriggerX)
	require.NoError(t, err)

	hsm.PermitIf1(sm.Configure(StateA), tp, StateB, func(n int) bool { return n%2 == 0 }, "even")
	hsm.PermitIf1(sm.Configure(StateA), tp, StateC, func(n int) bool { return n%2 != 0 }, "odd")

	assert.True(t, hsm.CanFire1(sm, tp, 3))
	require.NoError(t, hsm.Fire1(context.Background(), sm, tp, 3))
	assert.Equal(t, StateC, sm.State())
}

func TestGetPermittedTriggers(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateA).
		Permit(TriggerX, StateC).
		Permit(TriggerZ, StateD)
	sm.Configure(StateB).
		SubstateOf(StateA).
		Permit(TriggerY, StateC).
		Permit(TriggerX, StateD).
		PermitIf(TriggerZ, StateC, hsm.Guard(alwaysFalse, "never"))

	assert.Equal(t, []Trigger{TriggerY, TriggerX, TriggerZ}, sm.GetPermittedTriggers())
}

func TestGetPermittedTriggers_GuardsFilter(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitIf(TriggerX, StateB, hsm.Guard(alwaysFalse)).
		Permit(TriggerY, StateC).
		Ignore(TriggerZ)

	assert.Equal(t, []Trigger{TriggerY, TriggerZ}, sm.GetPermittedTriggers())
}

func TestPermitReentry(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitReentry(TriggerX).
		OnEntry(rec.action("enter A")).
		OnExit(rec.action("exit A"))

	var transitioned []hsm.Transition[State, Trigger]
	sm.OnTransitioned(func(tr hsm.Transition[State, Trigger]) { transitioned = append(transitioned, tr) })
	completed := 0
	sm.OnTransitionCompleted(func(hsm.Transition[State, Trigger]) { completed++ })

	require.NoError(t, sm.Fire(TriggerX))

	assert.Equal(t, StateA, sm.State())
	assert.Equal(t, []string{"exit A", "enter A"}, rec.calls)
	require.Len(t, transitioned, 1)
	assert.True(t, transitioned[0].IsReentry())
	assert.Equal(t, 1, completed)
}

func TestPermitReentryIf(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitReentryIf(TriggerX, hsm.Guard(alwaysFalse, "blocked"))

	err := sm.Fire(TriggerX)
	var unhandled *hsm.UnhandledTriggerError
	require.ErrorAs(t, err, &unhandled)
	assert.Equal(t, []string{"blocked"}, unhandled.UnmetGuards)
}

func TestPermitDynamic(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitDynamic(TriggerX, func(source State, args []any) State {
			if len(args) > 0 && args[0] == "c" {
				return StateC
			}
			return StateB
		})
	sm.Configure(StateC).Permit(TriggerY, StateA)

	require.NoError(t, sm.Fire(TriggerX, "c"))
	assert.Equal(t, StateC, sm.State())

	require.NoError(t, sm.Fire(TriggerY))
	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateB, sm.State())
}

func TestPermitDynamic_SelectingSourceReenters(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitDynamic(TriggerX, func(source State, _ []any) State { return source }).
		OnEntry(rec.action("enter A")).
		OnExit(rec.action("exit A"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateA, sm.State())
	assert.Equal(t, []string{"exit A", "enter A"}, rec.calls)
}

func TestPermitDynamicIf(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitDynamicIf(TriggerX, func(State, []any) State { return StateB }, nil, hsm.Guard(alwaysFalse, "closed"))

	assert.False(t, sm.CanFire(TriggerX))
}

func TestPermitDynamicAsync(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitDynamicAsync(TriggerX, func(ctx context.Context, source State, args []any) <-chan hsm.SelectorResult[State] {
			ch := make(chan hsm.SelectorResult[State], 1)
			go func() {
				time.Sleep(5 * time.Millisecond)
				ch <- hsm.SelectorResult[State]{State: StateD}
			}()
			return ch
		})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateD, sm.State())
}

func TestPermitDynamicAsync_QueuedOrder(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	var order []State
	sm.OnTransitioned(func(tr hsm.Transition[State, Trigger]) { order = append(order, tr.Destination) })
	sm.Configure(StateA).
		Permit(TriggerY, StateB)
	sm.Configure(StateB).
		OnEntry(func(ctx context.Context, _ hsm.Transition[State, Trigger]) error {
			return sm.FireCtx(ctx, TriggerX)
		}).
		PermitDynamicAsync(TriggerX, func(ctx context.Context, _ State, _ []any) <-chan hsm.SelectorResult[State] {
			ch := make(chan hsm.SelectorResult[State], 1)
			go func() { ch <- hsm.SelectorResult[State]{State: StateC} }()
			return ch
		})
	sm.Configure(StateC).Permit(TriggerZ, StateD)

	require.NoError(t, sm.Fire(TriggerY))
	require.NoError(t, sm.Fire(TriggerZ))
	assert.Equal(t, []State{StateB, StateC, StateD}, order)
}

func TestPermitDynamicAsync_Failure(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		OnExit(rec.action("exit A")).
		PermitDynamicAsync(TriggerX, func(context.Context, State, []any) <-chan hsm.SelectorResult[State] {
			return hsm.Failed[State](boom)
		})

	err := sm.Fire(TriggerX)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateA, sm.State())
	assert.Empty(t, rec.calls, "no exit action runs when the selector fails")
}

func TestPermitDynamicAsync_ContextTimeout(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		PermitDynamicAsync(TriggerX, func(context.Context, State, []any) <-chan hsm.SelectorResult[State] {
			return make(chan hsm.SelectorResult[State])
		})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := sm.FireCtx(ctx, TriggerX)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateA, sm.State())
}

func TestPermitDynamicAsync_Resolved(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA, hsm.WithFiringMode(hsm.FiringImmediate))
	sm.Configure(StateA).
		PermitDynamicAsync(TriggerX, func(context.Context, State, []any) <-chan hsm.SelectorResult[State] {
			return hsm.Resolved(StateB)
		})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateB, sm.State())
}

func TestOnUnhandledTrigger_CustomPolicy(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).PermitIf(TriggerX, StateB, hsm.Guard(alwaysFalse, "never"))

	var gotState State
	var gotTrigger Trigger
	var gotGuards []string
	sm.OnUnhandledTrigger(func(_ context.Context, s State, tr Trigger, unmet []string) error {
		gotState, gotTrigger, gotGuards = s, tr, unmet
		return nil
	})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateA, gotState)
	assert.Equal(t, TriggerX, gotTrigger)
	assert.Equal(t, []string{"never"}, gotGuards)
	assert.Equal(t, StateA, sm.State())
}

func TestOnUnhandledTrigger_WrapsDefault(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	calls := 0
	sm.OnUnhandledTrigger(func(ctx context.Context, s State, tr Trigger, unmet []string) error {
		calls++
		return sm.DefaultUnhandledTrigger(ctx, s, tr, unmet)
	})

	assert.ErrorIs(t, sm.Fire(TriggerZ), hsm.ErrUnhandledTrigger)
	assert.Equal(t, 1, calls)
}
