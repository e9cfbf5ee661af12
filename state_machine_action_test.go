package hsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hsm"
)

func TestOnEntryFrom(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		Permit(TriggerY, StateB)
	sm.Configure(StateB).
		Permit(TriggerZ, StateA).
		OnEntry(rec.action("enter B")).
		OnEntryFrom(TriggerY, rec.action("enter B from Y"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"enter B"}, rec.calls)

	require.NoError(t, sm.Fire(TriggerZ))
	rec.calls = nil

	require.NoError(t, sm.Fire(TriggerY))
	assert.Equal(t, []string{"enter B", "enter B from Y"}, rec.calls)
}

func TestOnExitFrom(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		Permit(TriggerY, StateC).
		OnExitFrom(TriggerY, rec.action("exit A by Y"))
	sm.Configure(StateB).Permit(TriggerZ, StateA)

	require.NoError(t, sm.Fire(TriggerX))
	assert.Empty(t, rec.calls)

	require.NoError(t, sm.Fire(TriggerZ))
	require.NoError(t, sm.Fire(TriggerY))
	assert.Equal(t, []string{"exit A by Y"}, rec.calls)
}

func TestActions_RunInDeclarationOrder(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(rec.action("exit 1")).
		OnExit(rec.action("exit 2"))
	sm.Configure(StateB).
		OnEntry(rec.action("enter 1")).
		OnEntry(rec.action("enter 2"))

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, []string{"exit 1", "exit 2", "enter 1", "enter 2"}, rec.calls)
}

func TestEntryActionError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).
		OnEntry(func(context.Context, hsm.Transition[State, Trigger]) error { return boom }).
		OnEntry(rec.action("never"))

	completed := 0
	sm.OnTransitionCompleted(func(hsm.Transition[State, Trigger]) { completed++ })

	err := sm.Fire(TriggerX)
	require.ErrorIs(t, err, boom)

	var actionErr *hsm.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "entry", actionErr.Phase)
	assert.Equal(t, StateB, actionErr.State)
	assert.EqualError(t, err, "entry action for state 'StateB' failed: boom")

	assert.Equal(t, StateB, sm.State(), "state is committed before entry actions run")
	assert.Empty(t, rec.calls)
	assert.Zero(t, completed)
}

func TestExitActionError(t *testing.T) {
	boom := errors.New("boom")
	transitioned := 0
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(func(context.Context, hsm.Transition[State, Trigger]) error { return boom })
	sm.OnTransitioned(func(hsm.Transition[State, Trigger]) { transitioned++ })

	err := sm.Fire(TriggerX)
	require.ErrorIs(t, err, boom)

	var actionErr *hsm.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "exit", actionErr.Phase)
	assert.Equal(t, StateA, sm.State())
	assert.Zero(t, transitioned)
}

func TestEntryAction_ReceivesContext(t *testing.T) {
	type key struct{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	var got any
	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).
		OnEntry(func(ctx context.Context, _ hsm.Transition[State, Trigger]) error {
			got = ctx.Value(key{})
			return nil
		})

	ctx := context.WithValue(context.Background(), key{}, "value")
	require.NoError(t, sm.FireCtx(ctx, TriggerX))
	assert.Equal(t, "value", got)
}

func TestNilActionPanics(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	requireConfigPanic(t, func() { sm.Configure(StateA).OnEntry(nil) })
	requireConfigPanic(t, func() { sm.Configure(StateA).OnExit(nil) })
	requireConfigPanic(t, func() { sm.Configure(StateA).OnActivate(nil) })
	requireConfigPanic(t, func() { sm.Configure(StateA).OnDeactivate(nil) })
}

func activation(rec *recorder, name string) hsm.ActivationAction {
	return func(context.Context) error {
		rec.calls = append(rec.calls, name)
		return nil
	}
}

func TestActivateDeactivate(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateB)
	sm.Configure(StateA).
		OnActivate(activation(rec, "activate A")).
		OnDeactivate(activation(rec, "deactivate A"))
	sm.Configure(StateB).
		SubstateOf(StateA).
		OnActivate(activation(rec, "activate B")).
		OnDeactivate(activation(rec, "deactivate B"))

	ctx := context.Background()
	require.NoError(t, sm.Activate(ctx))
	assert.Equal(t, []string{"activate A", "activate B"}, rec.calls)

	require.NoError(t, sm.Activate(ctx))
	assert.Len(t, rec.calls, 2, "activating twice runs the actions once")

	rec.calls = nil
	require.NoError(t, sm.Deactivate(ctx))
	assert.Equal(t, []string{"deactivate B", "deactivate A"}, rec.calls)

	require.NoError(t, sm.Deactivate(ctx))
	assert.Len(t, rec.calls, 2, "deactivating twice runs the actions once")
}

func TestActivate_Error(t *testing.T) {
	boom := errors.New("boom")
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).OnActivate(func(context.Context) error { return boom })

	err := sm.Activate(context.Background())
	require.ErrorIs(t, err, boom)

	var actionErr *hsm.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "activate", actionErr.Phase)
}
