package hsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hsm"
)

func TestInternalTransition(t *testing.T) {
	rec := &recorder{}
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		InternalTransition(TriggerX, rec.action("internal")).
		OnEntry(rec.action("enter A")).
		OnExit(rec.action("exit A"))

	transitioned := 0
	sm.OnTransitioned(func(hsm.Transition[State, Trigger]) { transitioned++ })

	require.NoError(t, sm.Fire(TriggerX))
	require.NoError(t, sm.Fire(TriggerX))

	assert.Equal(t, StateA, sm.State())
	assert.Equal(t, []string{"internal", "internal"}, rec.calls)
	assert.Zero(t, transitioned)
}

func TestInternalTransition_ReceivesTransition(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	var got hsm.Transition[State, Trigger]
	sm.Configure(StateA).
		InternalTransition(TriggerX, func(_ context.Context, tr hsm.Transition[State, Trigger]) error {
			got = tr
			return nil
		})

	require.NoError(t, sm.Fire(TriggerX, "arg"))
	assert.Equal(t, StateA, got.Source)
	assert.Equal(t, StateA, got.Destination)
	assert.Equal(t, TriggerX, got.Trigger)
	assert.Equal(t, []any{"arg"}, got.Parameters)
}

func TestInternalTransition_InheritedFromSuperstate(t *testing.T) {
	rec := &recorder{}
	sm := newHierarchy(StateB, rec)
	var source State
	sm.Configure(StateA).
		InternalTransition(TriggerX, func(_ context.Context, tr hsm.Transition[State, Trigger]) error {
			source = tr.Source
			return nil
		})

	require.NoError(t, sm.Fire(TriggerX))
	assert.Equal(t, StateB, sm.State())
	assert.Equal(t, StateB, source)
	assert.Empty(t, rec.calls)
}

func TestInternalTransitionIf(t *testing.T) {
	allowed := false
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		InternalTransitionIf(TriggerX, (&recorder{}).action("internal"),
			hsm.Guard(func() bool { return allowed }, "allowed"))

	ok, unmet := sm.CanFireWithUnmetGuards(TriggerX)
	assert.False(t, ok)
	assert.Equal(t, []string{"allowed"}, unmet)

	allowed = true
	assert.True(t, sm.CanFire(TriggerX))
	require.NoError(t, sm.Fire(TriggerX))
}

func TestInternalTransition_Error(t *testing.T) {
	boom := errors.New("boom")
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		InternalTransition(TriggerX, func(context.Context, hsm.Transition[State, Trigger]) error {
			return boom
		})

	err := sm.Fire(TriggerX)
	require.ErrorIs(t, err, boom)

	var actionErr *hsm.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "internal", actionErr.Phase)
	assert.Equal(t, StateA, actionErr.State)
}

func TestInternalTransition_NilActionPanics(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)
	requireConfigPanic(t, func() { sm.Configure(StateA).InternalTransition(TriggerX, nil) })
}
