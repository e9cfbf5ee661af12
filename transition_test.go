package hsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlekbai/hsm"
)

func TestNewTransition(t *testing.T) {
	tr := hsm.NewTransition(StateA, StateB, TriggerX)

	assert.Equal(t, StateA, tr.Source)
	assert.Equal(t, StateB, tr.Destination)
	assert.Equal(t, TriggerX, tr.Trigger)
	assert.NotNil(t, tr.Parameters)
	assert.Empty(t, tr.Parameters)
	assert.False(t, tr.IsReentry())
	assert.False(t, tr.IsInitial())
}

func TestTransition_IsReentry(t *testing.T) {
	assert.True(t, hsm.NewTransition(StateA, StateA, TriggerX).IsReentry())
}

func TestTransition_IsInitial(t *testing.T) {
	tr := hsm.NewInitialTransition(StateA, StateB, TriggerX, 1)

	assert.True(t, tr.IsInitial())
	assert.Equal(t, []any{1}, tr.Parameters)
}

func TestTransition_Arg(t *testing.T) {
	tr := hsm.NewTransition(StateA, StateB, TriggerX, "a", 2)

	assert.Equal(t, "a", tr.Arg(0))
	assert.Equal(t, 2, tr.Arg(1))
	assert.Nil(t, tr.Arg(2))
	assert.Nil(t, tr.Arg(-1))
}
