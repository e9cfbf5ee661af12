package hsm_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hsm"
)

type stringer interface{ String() string }

func TestTriggerWithParameters_Descriptor(t *testing.T) {
	tp := hsm.NewTriggerWithParameters(TriggerX, reflect.TypeOf(""), reflect.TypeOf(0))

	assert.Equal(t, TriggerX, tp.Trigger())
	assert.Equal(t, 2, tp.Arity())
	assert.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(0)}, tp.ArgumentTypes())

	types := tp.ArgumentTypes()
	types[0] = reflect.TypeOf(true)
	assert.Equal(t, reflect.TypeOf(""), tp.ArgumentTypes()[0], "argument types are copied")
}

func TestTriggerWithParameters_ValidateParameters(t *testing.T) {
	tp := hsm.NewTriggerWithParameters(TriggerX,
		reflect.TypeOf(0),
		reflect.TypeOf((*stringer)(nil)).Elem(),
		nil)

	tests := []struct {
		name     string
		args     []any
		position int
		message  string
	}{
		{name: "valid", args: []any{1, TriggerY, "anything"}},
		{name: "untyped slot accepts nil", args: []any{1, TriggerY, nil}},
		{name: "nil interface", args: []any{1, nil, 3}},
		{
			name:     "too many",
			args:     []any{1, TriggerY, 3, 4},
			position: 3,
			message:  "too many parameters have been supplied, expecting 3 but got 4",
		},
		{
			name:     "missing",
			args:     []any{1},
			position: 1,
			message:  "an argument in position 1 must be of type 'hsm_test.stringer', but was not provided",
		},
		{
			name:     "nil value type",
			args:     []any{nil, TriggerY, 3},
			position: 0,
			message:  "an argument in position 0 must be of type 'int', but was nil",
		},
		{
			name:     "wrong type",
			args:     []any{"1", TriggerY, 3},
			position: 0,
			message:  "the argument in position 0 is of type 'string' but must be of type 'int'",
		},
		{
			name:     "does not implement interface",
			args:     []any{1, 2, 3},
			position: 1,
			message:  "the argument in position 1 is of type 'int' but must be of type 'hsm_test.stringer'",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tp.ValidateParameters(tc.args)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			var paramErr *hsm.ParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tc.position, paramErr.Position)
			assert.Equal(t, tc.message, paramErr.Message)
			assert.Equal(t, TriggerX, paramErr.Trigger)
			assert.ErrorIs(t, err, hsm.ErrInvalidParameters)
			assert.Equal(t, fmt.Sprintf("trigger 'TriggerX': %s", tc.message), err.Error())
		})
	}
}

func TestSetTriggerParameters_Typed(t *testing.T) {
	sm := hsm.NewStateMachine[State, Trigger](StateA)

	one, err := hsm.SetTriggerParameters1[string](sm, TriggerX)
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{reflect.TypeOf("")}, one.ArgumentTypes())

	three, err := hsm.SetTriggerParameters3[int, error, []byte](sm, TriggerY)
	require.NoError(t, err)
	assert.Equal(t, 3, three.Arity())
	assert.Equal(t, "error", three.ArgumentTypes()[1].String())

	_, err = hsm.SetTriggerParameters2[int, int](sm, TriggerX)
	assert.ErrorIs(t, err, hsm.ErrDuplicateParameterConfiguration)
}
