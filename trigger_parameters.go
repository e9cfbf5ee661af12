package hsm

import (
	"fmt"
	"reflect"
)

// TriggerWithParameters associates a parameter contract with a trigger.
// Contracts are immutable once registered.
type TriggerWithParameters[TTrigger comparable] struct {
	trigger       TTrigger
	argumentTypes []reflect.Type
}

// NewTriggerWithParameters creates a parameter contract. A nil type accepts
// any argument at that position.
func NewTriggerWithParameters[TTrigger comparable](trigger TTrigger, argumentTypes ...reflect.Type) *TriggerWithParameters[TTrigger] {
	return &TriggerWithParameters[TTrigger]{
		trigger:       trigger,
		argumentTypes: append([]reflect.Type(nil), argumentTypes...),
	}
}

// Trigger returns the underlying trigger value.
func (t *TriggerWithParameters[TTrigger]) Trigger() TTrigger {
	return t.trigger
}

// ArgumentTypes returns the expected argument types.
func (t *TriggerWithParameters[TTrigger]) ArgumentTypes() []reflect.Type {
	return append([]reflect.Type(nil), t.argumentTypes...)
}

// Arity returns the number of arguments the trigger expects.
func (t *TriggerWithParameters[TTrigger]) Arity() int {
	return len(t.argumentTypes)
}

// ValidateParameters checks that args match the contract in count and type.
func (t *TriggerWithParameters[TTrigger]) ValidateParameters(args []any) error {
	if len(args) > len(t.argumentTypes) {
		return &ParameterError{
			Trigger:  t.trigger,
			Position: len(t.argumentTypes),
			Message: fmt.Sprintf("too many parameters have been supplied, expecting %d but got %d",
				len(t.argumentTypes), len(args)),
		}
	}

	for i, expected := range t.argumentTypes {
		if i >= len(args) {
			return &ParameterError{
				Trigger:  t.trigger,
				Position: i,
				Message:  fmt.Sprintf("an argument in position %d must be of type '%v', but was not provided", i, expected),
			}
		}
		if expected == nil {
			continue
		}
		arg := args[i]
		if arg == nil {
			if nillable(expected) {
				continue
			}
			return &ParameterError{
				Trigger:  t.trigger,
				Position: i,
				Message:  fmt.Sprintf("an argument in position %d must be of type '%v', but was nil", i, expected),
			}
		}
		if actual := reflect.TypeOf(arg); !actual.AssignableTo(expected) {
			return &ParameterError{
				Trigger:  t.trigger,
				Position: i,
				Message: fmt.Sprintf("the argument in position %d is of type '%v' but must be of type '%v'",
					i, actual, expected),
			}
		}
	}
	return nil
}

func (t *TriggerWithParameters[TTrigger]) String() string {
	return fmt.Sprintf("%v%v", t.trigger, t.argumentTypes)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TriggerWithParameters1 is a parameter contract with one typed argument.
type TriggerWithParameters1[TTrigger comparable, TArg0 any] struct {
	*TriggerWithParameters[TTrigger]
}

// TriggerWithParameters2 is a parameter contract with two typed arguments.
type TriggerWithParameters2[TTrigger comparable, TArg0, TArg1 any] struct {
	*TriggerWithParameters[TTrigger]
}

// TriggerWithParameters3 is a parameter contract with three typed arguments.
type TriggerWithParameters3[TTrigger comparable, TArg0, TArg1, TArg2 any] struct {
	*TriggerWithParameters[TTrigger]
}

// TriggerDetails describes a permitted trigger together with its parameter
// contract, if one is registered.
type TriggerDetails[TTrigger comparable] struct {
	Trigger       TTrigger
	HasParameters bool
	Parameters    *TriggerWithParameters[TTrigger]
}
