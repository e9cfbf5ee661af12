package hsm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParameters is returned when fired arguments do not match the
	// parameter contract registered for a trigger.
	ErrInvalidParameters = errors.New("invalid trigger parameters")

	// ErrDuplicateParameterConfiguration is returned when a trigger's parameters
	// are configured more than once.
	ErrDuplicateParameterConfiguration = errors.New("trigger parameters cannot be changed once set")

	// ErrUnhandledTrigger is returned by the default unhandled trigger policy.
	ErrUnhandledTrigger = errors.New("unhandled trigger")

	// ErrInvalidInitialTransitionTarget is returned when a state's initial
	// transition names a state that is not one of its substates.
	ErrInvalidInitialTransitionTarget = errors.New("initial transition target is not a substate")

	// ErrMisconfiguredFiringMode is returned when the firing mode is neither
	// FiringImmediate nor FiringQueued.
	ErrMisconfiguredFiringMode = errors.New("firing mode has not been configured")

	// ErrInvalidConfiguration covers any other builder misuse.
	ErrInvalidConfiguration = errors.New("invalid state machine configuration")
)

// ParameterError reports arguments that violate a trigger's parameter contract.
type ParameterError struct {
	Trigger  any
	Position int
	Message  string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("trigger '%v': %s", e.Trigger, e.Message)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}

// UnhandledTriggerError is raised when a trigger is fired from a state that
// has no eligible behaviour for it.
type UnhandledTriggerError struct {
	State       any
	Trigger     any
	UnmetGuards []string
}

func (e *UnhandledTriggerError) Error() string {
	if len(e.UnmetGuards) > 0 {
		return fmt.Sprintf(
			"trigger '%v' is valid for transition from state '%v' but guard conditions are not met: %s",
			e.Trigger, e.State, strings.Join(e.UnmetGuards, ", "))
	}
	return fmt.Sprintf("no transitions are permitted from state '%v' for trigger '%v'", e.State, e.Trigger)
}

func (e *UnhandledTriggerError) Unwrap() error {
	return ErrUnhandledTrigger
}

// ConfigurationError describes a misconfigured state or trigger. Builder
// methods panic with it; the firing pipeline returns it.
type ConfigurationError struct {
	State   any
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.State == nil {
		return e.Message
	}
	return fmt.Sprintf("state '%v': %s", e.State, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidConfiguration
	}
	return e.Err
}

// ActionError wraps an error returned by an entry, exit, internal,
// activation or deactivation action.
type ActionError struct {
	State any
	Phase string
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s action for state '%v' failed: %v", e.Phase, e.State, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func configPanic(state any, err error, format string, args ...any) {
	panic(&ConfigurationError{State: state, Message: fmt.Sprintf(format, args...), Err: err})
}
