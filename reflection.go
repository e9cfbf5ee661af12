package hsm

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Timing indicates whether a method is synchronous or asynchronous.
type Timing int

const (
	// TimingSynchronous indicates the method is synchronous.
	TimingSynchronous Timing = iota
	// TimingAsynchronous indicates the method is asynchronous.
	TimingAsynchronous
)

// DefaultFunctionDescription is the text returned for anonymous functions
// where the caller has not specified a description.
var DefaultFunctionDescription = "Function"

// NullString is the string representation of a missing value.
const NullString = "<null>"

var closureName = regexp.MustCompile(`(^|\.)func\d+(\.\d+)*$`)

// InvocationInfo describes a method: an action, a guard condition or a
// dynamic state selector.
type InvocationInfo struct {
	// MethodName is the runtime name of the invoked function.
	MethodName string

	description string
	timing      Timing
}

// NewInvocationInfo creates a new InvocationInfo.
func NewInvocationInfo(methodName, description string, timing Timing) InvocationInfo {
	return InvocationInfo{
		MethodName:  methodName,
		description: description,
		timing:      timing,
	}
}

// CreateInvocationInfo creates an InvocationInfo from a function value.
func CreateInvocationInfo(fn any, description string, timing Timing) InvocationInfo {
	return NewInvocationInfo(functionName(fn), description, timing)
}

// Description returns the user-specified description if there is one,
// DefaultFunctionDescription for anonymous functions, and the bare function
// name otherwise.
func (i InvocationInfo) Description() string {
	if i.description != "" {
		return i.description
	}
	if i.MethodName == "" {
		return NullString
	}
	name := i.MethodName
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if closureName.MatchString(name) {
		return DefaultFunctionDescription
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// IsAsync reports whether the method is invoked asynchronously.
func (i InvocationInfo) IsAsync() bool {
	return i.timing == TimingAsynchronous
}

func functionName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// ActionInfo describes an entry action, optionally restricted to a trigger.
type ActionInfo struct {
	InvocationInfo

	// FromTrigger is the trigger the action is restricted to, or nil.
	FromTrigger any
}

// NewActionInfo creates a new ActionInfo.
func NewActionInfo(method InvocationInfo, fromTrigger any) ActionInfo {
	return ActionInfo{InvocationInfo: method, FromTrigger: fromTrigger}
}

// TriggerInfo describes a trigger.
type TriggerInfo struct {
	// UnderlyingTrigger is the trigger value.
	UnderlyingTrigger any
}

// NewTriggerInfo creates a new TriggerInfo.
func NewTriggerInfo(trigger any) TriggerInfo {
	return TriggerInfo{UnderlyingTrigger: trigger}
}

func (t TriggerInfo) String() string {
	if t.UnderlyingTrigger == nil {
		return NullString
	}
	return fmt.Sprint(t.UnderlyingTrigger)
}
