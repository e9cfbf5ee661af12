package hsm

// GuardFunc is a predicate over the arguments a trigger was fired with.
type GuardFunc func(args []any) bool

// GuardCondition is a single named guard predicate.
type GuardCondition struct {
	predicate GuardFunc
	method    InvocationInfo
}

// Guard builds a guard condition that ignores trigger arguments. When no
// description is given the function name is used.
func Guard(fn func() bool, description ...string) GuardCondition {
	if fn == nil {
		configPanic(nil, nil, "guard function cannot be nil")
	}
	return GuardCondition{
		predicate: func([]any) bool { return fn() },
		method:    CreateInvocationInfo(fn, firstOrEmpty(description), TimingSynchronous),
	}
}

// GuardArgs builds a guard condition evaluated against the trigger arguments.
func GuardArgs(fn func(args []any) bool, description ...string) GuardCondition {
	if fn == nil {
		configPanic(nil, nil, "guard function cannot be nil")
	}
	return GuardCondition{
		predicate: fn,
		method:    CreateInvocationInfo(fn, firstOrEmpty(description), TimingSynchronous),
	}
}

// Description returns the description reported when the guard is unmet.
func (g GuardCondition) Description() string {
	return g.method.Description()
}

// MethodDescription returns the full method description.
func (g GuardCondition) MethodDescription() InvocationInfo {
	return g.method
}

// IsMet evaluates the guard.
func (g GuardCondition) IsMet(args []any) bool {
	if g.predicate == nil {
		return true
	}
	return g.predicate(args)
}

// TransitionGuard is the conjunction of the guard conditions attached to one
// trigger behaviour.
type TransitionGuard struct {
	Conditions []GuardCondition
}

// EmptyTransitionGuard always passes.
var EmptyTransitionGuard = TransitionGuard{}

func newTransitionGuard(conditions ...GuardCondition) TransitionGuard {
	if len(conditions) == 0 {
		return EmptyTransitionGuard
	}
	return TransitionGuard{Conditions: append([]GuardCondition(nil), conditions...)}
}

// ConditionsMet reports whether every condition passes.
func (tg TransitionGuard) ConditionsMet(args []any) bool {
	for _, c := range tg.Conditions {
		if !c.IsMet(args) {
			return false
		}
	}
	return true
}

// UnmetConditions returns the descriptions of the conditions that fail.
func (tg TransitionGuard) UnmetConditions(args []any) []string {
	var unmet []string
	for _, c := range tg.Conditions {
		if !c.IsMet(args) {
			unmet = append(unmet, c.Description())
		}
	}
	return unmet
}

// IsEmpty reports whether the guard has no conditions.
func (tg TransitionGuard) IsEmpty() bool {
	return len(tg.Conditions) == 0
}

func (tg TransitionGuard) methodDescriptions() []InvocationInfo {
	result := make([]InvocationInfo, len(tg.Conditions))
	for i, c := range tg.Conditions {
		result[i] = c.method
	}
	return result
}

func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}
