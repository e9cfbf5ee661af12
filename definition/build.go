package definition

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/atlekbai/hsm"
)

// Machine is a machine built from a definition.
type Machine struct {
	*hsm.StateMachine[string, string]

	parameters map[string]*hsm.TriggerWithParameters[string]
}

// Parameters returns the parameter contract of trigger, if any.
func (m *Machine) Parameters(trigger string) (*hsm.TriggerWithParameters[string], bool) {
	tp, ok := m.parameters[trigger]
	return tp, ok
}

// FireText fires trigger with raw arguments converted to the trigger's
// parameter types.
func (m *Machine) FireText(ctx context.Context, trigger string, raw ...string) error {
	values := make([]any, len(raw))
	for i, r := range raw {
		values[i] = r
	}
	args := values
	if tp, ok := m.parameters[trigger]; ok {
		converted, err := ConvertArgs(tp.ArgumentTypes(), values)
		if err != nil {
			return fmt.Errorf("trigger '%s': %w", trigger, err)
		}
		args = converted
	}
	return m.FireCtx(ctx, trigger, args...)
}

// Build creates the machine described by d. opts are applied after the
// name and firing mode of the definition.
func (d *Definition) Build(reg *Registry, opts ...hsm.Option) (m *Machine, err error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	// The builder reports misconfiguration by panicking with a
	// *hsm.ConfigurationError.
	defer func() {
		if r := recover(); r != nil {
			cfgErr, ok := r.(*hsm.ConfigurationError)
			if !ok {
				panic(r)
			}
			m, err = nil, cfgErr
		}
	}()

	base := []hsm.Option{hsm.WithName(d.Name)}
	if d.Firing == "immediate" {
		base = append(base, hsm.WithFiringMode(hsm.FiringImmediate))
	}
	sm := hsm.NewStateMachine[string, string](d.Initial, append(base, opts...)...)
	m = &Machine{StateMachine: sm, parameters: make(map[string]*hsm.TriggerWithParameters[string])}

	for trigger, names := range d.Triggers {
		types := make([]reflect.Type, len(names))
		for i, name := range names {
			types[i] = parameterTypes[name]
		}
		tp, err := sm.SetTriggerParameters(trigger, types...)
		if err != nil {
			return nil, err
		}
		m.parameters[trigger] = tp
	}

	var errs []error
	for _, s := range d.States {
		if err := s.configure(sm.Configure(s.Name), reg); err != nil {
			errs = append(errs, fmt.Errorf("state '%s': %w", s.Name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := sm.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s State) configure(sc *hsm.StateConfiguration[string, string], reg *Registry) error {
	var errs []error
	guards := func(names []string) []hsm.GuardCondition {
		result := make([]hsm.GuardCondition, 0, len(names))
		for _, name := range names {
			fn, err := lookup(reg.guards, "guard", name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			result = append(result, hsm.GuardArgs(fn, name))
		}
		return result
	}
	action := func(name string) hsm.TransitionAction[string, string] {
		fn, err := lookup(reg.actions, "action", name)
		if err != nil {
			errs = append(errs, err)
		}
		return fn
	}
	activation := func(name string) hsm.ActivationAction {
		fn, err := lookup(reg.activations, "activation", name)
		if err != nil {
			errs = append(errs, err)
		}
		return fn
	}

	if s.SubstateOf != "" {
		sc.SubstateOf(s.SubstateOf)
	}
	if s.Initial != "" {
		sc.InitialTransition(s.Initial)
	}

	for _, p := range s.Permit {
		sc.PermitIf(p.Trigger, p.To, guards(p.Guards)...)
	}
	for _, r := range s.Reentry {
		sc.PermitReentryIf(r.Trigger, guards(r.Guards)...)
	}
	for _, ig := range s.Ignore {
		sc.IgnoreIf(ig.Trigger, guards(ig.Guards)...)
	}
	for _, in := range s.Internal {
		if fn := action(in.Action); fn != nil {
			sc.InternalTransitionIf(in.Trigger, fn, guards(in.Guards)...)
		}
	}
	for _, dyn := range s.Dynamic {
		possible := make([]hsm.DynamicStateInfo, len(dyn.Possible))
		for i, p := range dyn.Possible {
			possible[i] = hsm.PossibleDestination(p.State, p.Criterion)
		}
		if dyn.Async {
			fn, err := lookup(reg.asyncSelectors, "async selector", dyn.Selector)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			sc.PermitDynamicAsyncIf(dyn.Trigger, fn, possible, guards(dyn.Guards)...)
			continue
		}
		fn, err := lookup(reg.selectors, "selector", dyn.Selector)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sc.PermitDynamicIf(dyn.Trigger, fn, possible, guards(dyn.Guards)...)
	}

	for _, name := range s.Entry {
		if fn := action(name); fn != nil {
			sc.OnEntry(fn, name)
		}
	}
	for _, a := range s.EntryFrom {
		if fn := action(a.Action); fn != nil {
			sc.OnEntryFrom(a.Trigger, fn, a.Action)
		}
	}
	for _, name := range s.Exit {
		if fn := action(name); fn != nil {
			sc.OnExit(fn, name)
		}
	}
	for _, a := range s.ExitFrom {
		if fn := action(a.Action); fn != nil {
			sc.OnExitFrom(a.Trigger, fn, a.Action)
		}
	}
	for _, name := range s.Activate {
		if fn := activation(name); fn != nil {
			sc.OnActivate(fn, name)
		}
	}
	for _, name := range s.Deactivate {
		if fn := activation(name); fn != nil {
			sc.OnDeactivate(fn, name)
		}
	}

	return errors.Join(errs...)
}
