package main

import (
	"context"
	"log/slog"

	"github.com/atlekbai/hsm"
	"github.com/atlekbai/hsm/definition"
)

// standInRegistry registers a stand-in for every name def refers to.
// Actions log their invocation, guards pass unless denied and selectors
// pick the first possible destination, or the source when none is listed.
func standInRegistry(def *definition.Definition, logger *slog.Logger, deny []string) *definition.Registry {
	denied := make(map[string]bool, len(deny))
	for _, name := range deny {
		denied[name] = true
	}

	reg := definition.NewRegistry()
	guards := func(names []string) {
		for _, name := range names {
			allowed := !denied[name]
			reg.Guard(name, func([]any) bool { return allowed })
		}
	}
	action := func(name string) {
		reg.Action(name, func(ctx context.Context, t hsm.Transition[string, string]) error {
			logger.InfoContext(ctx, "action",
				"name", name,
				"source", t.Source,
				"destination", t.Destination,
				"trigger", t.Trigger,
				"args", t.Parameters)
			return nil
		})
	}
	activation := func(name string) {
		reg.Activation(name, func(ctx context.Context) error {
			logger.InfoContext(ctx, "activation", "name", name)
			return nil
		})
	}

	for _, s := range def.States {
		for _, p := range s.Permit {
			guards(p.Guards)
		}
		for _, g := range append(append([]definition.Guarded(nil), s.Reentry...), s.Ignore...) {
			guards(g.Guards)
		}
		for _, in := range s.Internal {
			guards(in.Guards)
			action(in.Action)
		}
		for _, dyn := range s.Dynamic {
			guards(dyn.Guards)
			pick := func(source string) string {
				if len(dyn.Possible) == 0 {
					return source
				}
				return dyn.Possible[0].State
			}
			if dyn.Async {
				reg.AsyncSelector(dyn.Selector, func(_ context.Context, source string, _ []any) <-chan hsm.SelectorResult[string] {
					return hsm.Resolved(pick(source))
				})
				continue
			}
			reg.Selector(dyn.Selector, func(source string, _ []any) string {
				return pick(source)
			})
		}
		for _, name := range append(append([]string(nil), s.Entry...), s.Exit...) {
			action(name)
		}
		for _, a := range append(append([]definition.ActionFrom(nil), s.EntryFrom...), s.ExitFrom...) {
			action(a.Action)
		}
		for _, name := range append(append([]string(nil), s.Activate...), s.Deactivate...) {
			activation(name)
		}
	}
	return reg
}
