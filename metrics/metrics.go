// Package metrics exports state machine activity as Prometheus counters.
//
//	c := metrics.NewCollector("door")
//	prometheus.MustRegister(c)
//	metrics.Instrument(c, sm)
//
// Every counter carries the machine name so one collector can serve many
// machines.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atlekbai/hsm"
)

// Transition kinds reported in the "kind" label.
const (
	KindTransition = "transition"
	KindReentry    = "reentry"
	KindInitial    = "initial"
)

// Collector counts transitions, completions, unhandled triggers and fire
// errors. It implements prometheus.Collector.
type Collector struct {
	transitions *prometheus.CounterVec
	completed   *prometheus.CounterVec
	unhandled   *prometheus.CounterVec
	fireErrors  *prometheus.CounterVec
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hsm_transitions_total",
				Help:      "Transitions taken, counted when the source has been exited.",
			},
			[]string{"machine", "source", "destination", "trigger", "kind"},
		),
		completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hsm_transitions_completed_total",
				Help:      "Transitions completed, by the state the machine came to rest in.",
			},
			[]string{"machine", "destination"},
		),
		unhandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hsm_unhandled_triggers_total",
				Help:      "Triggers fired in a state that could not handle them.",
			},
			[]string{"machine", "state", "trigger", "guarded"},
		),
		fireErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hsm_fire_errors_total",
				Help:      "Fire calls that returned an error.",
			},
			[]string{"machine", "trigger"},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.transitions.Describe(ch)
	c.completed.Describe(ch)
	c.unhandled.Describe(ch)
	c.fireErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.transitions.Collect(ch)
	c.completed.Collect(ch)
	c.unhandled.Collect(ch)
	c.fireErrors.Collect(ch)
}

// Instrument registers observers on sm and replaces its unhandled trigger
// policy with one that counts before delegating to the default policy.
// Install a custom policy with UnhandledPolicy instead when one is needed.
func Instrument[TState, TTrigger comparable](c *Collector, sm *hsm.StateMachine[TState, TTrigger]) {
	machine := sm.Name()

	sm.OnTransitioned(func(t hsm.Transition[TState, TTrigger]) {
		c.transitions.WithLabelValues(
			machine,
			fmt.Sprint(t.Source),
			fmt.Sprint(t.Destination),
			fmt.Sprint(t.Trigger),
			kindOf(t),
		).Inc()
	})
	sm.OnTransitionCompleted(func(t hsm.Transition[TState, TTrigger]) {
		if t.IsInitial() {
			return
		}
		c.completed.WithLabelValues(machine, fmt.Sprint(t.Destination)).Inc()
	})
	sm.OnUnhandledTrigger(UnhandledPolicy[TState, TTrigger](c, machine, sm.DefaultUnhandledTrigger))
}

// UnhandledPolicy wraps next so that every unhandled trigger is counted.
func UnhandledPolicy[TState, TTrigger comparable](
	c *Collector,
	machine string,
	next hsm.UnhandledTriggerFunc[TState, TTrigger],
) hsm.UnhandledTriggerFunc[TState, TTrigger] {
	return func(ctx context.Context, state TState, trigger TTrigger, unmetGuards []string) error {
		guarded := "false"
		if len(unmetGuards) > 0 {
			guarded = "true"
		}
		c.unhandled.WithLabelValues(machine, fmt.Sprint(state), fmt.Sprint(trigger), guarded).Inc()
		if next == nil {
			return nil
		}
		return next(ctx, state, trigger, unmetGuards)
	}
}

// ObserveFire counts err against trigger when it is not nil and returns it
// unchanged.
//
//	err := c.ObserveFire(sm.Name(), trigger, sm.Fire(trigger))
func (c *Collector) ObserveFire(machine string, trigger any, err error) error {
	if err != nil {
		c.fireErrors.WithLabelValues(machine, fmt.Sprint(trigger)).Inc()
	}
	return err
}

func kindOf[TState, TTrigger comparable](t hsm.Transition[TState, TTrigger]) string {
	switch {
	case t.IsInitial():
		return KindInitial
	case t.IsReentry():
		return KindReentry
	default:
		return KindTransition
	}
}
