package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/atlekbai/hsm"
	"github.com/atlekbai/hsm/metrics"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		fire        []string
		deny        []string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Fire triggers at a machine and report its transitions",
		Long: `Builds the machine with stand-in guards, actions and selectors, activates it
and fires each --fire trigger in order. Arguments follow the trigger after a
colon and are separated by commas, for example --fire SetVolume:5.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(args[0], deny)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			collector := metrics.NewCollector("")
			metrics.Instrument(collector, m.StateMachine)
			m.OnTransitioned(func(t hsm.Transition[string, string]) {
				kind := ""
				if t.IsInitial() {
					kind = " (initial)"
				}
				fmt.Fprintf(out, "%s --%s--> %s%s\n", t.Source, t.Trigger, t.Destination, kind)
			})

			if err := m.Activate(ctx); err != nil {
				return err
			}

			var errs []error
			for _, f := range fire {
				trigger, raw := parseFire(f)
				if err := collector.ObserveFire(m.Name(), trigger, m.FireText(ctx, trigger, raw...)); err != nil {
					fmt.Fprintf(out, "%s: %v\n", trigger, err)
					errs = append(errs, err)
				}
			}

			if err := m.Deactivate(ctx); err != nil {
				errs = append(errs, err)
			}
			fmt.Fprintf(out, "state: %s\n", m.State())

			if showMetrics {
				if err := writeMetrics(out, collector); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringArrayVar(&fire, "fire", nil, "Trigger to fire, as Trigger or Trigger:arg1,arg2 (repeatable)")
	cmd.Flags().StringSliceVar(&deny, "deny", nil, "Guards that evaluate to false")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the collected metrics after the run")
	return cmd
}

func parseFire(spec string) (string, []string) {
	trigger, rest, ok := strings.Cut(spec, ":")
	if !ok || rest == "" {
		return trigger, nil
	}
	return trigger, strings.Split(rest, ",")
}

func writeMetrics(w io.Writer, c prometheus.Collector) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
