package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atlekbai/hsm/graph"
)

var directions = map[string]graph.MermaidGraphDirection{
	"TB": graph.TopToBottom,
	"BT": graph.BottomToTop,
	"LR": graph.LeftToRight,
	"RL": graph.RightToLeft,
}

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var (
		format    string
		direction string
	)

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render a machine as a DOT or Mermaid graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(args[0], nil)
			if err != nil {
				return err
			}

			var out string
			switch format {
			case "dot":
				out = graph.UmlDotGraph(m.GetInfo())
			case "mermaid":
				var dir *graph.MermaidGraphDirection
				if direction != "" {
					d, ok := directions[strings.ToUpper(direction)]
					if !ok {
						return fmt.Errorf("unknown direction %q", direction)
					}
					dir = &d
				}
				out = graph.MermaidGraph(m.GetInfo(), dir)
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "Mermaid layout direction: TB, BT, LR or RL")
	return cmd
}
