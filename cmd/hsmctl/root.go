package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/atlekbai/hsm"
	"github.com/atlekbai/hsm/definition"
	"github.com/atlekbai/hsm/internal/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: slog.New(slog.DiscardHandler)}

	cmd := &cobra.Command{
		Use:          "hsmctl",
		Short:        "Work with hierarchical state machines described in YAML",
		Long:         `hsmctl loads a machine definition, checks it, renders it as a graph or fires triggers at it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(opts.logFormat, opts.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	// Persistent flags (available to all commands)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(
		newValidateCmd(opts),
		newGraphCmd(opts),
		newRunCmd(opts),
	)
	return cmd
}

// load reads the definition at path and builds it against the stand-in
// registry. Guards named in deny evaluate to false.
func (o *rootOptions) load(path string, deny []string) (*definition.Machine, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := def.Build(standInRegistry(def, o.logger, deny), hsm.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
