package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check machine definitions",
		Long:  `Loads every definition and builds its machine, reporting structural errors and invalid configuration.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				m, err := opts.load(path, nil)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n", path)
					errs = append(errs, err)
					continue
				}
				info := m.GetInfo()
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (machine %s, %d states, initial %v)\n",
					path, m.Name(), len(info.States), info.InitialState.UnderlyingState)
			}
			return errors.Join(errs...)
		},
	}
}
