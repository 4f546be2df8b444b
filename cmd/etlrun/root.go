package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "etlrun",
		Short:         "etlrun loads templated workflow configs and runs them concurrently",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
