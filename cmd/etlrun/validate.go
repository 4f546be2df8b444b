package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := loadOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration without running its workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLoadOptions(opts); err != nil {
				return err
			}

			log, err := newLogger(cmd.ErrOrStderr(), root.level(""))
			if err != nil {
				return err
			}

			proj, err := loadProject(cmd.Context(), opts, io.Discard, log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid (%d workflows)\n",
				successStyle.Render("✓"), opts.ConfigPath, len(proj.Factories))
			return nil
		},
	}

	addLoadFlags(cmd, &opts)

	return cmd
}
