package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/etlrun/internal/engine"
)

type runOptions struct {
	loadOptions
	MaxWorkers int
	FailFast   bool
	Stdout     io.Writer
	Stderr     io.Writer

	maxWorkersSet bool
	failFastSet   bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a configuration and run its workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLoadOptions(opts.loadOptions); err != nil {
				return err
			}
			opts.maxWorkersSet = cmd.Flags().Changed("max-workers")
			opts.failFastSet = cmd.Flags().Changed("fail-fast")
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()

			return runWorkflows(cmd.Context(), root, opts)
		},
	}

	addLoadFlags(cmd, &opts.loadOptions)
	cmd.Flags().IntVar(&opts.MaxWorkers, "max-workers", 0, "Maximum concurrently running workflows (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Cancel remaining workflows after the first failure")

	return cmd
}

func runWorkflows(ctx context.Context, root *rootFlags, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger(opts.Stderr, root.level(""))
	if err != nil {
		return err
	}

	proj, err := loadProject(ctx, opts.loadOptions, opts.Stdout, log)
	if err != nil {
		return err
	}

	if level := root.level(proj.Settings.LogLevel); level != root.level("") {
		if log, err = newLogger(opts.Stderr, level); err != nil {
			return err
		}
	}

	runner := &engine.Runner{
		Logger:     log,
		MaxWorkers: proj.Settings.MaxWorkers,
		FailFast:   proj.Settings.FailFast,
	}
	if opts.maxWorkersSet {
		runner.MaxWorkers = opts.MaxWorkers
	}
	if opts.failFastSet {
		runner.FailFast = opts.FailFast
	}
	if runner.MaxWorkers < 0 {
		return fmt.Errorf("--max-workers must not be negative")
	}

	var results []engine.Result
	runner.OnResult = func(res engine.Result) {
		results = append(results, res)
	}

	start := time.Now()
	runErr := runner.Run(ctx, proj.Factories)

	fmt.Fprint(opts.Stderr, renderSummary(results, time.Since(start)))
	return runErr
}
