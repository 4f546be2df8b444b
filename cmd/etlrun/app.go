package main

import (
	"context"
	"io"

	"github.com/alexisbeaulieu97/etlrun/internal/components"
	"github.com/alexisbeaulieu97/etlrun/internal/config"
	"github.com/alexisbeaulieu97/etlrun/internal/logger"
	"github.com/alexisbeaulieu97/etlrun/internal/plugin"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

// project is a loaded configuration ready to run.
type project struct {
	Settings  config.Settings
	Factories []workflow.Factory
}

// loadProject renders and parses the configuration, resolves runtime
// settings and builds one factory per configured workflow. Variables from
// the process environment take precedence over env files.
func loadProject(ctx context.Context, opts loadOptions, stdout io.Writer, log *logger.Logger) (*project, error) {
	format, err := config.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	env := config.EnvFromOS()
	if len(opts.EnvFiles) > 0 {
		fileEnv, err := config.LoadDotEnv(opts.EnvFiles...)
		if err != nil {
			return nil, err
		}
		env = fileEnv.Merge(env)
	}

	mapping, err := config.NewLoader(env, log).Load(ctx, opts.ConfigPath, format)
	if err != nil {
		return nil, err
	}

	settings, err := config.SettingsFrom(mapping)
	if err != nil {
		return nil, err
	}

	reg := plugin.NewRegistry()
	if err := components.Register(reg, components.Options{Stdout: stdout}); err != nil {
		return nil, err
	}

	factories, err := plugin.Build(mapping, reg)
	if err != nil {
		return nil, err
	}

	return &project{Settings: settings, Factories: factories}, nil
}
