package plugin

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/etlrun/internal/validation"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// WorkflowsKey is the top-level configuration entry listing workflows.
const WorkflowsKey = "workflows"

// StageConfig selects a component type; the remaining keys are its params.
type StageConfig struct {
	Type   string         `mapstructure:"type" validate:"required"`
	Params map[string]any `mapstructure:",remain"`
}

// WorkflowConfig is one entry of the workflows list.
type WorkflowConfig struct {
	ID        string       `mapstructure:"id" validate:"required,identifier"`
	Name      string       `mapstructure:"name"`
	Source    StageConfig  `mapstructure:"source"`
	Processor *StageConfig `mapstructure:"processor"`
	Sink      StageConfig  `mapstructure:"sink"`
}

// Build turns the workflows entry of a configuration mapping into one
// factory per workflow, in declaration order. Component params are checked
// here so configuration mistakes surface before anything runs; each factory
// call returns a new definition whose stages acquire fresh resources.
func Build(mapping map[string]any, reg *Registry) ([]workflow.Factory, error) {
	raw, ok := mapping[WorkflowsKey]
	if !ok || raw == nil {
		return nil, nil
	}

	var configs []WorkflowConfig
	if err := decode(raw, &configs); err != nil {
		return nil, etlerrors.NewValidationError(WorkflowsKey, err.Error(), err)
	}

	seen := make(map[string]int, len(configs))
	factories := make([]workflow.Factory, 0, len(configs))
	for i, cfg := range configs {
		field := fmt.Sprintf("%s[%d]", WorkflowsKey, i)
		if err := validation.Struct(field, cfg); err != nil {
			return nil, err
		}
		if prev, dup := seen[cfg.ID]; dup {
			return nil, etlerrors.NewValidationError(field+".id", fmt.Sprintf("duplicate workflow id %q (also used by %s[%d])", cfg.ID, WorkflowsKey, prev), nil)
		}
		seen[cfg.ID] = i

		factory, err := buildWorkflow(field, cfg, reg)
		if err != nil {
			return nil, err
		}
		factories = append(factories, factory)
	}
	return factories, nil
}

func buildWorkflow(field string, cfg WorkflowConfig, reg *Registry) (workflow.Factory, error) {
	sourceBuilder, err := reg.Source(cfg.Source.Type)
	if err != nil {
		return nil, etlerrors.NewValidationError(field+".source.type", err.Error(), err)
	}
	source, err := sourceBuilder(cfg.Source.Params)
	if err != nil {
		return nil, stageError(field+".source", err)
	}

	var processor workflow.ProcessorFactory
	if cfg.Processor != nil {
		processorBuilder, err := reg.Processor(cfg.Processor.Type)
		if err != nil {
			return nil, etlerrors.NewValidationError(field+".processor.type", err.Error(), err)
		}
		processor, err = processorBuilder(cfg.Processor.Params)
		if err != nil {
			return nil, stageError(field+".processor", err)
		}
	}

	sinkBuilder, err := reg.Sink(cfg.Sink.Type)
	if err != nil {
		return nil, etlerrors.NewValidationError(field+".sink.type", err.Error(), err)
	}
	sink, err := sinkBuilder(cfg.Sink.Params)
	if err != nil {
		return nil, stageError(field+".sink", err)
	}

	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}

	return func() (workflow.Definition, error) {
		return workflow.New(cfg.ID, name, source, processor, sink), nil
	}, nil
}

func stageError(field string, err error) error {
	var valErr *etlerrors.ValidationError
	if errors.As(err, &valErr) {
		return err
	}
	return etlerrors.NewValidationError(field, err.Error(), err)
}
