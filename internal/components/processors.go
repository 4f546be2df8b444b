package components

import (
	"context"
	"strings"

	"github.com/alexisbeaulieu97/etlrun/internal/plugin"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
)

func newPassthrough(params plugin.Params) (workflow.ProcessorFactory, error) {
	if err := plugin.DecodeParams("processor", params, &noParams{}); err != nil {
		return nil, err
	}
	return workflow.Identity, nil
}

// upperProcessor upper-cases string records. Other records pass unchanged.
type upperProcessor struct{}

func newUpper(params plugin.Params) (workflow.ProcessorFactory, error) {
	if err := plugin.DecodeParams("processor", params, &noParams{}); err != nil {
		return nil, err
	}
	return func(context.Context) (workflow.Processor, error) {
		return upperProcessor{}, nil
	}, nil
}

func (upperProcessor) Apply(_ context.Context, in workflow.Stream) workflow.Stream {
	return workflow.Map(in, func(r workflow.Record) (workflow.Record, error) {
		if s, ok := r.(string); ok {
			return strings.ToUpper(s), nil
		}
		return r, nil
	})
}

func (upperProcessor) Close() error { return nil }

type filterParams struct {
	Contains string `mapstructure:"contains" validate:"required"`
}

// filterProcessor keeps string records containing a substring.
type filterProcessor struct {
	contains string
}

func newFilter(params plugin.Params) (workflow.ProcessorFactory, error) {
	var p filterParams
	if err := plugin.DecodeParams("processor", params, &p); err != nil {
		return nil, err
	}
	return func(context.Context) (workflow.Processor, error) {
		return filterProcessor{contains: p.Contains}, nil
	}, nil
}

func (f filterProcessor) Apply(_ context.Context, in workflow.Stream) workflow.Stream {
	return workflow.Filter(in, func(r workflow.Record) bool {
		s, ok := r.(string)
		return ok && strings.Contains(s, f.contains)
	})
}

func (filterProcessor) Close() error { return nil }
