package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexisbeaulieu97/etlrun/internal/logger"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// Executor runs the workflow produced by a single factory.
type Executor struct {
	factory     workflow.Factory
	factoryName string
	logger      *logger.Logger
}

// NewExecutor creates an Executor for factory.
func NewExecutor(factory workflow.Factory, log *logger.Logger) (*Executor, error) {
	if factory == nil {
		return nil, etlerrors.NewValidationError("factory", "workflow factory must not be nil", nil)
	}
	return &Executor{
		factory:     factory,
		factoryName: workflow.FactoryName(factory),
		logger:      log,
	}, nil
}

// FactoryName returns the Go name of the wrapped factory.
func (e *Executor) FactoryName() string {
	return e.factoryName
}

// Execute invokes the factory once, validates the definition and runs its
// source → processor → sink pipeline. Every acquired resource is released
// before Execute returns. Failures are logged and returned as
// *errors.WorkflowValidationError or *errors.WorkflowExecutionError.
func (e *Executor) Execute(ctx context.Context) error {
	_, err := e.execute(ctx)
	return err
}

func (e *Executor) execute(ctx context.Context) (def workflow.Definition, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	factoryLog := e.logger.WithField("factory", e.factoryName)

	defer func() {
		if r := recover(); r != nil {
			def = nil
			err = etlerrors.NewWorkflowExecutionError("", "", fmt.Errorf("factory %s: panic: %v", e.factoryName, r))
			factoryLog.Error(err, "error creating workflow.")
		}
	}()

	def, err = e.factory()
	if err != nil {
		err = etlerrors.NewWorkflowExecutionError("", "", fmt.Errorf("factory %s: %w", e.factoryName, err))
		factoryLog.Error(err, "error creating workflow.")
		return nil, err
	}
	if err := workflow.Validate(def, e.factoryName); err != nil {
		factoryLog.Error(err, "invalid workflow definition.")
		return nil, err
	}

	id, name := def.ID(), def.Name()
	log := e.logger.WithFields(map[string]any{
		"workflow_id":   id,
		"workflow_name": name,
	})

	log.Info("executing workflow...")
	if err := runPipeline(ctx, def, log); err != nil {
		err = etlerrors.NewWorkflowExecutionError(id, name, err)
		log.Error(err, "error executing workflow.")
		return def, err
	}
	log.Info("workflow executed successfully.")
	return def, nil
}

// runPipeline acquires source, processor and sink in order, drains the
// pipeline and releases them in reverse order on every exit path.
func runPipeline(ctx context.Context, def workflow.Definition, log *logger.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(err, fmt.Errorf("panic: %v", r))
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("workflow not started: %w", ctxErr)
	}

	source, err := def.SourceFactory()(ctx)
	if err != nil {
		return fmt.Errorf("acquire source: %w", err)
	}
	if source == nil {
		return errors.New("acquire source: factory returned nil")
	}
	log.Trace("source acquired")
	defer release("source", source, &err)

	processor, err := def.ProcessorFactory()(ctx)
	if err != nil {
		return fmt.Errorf("acquire processor: %w", err)
	}
	if processor == nil {
		return errors.New("acquire processor: factory returned nil")
	}
	log.Trace("processor acquired")
	defer release("processor", processor, &err)

	sink, err := def.SinkFactory()(ctx)
	if err != nil {
		return fmt.Errorf("acquire sink: %w", err)
	}
	if sink == nil {
		return errors.New("acquire sink: factory returned nil")
	}
	log.Trace("sink acquired")
	defer release("sink", sink, &err)

	err = sink.Drain(ctx, processor.Apply(ctx, source.Draw(ctx)))
	log.Trace("pipeline drained")
	return err
}

func release(kind string, resource io.Closer, errp *error) {
	if cerr := resource.Close(); cerr != nil {
		*errp = errors.Join(*errp, fmt.Errorf("release %s: %w", kind, cerr))
	}
}
