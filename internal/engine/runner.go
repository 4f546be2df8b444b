package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/etlrun/internal/logger"
	"github.com/alexisbeaulieu97/etlrun/internal/workflow"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// Result describes the outcome of one workflow within a run.
type Result struct {
	Index        int
	Factory      string
	WorkflowID   string
	WorkflowName string
	Duration     time.Duration
	Err          error
}

// Runner executes workflows concurrently.
type Runner struct {
	Logger *logger.Logger
	// MaxWorkers caps concurrently running workflows; 0 means no limit.
	MaxWorkers int
	// FailFast cancels the remaining workflows after the first failure.
	// When false every workflow runs to completion.
	FailFast bool
	// OnResult, when set, is called once per workflow as it finishes.
	// Calls are serialized.
	OnResult func(Result)
}

// RunWorkflows runs factories with a default Runner.
func RunWorkflows(ctx context.Context, factories []workflow.Factory, log *logger.Logger) error {
	r := &Runner{Logger: log}
	return r.Run(ctx, factories)
}

// Run builds one Executor per factory and runs them all, blocking until every
// one has finished. The returned error joins every workflow failure in
// factory order. An empty slice returns immediately without side effects.
func (r *Runner) Run(ctx context.Context, factories []workflow.Factory) error {
	for i, factory := range factories {
		if factory == nil {
			return etlerrors.NewValidationError(fmt.Sprintf("factories[%d]", i), "workflow factory must not be nil", nil)
		}
	}
	if len(factories) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := r.Logger.WithField("run_id", uuid.NewString())

	executors := make([]*Executor, len(factories))
	for i, factory := range factories {
		executor, err := NewExecutor(factory, log)
		if err != nil {
			return err
		}
		executors[i] = executor
	}

	log.WithFields(map[string]any{
		"workflows":   len(executors),
		"max_workers": r.MaxWorkers,
		"fail_fast":   r.FailFast,
	}).Debug("starting workflows")

	var resultMu sync.Mutex
	pool := NewPool(ctx, r.MaxWorkers, r.FailFast)
	defer pool.Close() //nolint:errcheck

	for i, executor := range executors {
		pool.Submit(func(ctx context.Context) error {
			start := time.Now()
			def, err := executor.execute(ctx)

			if r.OnResult != nil {
				res := Result{
					Index:    i,
					Factory:  executor.FactoryName(),
					Duration: time.Since(start),
					Err:      err,
				}
				if def != nil {
					res.WorkflowID = def.ID()
					res.WorkflowName = def.Name()
				}
				resultMu.Lock()
				r.OnResult(res)
				resultMu.Unlock()
			}
			return err
		})
	}

	err := pool.Wait()
	if err != nil {
		log.Warn("one or more workflows failed")
	} else {
		log.Debug("all workflows completed")
	}
	return err
}
