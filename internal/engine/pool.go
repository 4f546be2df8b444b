package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work submitted to a Pool.
type Task func(ctx context.Context) error

// Pool runs submitted tasks concurrently, at most maxWorkers at a time.
//
// By default every task runs to completion regardless of sibling failures
// and Wait reports all failures. With failFast the first failure cancels the
// context handed to the remaining tasks.
type Pool struct {
	ctx      context.Context
	cancel   context.CancelFunc
	group    errgroup.Group
	failFast bool

	mu   sync.Mutex
	next int
	errs map[int]error
}

// NewPool creates a Pool. maxWorkers <= 0 means no limit.
func NewPool(ctx context.Context, maxWorkers int, failFast bool) *Pool {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		ctx:      ctx,
		cancel:   cancel,
		failFast: failFast,
		errs:     make(map[int]error),
	}
	if maxWorkers > 0 {
		p.group.SetLimit(maxWorkers)
	}
	return p
}

// Submit schedules task. It blocks while the pool is at its worker limit.
func (p *Pool) Submit(task Task) {
	p.mu.Lock()
	idx := p.next
	p.next++
	p.mu.Unlock()

	p.group.Go(func() error {
		if err := p.run(task); err != nil {
			p.mu.Lock()
			p.errs[idx] = err
			p.mu.Unlock()

			if p.failFast {
				p.cancel()
			}
		}
		return nil
	})
}

// Wait blocks until every submitted task has finished and returns their
// errors joined in submission order.
func (p *Pool) Wait() error {
	_ = p.group.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for i := 0; i < p.next; i++ {
		if err, ok := p.errs[i]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close waits for outstanding tasks and releases the pool's context.
func (p *Pool) Close() error {
	err := p.Wait()
	p.cancel()
	return err
}

func (p *Pool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(p.ctx)
}
