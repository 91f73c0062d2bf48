package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/time/rate"
)

// task is one unit of work: format a single candidate path.
type task struct {
	path string
	run  func(context.Context) error
}

// pool is a fixed-size fork-join worker pool. Tasks are fanned out over the
// workers and every task yields exactly one Outcome on the outcomes channel,
// in completion order.
type pool struct {
	workers  int
	limiter  *rate.Limiter
	tasks    chan task
	outcomes chan Outcome
	wg       sync.WaitGroup
}

func newPool(config Config) *pool {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		workers:  workers,
		limiter:  limiter,
		tasks:    make(chan task, workers*2),
		outcomes: make(chan Outcome, workers*2),
	}
}

func (p *pool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *pool) submit(t task) {
	p.tasks <- t
}

// finish signals that no more tasks will be submitted and closes the
// outcomes channel once every worker has drained.
func (p *pool) finish() {
	close(p.tasks)
	go func() {
		p.wg.Wait()
		close(p.outcomes)
	}()
}

func (p *pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for t := range p.tasks {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				p.outcomes <- Outcome{Path: t.path, Err: fmt.Errorf("rate limiter: %w", err)}
				continue
			}
		}

		p.outcomes <- Outcome{Path: t.path, Err: runIsolated(ctx, t)}
	}
}

// runIsolated executes one task behind a panic boundary. An abnormal
// termination inside the formatting engine becomes this task's failure and
// never takes down the batch or other in-flight tasks.
func runIsolated(ctx context.Context, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter panicked: %v", r)
		}
	}()

	return t.run(ctx)
}
