/*
Package batch dispatches one formatting task per candidate path across a
fixed worker pool and aggregates the outcomes.

Tasks are independent: each touches a distinct file path, shares the resolved
Settings read-only, and a failure (including a panic inside the formatting
engine) is isolated to its own Outcome. A started batch always runs to
completion; there is no cancellation path.
*/
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/sonemaro/tplfmt/pkg/engine"
	"github.com/sonemaro/tplfmt/pkg/expand"
	"github.com/sonemaro/tplfmt/pkg/logger"
	"github.com/sonemaro/tplfmt/pkg/settings"
)

// Executor runs formatting batches.
type Executor struct {
	config Config
	fs     afero.Fs
	engine engine.Engine
	log    logger.Logger
}

// NewExecutor creates an Executor. The configuration is validated once here
// so Run cannot fail on it.
func NewExecutor(config Config, fs afero.Fs, eng engine.Engine, log logger.Logger) (*Executor, error) {
	if config.Workers < 0 {
		return nil, fmt.Errorf("workers count must be non-negative")
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be non-negative")
	}

	return &Executor{
		config: config,
		fs:     fs,
		engine: eng,
		log:    log,
	}, nil
}

// Run formats every entry and streams one Outcome per entry to sink in
// completion order. The sink is invoked from a single goroutine, so it needs
// no locking of its own. Run blocks until all tasks have finished and the
// returned Summary times exactly this dispatch-and-wait phase.
func (e *Executor) Run(ctx context.Context, s settings.Settings, entries []expand.Entry, sink func(Outcome)) Summary {
	e.log.WithFields(logger.Fields{
		"entries":   len(entries),
		"workers":   e.config.Workers,
		"rateLimit": e.config.RateLimit,
	}).Info("Starting batch")

	start := time.Now()

	p := newPool(e.config)
	p.start(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for outcome := range p.outcomes {
			sink(outcome)
		}
	}()

	for _, entry := range entries {
		entry := entry
		if entry.Err != nil {
			// Enumeration errors are failures of the entry itself; the
			// formatting engine is never invoked for them.
			p.submit(task{path: entry.Path, run: func(context.Context) error {
				return entry.Err
			}})
			continue
		}

		p.submit(task{path: entry.Path, run: func(taskCtx context.Context) error {
			return e.formatAndWrite(taskCtx, entry.Path, s)
		}})
	}

	p.finish()
	<-done

	summary := Summary{Total: len(entries), Elapsed: time.Since(start)}

	e.log.WithFields(logger.Fields{
		"total":   summary.Total,
		"elapsed": summary.Elapsed,
	}).Info("Batch complete")

	return summary
}

// formatAndWrite invokes the engine and overwrites the file in place on
// success. The write is not atomic; a crash mid-write can leave a partially
// written file, which the design accepts.
func (e *Executor) formatAndWrite(ctx context.Context, path string, s settings.Settings) error {
	formatted, err := e.engine.Format(ctx, path, s)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(e.fs, path, []byte(formatted), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
