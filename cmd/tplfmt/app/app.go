/*
Package app provides the application container for tplfmt. It wires the
components of one run together: settings resolution, candidate expansion,
the batch executor and the result reporter.

Usage:

	application := app.New(cfg, log)
	if err := application.Run(pattern, opts); err != nil {
	    // fatal error: nothing was formatted, no summary was printed
	}
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/afero"

	"github.com/sonemaro/tplfmt/internal/config"
	"github.com/sonemaro/tplfmt/pkg/batch"
	"github.com/sonemaro/tplfmt/pkg/engine"
	"github.com/sonemaro/tplfmt/pkg/expand"
	"github.com/sonemaro/tplfmt/pkg/logger"
	"github.com/sonemaro/tplfmt/pkg/report"
	"github.com/sonemaro/tplfmt/pkg/settings"
)

// Options holds the per-invocation formatting options.
type Options struct {
	// ConfigFile is an explicit settings file path; it bypasses discovery.
	ConfigFile string

	// MaxWidth and TabSpaces carry flag overrides; nil means not given.
	MaxWidth  *int
	TabSpaces *int
}

// App is the application container.
type App struct {
	config *config.Config
	log    logger.Logger

	fs      afero.Fs
	workDir string
	out     io.Writer
	errOut  io.Writer
}

// New creates an application instance operating on the OS filesystem with
// stdout/stderr output.
func New(cfg *config.Config, log logger.Logger) *App {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	return &App{
		config:  cfg,
		log:     log,
		fs:      afero.NewOsFs(),
		workDir: workDir,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// Run executes one formatting batch. A returned error is fatal: settings
// resolution or pattern expansion failed and no file was touched. Per-file
// failures are reported and counted but never returned as an error.
func (a *App) Run(inputPattern string, opts *Options) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	a.log.WithFields(logger.Fields{
		"pattern": inputPattern,
		"config":  opts.ConfigFile,
	}).Info("Starting format run")

	resolver := settings.NewResolver(a.fs, a.workDir, a.out, a.log)
	resolved, err := resolver.Resolve(opts.ConfigFile, settings.Overrides{
		MaxWidth:  opts.MaxWidth,
		TabSpaces: opts.TabSpaces,
	})
	if err != nil {
		return fmt.Errorf("resolve settings: %w", err)
	}

	entries, err := expand.New(a.fs, a.log).Expand(inputPattern)
	if err != nil {
		return err
	}

	reporter, err := report.New(report.Config{
		Format:  report.Format(a.config.Output),
		NoColor: a.config.NoColor,
	}, a.out, a.errOut, a.log)
	if err != nil {
		return err
	}

	executor, err := batch.NewExecutor(batch.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	}, a.fs, engine.NewNormalizer(a.fs, a.log), a.log)
	if err != nil {
		return err
	}

	summary := executor.Run(context.Background(), resolved, entries, reporter.Report)

	if err := reporter.Finish(summary); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"total":   summary.Total,
		"failed":  reporter.Failed(),
		"elapsed": summary.Elapsed,
	}).Info("Format run completed")

	return nil
}
