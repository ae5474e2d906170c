// Package pipeline orchestrates a generation run: validate the config,
// render every design page across a worker pool, and assemble the ordered
// pages into a single PDF.
//
// The package is usable by CLI, TUI and API front ends alike. Progress is
// reported through a plain callback so the core never depends on any
// particular UI event loop.
//
// # Usage
//
// Create a Runner and execute a run:
//
//	runner := pipeline.NewRunner(logger)
//	cfg := mandala.DefaultConfig()
//	cfg.Designs = 5
//	result, err := runner.Execute(ctx, cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/pdf"
)

// Runner executes generation runs. It is stateless apart from its logger;
// multiple goroutines can share one Runner with different configs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards all output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// Stats records per-stage timings for a run.
type Stats struct {
	RenderTime   time.Duration
	AssembleTime time.Duration
}

// Result describes a completed run.
type Result struct {
	RunID      string // unique identifier for this run
	OutputPath string // destination the PDF was written to
	Designs    int    // unique designs rendered
	Pages      int    // physical PDF pages (repetitions included)
	Stats      Stats
}

// Execute runs the complete validate → render → assemble pipeline.
// notify (optional) receives a Progress snapshot after every rendered page.
//
// Errors keep their taxonomy: a *mandala.ConfigError means nothing was
// dispatched, a *mandala.RenderError names the failing page, and an
// assembly failure surfaces the underlying I/O error. In every failure
// case no file is left at the destination.
func (r *Runner) Execute(ctx context.Context, cfg mandala.GenerationConfig, notify func(Progress)) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	r.Logger.Info("starting run",
		"run_id", runID,
		"designs", cfg.Designs,
		"repetitions", cfg.Repetitions,
		"pages", cfg.TotalPages(),
		"format", cfg.PageFormat,
		"dpi", cfg.DPI,
		"workers", cfg.Workers)

	renderStart := time.Now()
	pages, err := Dispatch(ctx, cfg, notify)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	renderTime := time.Since(renderStart)

	r.Logger.Info("rendered designs",
		"designs", len(pages),
		"duration", renderTime.Round(time.Millisecond))

	assembleStart := time.Now()
	if err := pdf.Assemble(ctx, pages, cfg, cfg.Output); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	assembleTime := time.Since(assembleStart)

	r.Logger.Info("wrote document",
		"path", cfg.Output,
		"pages", cfg.TotalPages(),
		"duration", assembleTime.Round(time.Millisecond))

	return &Result{
		RunID:      runID,
		OutputPath: cfg.Output,
		Designs:    cfg.Designs,
		Pages:      cfg.TotalPages(),
		Stats: Stats{
			RenderTime:   renderTime,
			AssembleTime: assembleTime,
		},
	}, nil
}
