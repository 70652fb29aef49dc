// Package runner applies a migration engine to PHP files on disk with a
// bounded worker pool.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/nsmigrate/internal/config"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/phpsyntax"
	"github.com/Sumatoshi-tech/nsmigrate/pkg/textdiff"
)

const tracerName = "nsmigrate"

// ErrNoEngine is returned by New without an engine.
var ErrNoEngine = errors.New("runner needs an engine")

// Options configures a Runner.
type Options struct {
	Engine  *config.Engine
	Workers int
	Include []string
	Exclude []string
	DryRun  bool

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.MigrationMetrics
}

// FileResult is the outcome of one file.
type FileResult struct {
	Path string
	// NewPath is where the file moves to; empty when it stays.
	NewPath string
	Old     []byte
	New     []byte
	Stats   migrate.FileStats
	Err     error
}

// Changed reports whether the file is rewritten or moved.
func (fr FileResult) Changed() bool {
	return fr.Err == nil && (fr.NewPath != "" || string(fr.Old) != string(fr.New))
}

// Target is the path the result is written to.
func (fr FileResult) Target() string {
	if fr.NewPath != "" {
		return fr.NewPath
	}

	return fr.Path
}

// Outcome classifies the result for metrics and reports.
func (fr FileResult) Outcome() string {
	switch {
	case fr.Err != nil:
		return observability.OutcomeFailed
	case fr.Stats.Gated:
		return observability.OutcomeGated
	case fr.NewPath != "":
		return observability.OutcomeMoved
	case fr.Changed():
		return observability.OutcomeChanged
	default:
		return observability.OutcomeUnchanged
	}
}

// Diff returns the unified diff of the result, or "" when unchanged.
func (fr FileResult) Diff() string {
	if !fr.Changed() {
		return ""
	}

	return textdiff.Unified("a/"+fr.Path, "b/"+fr.Target(), fr.Old, fr.New)
}

// Runner migrates files. It is safe to call Run more than once.
type Runner struct {
	engine  *config.Engine
	workers int
	include []glob.Glob
	exclude []glob.Glob
	dryRun  bool

	parser  *phpsyntax.Parser
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.MigrationMetrics
}

// New validates opts and creates a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Engine == nil {
		return nil, ErrNoEngine
	}

	include, err := compileGlobs(opts.Include)
	if err != nil {
		return nil, err
	}

	exclude, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}

	parser, err := phpsyntax.NewParser()
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Runner{
		engine:  opts.Engine,
		workers: workers,
		include: include,
		exclude: exclude,
		dryRun:  opts.DryRun,
		parser:  parser,
		logger:  logger,
		tracer:  tracer,
		metrics: opts.Metrics,
	}, nil
}

// Run discovers the PHP files under roots, migrates them and, unless the
// runner is in dry-run mode, writes the results. A cancelled context stops
// the run between files and nothing is written.
func (r *Runner) Run(ctx context.Context, roots []string) (*Report, error) {
	ctx, span := r.tracer.Start(ctx, "nsmigrate.run",
		trace.WithAttributes(
			attribute.Int("run.workers", r.workers),
			attribute.Bool("run.dry_run", r.dryRun),
		))
	defer span.End()

	start := time.Now()

	files, err := r.Discover(ctx, roots)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	results, err := r.process(ctx, files)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	report := newReport(results)

	if !r.dryRun {
		if err := r.write(ctx, results); err != nil {
			span.SetStatus(codes.Error, err.Error())

			return report, err
		}

		report.Written = true
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("run.files", report.Files),
		attribute.Int("run.changed", report.Changed),
	)

	r.logger.InfoContext(ctx, "run finished",
		"files", report.Files, "changed", report.Changed, "moved", report.Moved,
		"failed", report.Failed, "dry_run", r.dryRun, "duration", report.Duration)

	return report, nil
}

// process fans files out to the workers. Each worker owns one RuleDriver.
func (r *Runner) process(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for range min(r.workers, max(len(files), 1)) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			driver := r.engine.NewDriver(r.logger)

			for idx := range jobs {
				results[idx] = r.processFile(ctx, driver, files[idx])
			}
		}()
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}

	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	return results, nil
}

func (r *Runner) processFile(ctx context.Context, driver *migrate.RuleDriver, path string) FileResult {
	ctx, span := r.tracer.Start(observability.WithFile(ctx, path), "nsmigrate.file", trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	start := time.Now()
	res := r.migrateFile(ctx, driver, path)

	if res.Err != nil {
		span.SetStatus(codes.Error, res.Err.Error())
		r.logger.WarnContext(ctx, "file failed", "error", res.Err)
	}

	span.SetAttributes(
		attribute.String("file.outcome", res.Outcome()),
		attribute.Int("file.replaced", res.Stats.Replaced),
		attribute.Int("file.relocated", res.Stats.Relocated),
	)

	if r.metrics != nil {
		r.metrics.RecordFile(ctx, res.Outcome(), res.Stats, time.Since(start))
	}

	return res
}

func (r *Runner) migrateFile(ctx context.Context, driver *migrate.RuleDriver, path string) FileResult {
	src, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	if enry.IsBinary(src) {
		r.logger.DebugContext(ctx, "skipping binary file")

		return FileResult{Path: path, Old: src, New: src}
	}

	file, err := r.parser.Parse(ctx, path, src)
	if err != nil {
		return FileResult{Path: path, Old: src, New: src, Err: err}
	}

	edit, stats, err := phpsyntax.Rewrite(driver, file)
	if err != nil {
		return FileResult{Path: path, Old: src, New: src, Stats: stats, Err: err}
	}

	return FileResult{
		Path:    path,
		NewPath: edit.NewPath,
		Old:     src,
		New:     edit.New,
		Stats:   stats,
	}
}
