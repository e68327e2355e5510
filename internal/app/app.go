// Package app implements the application layer for reuse.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/reuse/internal/engine/classifier"
	"go.trai.ch/reuse/internal/engine/orchestrator"
	"go.trai.ch/reuse/internal/engine/report"
	"go.trai.ch/reuse/internal/engine/scanner"
	"go.trai.ch/zerr"
)

// DefaultTracePipeline names reports of trace pairs analyzed without a name.
const DefaultTracePipeline = "trace"

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	sources       ports.InputSourceFactory
	pipelines     ports.PipelineFactory
	fingerprinter ports.Fingerprinter
	telemetry     ports.Telemetry
	decoder       ports.TraceDecoder
	store         ports.ReportStore
	renderer      ports.ReportRenderer
	logger        ports.Logger
	now           func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sources ports.InputSourceFactory,
	pipelines ports.PipelineFactory,
	fingerprinter ports.Fingerprinter,
	telemetry ports.Telemetry,
	decoder ports.TraceDecoder,
	store ports.ReportStore,
	renderer ports.ReportRenderer,
	logger ports.Logger,
) *App {
	return &App{
		configLoader:  loader,
		sources:       sources,
		pipelines:     pipelines,
		fingerprinter: fingerprinter,
		telemetry:     telemetry,
		decoder:       decoder,
		store:         store,
		renderer:      renderer,
		logger:        logger,
		now:           time.Now,
	}
}

// WithRenderer returns a copy of the app that renders reports with r.
func (a *App) WithRenderer(r ports.ReportRenderer) *App {
	c := *a
	c.renderer = r
	return &c
}

// WithClock returns a copy of the app that timestamps reports with now.
func (a *App) WithClock(now func() time.Time) *App {
	c := *a
	c.now = now
	return &c
}

// CheckOptions configures Check.
type CheckOptions struct {
	// ConfigPath is a reuse.yaml file or a directory to search from.
	ConfigPath string
	Out        io.Writer
}

// Check runs the configured pipeline twice over the same input and verifies
// that the second run reuses the first run's results.
func (a *App) Check(ctx context.Context, opts CheckOptions) (*domain.ReportRecord, error) {
	project, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	pipeline, err := a.pipelines.Build(project)
	if err != nil {
		return nil, err
	}
	source := a.sources.NewSource(project.Root, project.Inputs)

	orch := orchestrator.New(pipeline, source, a.fingerprinter, a.telemetry, a.logger,
		orchestrator.Options{TrackSteps: project.Tracking})
	runs, err := orch.Run(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "caching check could not run")
	}

	builder := newBuilder(project.Analysis, a.logger)
	rep, err := builder.Create(ctx, runs.First, runs.Second, runs.Pipeline)
	if err != nil {
		return nil, err
	}

	record := &domain.ReportRecord{
		Pipeline:  runs.Pipeline,
		FirstRun:  runs.First.ID,
		SecondRun: runs.Second.ID,
		Report:    rep,
		Timestamp: a.now(),
	}
	return record, a.finish(opts.Out, record)
}

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	FirstTrace  string
	SecondTrace string
	// Pipeline names the report. Defaults to DefaultTracePipeline.
	Pipeline string
	// ConfigPath optionally supplies analysis settings from a reuse.yaml.
	ConfigPath string
	Out        io.Writer
}

// Analyze builds a caching report from two recorded runs.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) (*domain.ReportRecord, error) {
	cfg := domain.DefaultAnalysisConfig()
	if opts.ConfigPath != "" {
		project, err := a.configLoader.Load(opts.ConfigPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load configuration")
		}
		cfg = project.Analysis
	}

	first, err := a.decoder.Decode(opts.FirstTrace)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode first trace")
	}
	second, err := a.decoder.Decode(opts.SecondTrace)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode second trace")
	}

	name := opts.Pipeline
	if name == "" {
		name = DefaultTracePipeline
	}

	rep, err := newBuilder(cfg, a.logger).Create(ctx, first, second, name)
	if err != nil {
		return nil, err
	}

	record := &domain.ReportRecord{
		Pipeline:  name,
		FirstRun:  first.ID,
		SecondRun: second.ID,
		Report:    rep,
		Timestamp: a.now(),
	}
	return record, a.finish(opts.Out, record)
}

// Show renders the stored report of pipeline.
func (a *App) Show(_ context.Context, pipeline string, out io.Writer) (*domain.ReportRecord, error) {
	record, err := a.store.Get(pipeline)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read report")
	}
	if record == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrReportNotFound, "no stored report"), "pipeline", pipeline)
	}
	if err := a.renderer.Render(out, record); err != nil {
		return nil, zerr.Wrap(err, "failed to render report")
	}
	return record, nil
}

// finish persists and renders record, and reports a failed check as an error.
func (a *App) finish(out io.Writer, record *domain.ReportRecord) error {
	if err := a.store.Put(*record); err != nil {
		return zerr.Wrap(err, "failed to store report")
	}
	if err := a.renderer.Render(out, record); err != nil {
		return zerr.Wrap(err, "failed to render report")
	}

	if failures := record.Report.Failures(); len(failures) > 0 {
		msg := fmt.Sprintf("%d caching problem(s) found", len(failures))
		return zerr.With(zerr.Wrap(domain.ErrCachingCheckFailed, msg), "pipeline", record.Pipeline)
	}
	a.logger.Info(fmt.Sprintf("caching check of %q passed", record.Pipeline))
	return nil
}

func newBuilder(cfg domain.AnalysisConfig, logger ports.Logger) *report.Builder {
	return report.NewBuilder(scanner.New(cfg, logger), classifier.New(cfg))
}
