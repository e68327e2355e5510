// Package report combines classification, scanning and trace diffing into a caching report.
package report

import (
	"context"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/engine/extractor"
	"go.trai.ch/zerr"
)

// Scanner finds forbidden values in a run.
type Scanner interface {
	AnalyzeRun(ctx context.Context, run *domain.RunResult) ([]domain.Violation, error)
}

// Classifier separates infrastructure steps and files from user ones.
type Classifier interface {
	IsInfrastructureStep(name string) bool
	IsInfrastructureFile(name string) bool
}

// Analysis is a report together with the raw data it was built from.
type Analysis struct {
	Report     *domain.CachingReport
	Violations []domain.Violation
	// Traces are the second run's records per step, infrastructure steps included.
	Traces extractor.Traces
}

// Builder creates caching reports from two runs over equal input.
type Builder struct {
	scanner    Scanner
	classifier Classifier
}

// NewBuilder creates a new Builder.
func NewBuilder(scanner Scanner, classifier Classifier) *Builder {
	return &Builder{scanner: scanner, classifier: classifier}
}

// Create builds the caching report for pipeline from its first and second run.
func (b *Builder) Create(ctx context.Context, first, second *domain.RunResult, pipeline string) (*domain.CachingReport, error) {
	a, err := b.Analyze(ctx, first, second, pipeline)
	if err != nil {
		return nil, err
	}
	return a.Report, nil
}

// Analyze is Create that also returns the raw violations and second-run traces.
//
// Violations come from the first run only: that run populates the cache, and
// a value reused by the second run was already scanned when it was produced.
func (b *Builder) Analyze(ctx context.Context, first, second *domain.RunResult, pipeline string) (*Analysis, error) {
	violations, err := b.scanner.AnalyzeRun(ctx, first)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to scan first run"), "pipeline", pipeline)
	}
	if second == nil || !second.Tracking {
		return nil, zerr.With(zerr.Wrap(domain.ErrTrackingDisabled, "second run has no step records"), "pipeline", pipeline)
	}

	secondSteps := extractor.Extract(second)
	if err := extractor.Compare(extractor.Extract(first), secondSteps); err != nil {
		return nil, zerr.With(err, "pipeline", pipeline)
	}

	violating := make(map[string]bool, len(violations))
	for _, v := range violations {
		violating[v.Step] = true
	}

	observable := make([]domain.StepAnalysis, 0, len(secondSteps))
	for _, name := range secondSteps.StepNames() {
		if b.classifier.IsInfrastructureStep(name) {
			continue
		}
		observable = append(observable, domain.NewStepAnalysis(name, secondSteps[name], violating[name]))
	}

	report := &domain.CachingReport{
		Pipeline:        pipeline,
		ObservableSteps: observable,
		Violations:      append(make([]domain.Violation, 0, len(violations)), violations...),
		ProducedOutput:  b.producedOutput(second),
	}

	return &Analysis{
		Report:     report,
		Violations: violations,
		Traces:     secondSteps,
	}, nil
}

func (b *Builder) producedOutput(run *domain.RunResult) bool {
	for _, a := range run.Artifacts() {
		if !b.classifier.IsInfrastructureFile(a.Name) {
			return true
		}
	}
	return false
}
