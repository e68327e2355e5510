package pipeline

import (
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PipelineFactory = (*Factory)(nil)

// Factory builds engines of command steps from loaded projects.
type Factory struct {
	executor      ports.Executor
	fingerprinter ports.Fingerprinter
	telemetry     ports.Telemetry
	logger        ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(
	executor ports.Executor,
	fingerprinter ports.Fingerprinter,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Factory {
	return &Factory{
		executor:      executor,
		fingerprinter: fingerprinter,
		telemetry:     telemetry,
		logger:        logger,
	}
}

// Build creates a fresh Engine, with an empty cache, for project.
func (f *Factory) Build(project *domain.Project) (ports.Pipeline, error) {
	if project == nil || project.Steps == nil {
		return nil, zerr.New("project has no steps")
	}

	steps := make([]Step, 0, project.Steps.Len())
	for def := range project.Steps.Walk() {
		steps = append(steps, CommandStep(def, f.executor))
	}

	engine, err := NewEngine(project.Name, steps, f.fingerprinter, Options{
		Parallelism: project.Analysis.Parallelism,
		Telemetry:   f.telemetry,
		Logger:      f.logger,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build pipeline")
	}
	return engine, nil
}
