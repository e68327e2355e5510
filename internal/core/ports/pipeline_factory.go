package ports

import "go.trai.ch/reuse/internal/core/domain"

// PipelineFactory builds a runnable pipeline from a loaded project.
//
//go:generate go run go.uber.org/mock/mockgen -source=pipeline_factory.go -destination=mocks/mock_pipeline_factory.go -package=mocks
type PipelineFactory interface {
	Build(project *domain.Project) (Pipeline, error)
}
