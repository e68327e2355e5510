package ports

import (
	"context"

	"go.trai.ch/reuse/internal/core/domain"
)

// Pipeline is the incremental engine under test.
//
//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks
type Pipeline interface {
	// Identity names the pipeline in reports.
	Identity() string

	// Run executes the pipeline once over input. Successive calls share the
	// engine's cache, so the second run can reuse results of the first.
	Run(ctx context.Context, input any, opts domain.RunOptions) (*domain.RunResult, error)
}

// InputSource produces input snapshots for a pipeline.
// Every call must return a new instance; equal content across calls is expected.
type InputSource interface {
	Snapshot(ctx context.Context) (any, error)
}
