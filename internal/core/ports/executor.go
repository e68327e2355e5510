// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/reuse/internal/core/domain"
)

// Executor defines the interface for executing command steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's command with stdin as standard input.
	//
	// It returns the captured standard output, or an error if the command fails.
	Execute(ctx context.Context, step *domain.StepDef, stdin []byte) ([]byte, error)
}
