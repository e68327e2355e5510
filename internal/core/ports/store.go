package ports

import "go.trai.ch/reuse/internal/core/domain"

// ReportStore defines the interface for storing and retrieving caching reports.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ReportStore interface {
	// Get retrieves the latest report for a pipeline.
	// Returns nil, nil if not found.
	Get(pipeline string) (*domain.ReportRecord, error)

	// Put stores the report, replacing any previous one for the same pipeline.
	Put(record domain.ReportRecord) error
}
