package ports

import (
	"io"

	"go.trai.ch/reuse/internal/core/domain"
)

// ReportRenderer writes a caching report for humans.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type ReportRenderer interface {
	Render(w io.Writer, record *domain.ReportRecord) error
}
