package ports

import "go.trai.ch/reuse/internal/core/domain"

// TraceDecoder reads a run recorded by an external pipeline host.
//
//go:generate go run go.uber.org/mock/mockgen -source=trace_decoder.go -destination=mocks/mock_trace_decoder.go -package=mocks
type TraceDecoder interface {
	Decode(path string) (*domain.RunResult, error)
}
