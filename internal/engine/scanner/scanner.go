// Package scanner finds session-scoped handles retained in cached step outputs.
package scanner

import (
	"context"
	"fmt"
	"strconv"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/reuse/internal/engine/extractor"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scanner walks the object graph reachable from step outputs and reports
// every instance of a forbidden type.
type Scanner struct {
	forbidden   map[string]struct{}
	safe        map[string]struct{}
	parallelism int
	logger      ports.Logger
}

// New creates a Scanner from the analysis configuration. The logger receives
// members that could not be read; it may be nil.
func New(cfg domain.AnalysisConfig, logger ports.Logger) *Scanner {
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Scanner{
		forbidden:   toSet(cfg.ForbiddenTypes),
		safe:        toSet(cfg.SafeTypes),
		parallelism: parallelism,
		logger:      logger,
	}
}

// AnalyzeRun scans every step output of run and returns the violations
// sorted by step, type and path.
//
// The run must have been executed with step tracking; otherwise there is
// nothing to scan and ErrTrackingDisabled is returned.
func (s *Scanner) AnalyzeRun(ctx context.Context, run *domain.RunResult) ([]domain.Violation, error) {
	if run == nil || !run.Tracking {
		return nil, zerr.Wrap(domain.ErrTrackingDisabled, "cannot analyze forbidden types")
	}

	traces := extractor.Extract(run)
	names := traces.StepNames()
	results := make([][]domain.Violation, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.analyzeStep(name, traces[name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "forbidden type scan interrupted")
	}

	var out []domain.Violation
	for _, vs := range results {
		out = append(out, vs...)
	}
	return domain.SortViolations(out), nil
}

// Analyze scans a single value as if it were the output of step.
func (s *Scanner) Analyze(step string, value any) []domain.Violation {
	w := s.newWalker(step)
	w.walk(value, "")
	return domain.SortViolations(w.found)
}

// analyzeStep scans all records of one step with a shared visited set, so an
// object reachable from several records is inspected once.
func (s *Scanner) analyzeStep(step string, records []domain.StepRecord) []domain.Violation {
	w := s.newWalker(step)
	for i := range records {
		outputs := records[i].Outputs
		for j := range outputs {
			root := ""
			if len(outputs) > 1 {
				root = "[" + strconv.Itoa(j) + "]"
			}
			w.walk(outputs[j].Value, root)
		}
	}
	return domain.SortViolations(w.found)
}

func (s *Scanner) isForbidden(typeName string) bool {
	_, ok := s.forbidden[typeName]
	return ok
}

func (s *Scanner) isSafe(typeName string) bool {
	_, ok := s.safe[typeName]
	return ok
}

func (s *Scanner) warn(step, path string, cause any) {
	if s.logger == nil {
		return
	}
	if path == "" {
		path = "<root>"
	}
	s.logger.Warn(fmt.Sprintf("skipped unreadable member of step %q at %s: %v", step, path, cause))
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
