// Package extractor flattens run results into per-step execution traces.
package extractor

import (
	"maps"
	"slices"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/zerr"
)

// Traces maps a step name to its execution records in execution order.
type Traces map[string][]domain.StepRecord

// Extract concatenates the records of every step across the run's output
// groups, in group order. A nil run yields an empty map.
func Extract(run *domain.RunResult) Traces {
	traces := make(Traces)
	if run == nil {
		return traces
	}
	for i := range run.Groups {
		group := &run.Groups[i]
		for _, name := range stepOrder(group) {
			traces[name] = append(traces[name], group.Steps[name]...)
		}
	}
	return traces
}

// stepOrder returns the group's step names, trusting StepOrder when it lists
// every key exactly once and falling back to sorted keys otherwise.
func stepOrder(group *domain.OutputGroup) []string {
	if len(group.StepOrder) == len(group.Steps) {
		seen := make(map[string]struct{}, len(group.StepOrder))
		for _, name := range group.StepOrder {
			if _, ok := group.Steps[name]; !ok {
				break
			}
			if _, dup := seen[name]; dup {
				break
			}
			seen[name] = struct{}{}
		}
		if len(seen) == len(group.Steps) {
			return group.StepOrder
		}
	}
	return slices.Sorted(maps.Keys(group.Steps))
}

// StepNames returns the traced step names in lexicographic order.
func (t Traces) StepNames() []string {
	return slices.Sorted(maps.Keys(t))
}

// Compare checks that two traces expose the same step names.
// A mismatch under equal input means the pipeline is not deterministic and
// the reuse comparison is meaningless.
func Compare(first, second Traces) error {
	var missing, unexpected []string
	for name := range first {
		if _, ok := second[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range second {
		if _, ok := first[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	slices.Sort(missing)
	slices.Sort(unexpected)
	err := zerr.Wrap(domain.ErrStepSetMismatch, "second run diverged from first run")
	err = zerr.With(err, "missing", missing)
	return zerr.With(err, "unexpected", unexpected)
}
