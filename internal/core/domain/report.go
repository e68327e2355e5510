package domain

import (
	"fmt"
	"slices"
	"strings"
)

// StepAnalysis aggregates the second run's records of one observable step.
type StepAnalysis struct {
	Name                      string `json:"name"`
	New                       int    `json:"new"`
	Cached                    int    `json:"cached"`
	Unchanged                 int    `json:"unchanged"`
	Modified                  int    `json:"modified"`
	Removed                   int    `json:"removed"`
	HasForbiddenTypeViolation bool   `json:"has_forbidden_type_violation"`
}

// NewStepAnalysis counts the reuse reasons of records.
func NewStepAnalysis(name string, records []StepRecord, hasViolation bool) StepAnalysis {
	a := StepAnalysis{Name: name, HasForbiddenTypeViolation: hasViolation}
	for i := range records {
		a.add(records[i].Reason)
	}
	return a
}

func (a *StepAnalysis) add(r ReuseReason) {
	switch r {
	case ReasonNew:
		a.New++
	case ReasonCached:
		a.Cached++
	case ReasonUnchanged:
		a.Unchanged++
	case ReasonModified:
		a.Modified++
	case ReasonRemoved:
		a.Removed++
	}
}

// Count returns the number of records with the given reason.
func (a StepAnalysis) Count(r ReuseReason) int {
	switch r {
	case ReasonNew:
		return a.New
	case ReasonCached:
		return a.Cached
	case ReasonUnchanged:
		return a.Unchanged
	case ReasonModified:
		return a.Modified
	case ReasonRemoved:
		return a.Removed
	default:
		return 0
	}
}

// Total returns the number of records.
func (a StepAnalysis) Total() int {
	return a.New + a.Cached + a.Unchanged + a.Modified + a.Removed
}

// Reused returns the number of Cached and Unchanged records.
func (a StepAnalysis) Reused() int {
	return a.Cached + a.Unchanged
}

// FullyReused reports whether every record kept its prior result.
// A step without records is not considered reused.
func (a StepAnalysis) FullyReused() bool {
	return a.Total() > 0 && a.Reused() == a.Total()
}

// Fraction returns the share of records with the given reason, in [0, 1].
func (a StepAnalysis) Fraction(r ReuseReason) float64 {
	total := a.Total()
	if total == 0 {
		return 0
	}
	return float64(a.Count(r)) / float64(total)
}

// CachingReport is the outcome of comparing two runs over equal input.
// It only holds copies and never references values of either run.
type CachingReport struct {
	Pipeline        string         `json:"pipeline"`
	ObservableSteps []StepAnalysis `json:"observable_steps"`
	Violations      []Violation    `json:"violations"`
	ProducedOutput  bool           `json:"produced_output"`
}

// Step returns the analysis of the named observable step.
func (r *CachingReport) Step(name string) (StepAnalysis, bool) {
	i, found := slices.BinarySearchFunc(r.ObservableSteps, name, func(a StepAnalysis, n string) int {
		return strings.Compare(a.Name, n)
	})
	if !found {
		return StepAnalysis{}, false
	}
	return r.ObservableSteps[i], true
}

// ViolationsFor returns the violations recorded for the named step.
func (r *CachingReport) ViolationsFor(step string) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Step == step {
			out = append(out, v)
		}
	}
	return out
}

// Failures lists human-readable reasons why the report shows broken caching.
// An empty result means caching hygiene holds.
func (r *CachingReport) Failures() []string {
	var out []string
	for _, v := range r.Violations {
		out = append(out, fmt.Sprintf("step %q retains %s at %s", v.Step, v.Type, displayPath(v.Path)))
	}
	for _, s := range r.ObservableSteps {
		if !s.FullyReused() {
			out = append(out, fmt.Sprintf("step %q reused %d of %d results", s.Name, s.Reused(), s.Total()))
		}
	}
	if !r.ProducedOutput {
		out = append(out, "second run produced no output")
	}
	return out
}

// Passed reports whether the report has no failures.
func (r *CachingReport) Passed() bool {
	return len(r.Failures()) == 0
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
