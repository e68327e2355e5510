package domain

import "time"

// RunResult is the immutable snapshot of one pipeline execution.
type RunResult struct {
	ID string
	// Tracking reports whether per-step records were requested for this run.
	Tracking bool
	Groups   []OutputGroup
}

// OutputGroup is the slice of a run produced by one output producer.
type OutputGroup struct {
	Name string
	// Steps maps a step name to its execution records in execution order.
	Steps map[string][]StepRecord
	// StepOrder lists the keys of Steps in first-execution order.
	StepOrder   []string
	Diagnostics []Diagnostic
	Artifacts   []Artifact
}

// StepRecord is one (re)execution of a named step.
type StepRecord struct {
	Step    InternedString
	Outputs []StepOutput
	Inputs  []StepInput
	Reason  ReuseReason
	Elapsed time.Duration
}

// StepOutput is one value produced by a step execution.
type StepOutput struct {
	// Key is stable across runs for logically the same output.
	Key   string
	Value any
}

// StepInput names the upstream output consumed by a step execution.
type StepInput struct {
	Step InternedString
	Key  string
}

// Artifact is a named file emitted by a run.
type Artifact struct {
	Name    string
	Content string
}

// Severity classifies a Diagnostic.
type Severity string

const (
	// SeverityInfo marks an informational diagnostic.
	SeverityInfo Severity = "info"
	// SeverityWarning marks a warning diagnostic.
	SeverityWarning Severity = "warning"
	// SeverityError marks an error diagnostic.
	SeverityError Severity = "error"
)

// Diagnostic is a message reported by the pipeline during a run.
type Diagnostic struct {
	Step     string
	Severity Severity
	Message  string
}

// RunOptions controls how a pipeline run is executed.
type RunOptions struct {
	TrackSteps bool
}

// Artifacts returns every artifact of the run across groups, in group order.
func (r *RunResult) Artifacts() []Artifact {
	if r == nil {
		return nil
	}
	var out []Artifact
	for i := range r.Groups {
		out = append(out, r.Groups[i].Artifacts...)
	}
	return out
}

// Diagnostics returns every diagnostic of the run across groups, in group order.
func (r *RunResult) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for i := range r.Groups {
		out = append(out, r.Groups[i].Diagnostics...)
	}
	return out
}
