package domain

import "go.trai.ch/zerr"

var (
	// ErrTrackingDisabled is returned when step analysis is requested for a run
	// that was executed without step tracking.
	ErrTrackingDisabled = zerr.New("tracking disabled")

	// ErrStepSetMismatch is returned when two runs over equal input expose different step names.
	ErrStepSetMismatch = zerr.New("step set mismatch between runs")

	// ErrSharedSnapshot is returned when both runs would receive the same input instance.
	ErrSharedSnapshot = zerr.New("input snapshots share the same instance")

	// ErrSnapshotMismatch is returned when the two input snapshots are not logically equal.
	ErrSnapshotMismatch = zerr.New("input snapshots are not equal")

	// ErrSnapshotMutated is returned when the first snapshot changed while the first run executed.
	ErrSnapshotMutated = zerr.New("input snapshot mutated during run")

	// ErrCancelled is returned when the caller cancels before or between runs.
	ErrCancelled = zerr.New("caching check cancelled")

	// ErrStepAlreadyExists is returned when attempting to add a step with a name that already exists.
	ErrStepAlreadyExists = zerr.New("step already exists")

	// ErrMissingDependency is returned when a step references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the step dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownReuseReason is returned when a trace names a reuse reason outside the known set.
	ErrUnknownReuseReason = zerr.New("unknown reuse reason")

	// ErrCachingCheckFailed is returned when a report shows broken caching hygiene.
	ErrCachingCheckFailed = zerr.New("caching check failed")

	// ErrReportNotFound is returned when no stored report exists for a pipeline.
	ErrReportNotFound = zerr.New("report not found")
)
