// Package orchestrator executes a pipeline twice over equal input so its cache reuse can be checked.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures the two runs.
type Options struct {
	// TrackSteps requests per-step records. Without them the runs cannot be analyzed.
	TrackSteps bool
}

// Runs holds the results of both runs.
type Runs struct {
	Pipeline string
	First    *domain.RunResult
	Second   *domain.RunResult
}

// Orchestrator runs a pipeline twice, strictly one run after the other.
type Orchestrator struct {
	pipeline      ports.Pipeline
	source        ports.InputSource
	fingerprinter ports.Fingerprinter
	telemetry     ports.Telemetry
	logger        ports.Logger
	opts          Options
}

// New creates a new Orchestrator.
func New(
	pipeline ports.Pipeline,
	source ports.InputSource,
	fingerprinter ports.Fingerprinter,
	telemetry ports.Telemetry,
	logger ports.Logger,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		pipeline:      pipeline,
		source:        source,
		fingerprinter: fingerprinter,
		telemetry:     telemetry,
		logger:        logger,
		opts:          opts,
	}
}

// Run takes two input snapshots and executes the pipeline once over each.
//
// Cancellation of ctx is honored before the first run and between the runs.
// A run that has started always completes, since an interrupted run leaves
// the pipeline cache in an undefined state.
func (o *Orchestrator) Run(ctx context.Context) (*Runs, error) {
	identity := o.pipeline.Identity()
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err, "before first run", identity)
	}

	first, second, err := o.snapshots(ctx)
	if err != nil {
		return nil, zerr.With(err, "pipeline", identity)
	}
	before, err := o.fingerprint(first, second)
	if err != nil {
		return nil, zerr.With(err, "pipeline", identity)
	}

	opts := domain.RunOptions{TrackSteps: o.opts.TrackSteps}
	firstRun, err := o.execute(ctx, "run 1", first, opts)
	if err != nil {
		return nil, zerr.With(err, "pipeline", identity)
	}

	after, err := o.fingerprinter.Fingerprint(first)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to fingerprint first snapshot"), "pipeline", identity)
	}
	if after != before {
		return nil, zerr.With(zerr.Wrap(domain.ErrSnapshotMutated, "first run changed its input"), "pipeline", identity)
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err, "between runs", identity)
	}

	secondRun, err := o.execute(ctx, "run 2", second, opts)
	if err != nil {
		return nil, zerr.With(err, "pipeline", identity)
	}

	return &Runs{Pipeline: identity, First: firstRun, Second: secondRun}, nil
}

func (o *Orchestrator) snapshots(ctx context.Context) (first, second any, err error) {
	first, err = o.source.Snapshot(ctx)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to take first snapshot")
	}
	second, err = o.source.Snapshot(ctx)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to take second snapshot")
	}
	if sameInstance(first, second) {
		return nil, nil, domain.ErrSharedSnapshot
	}
	return first, second, nil
}

// fingerprint returns the common fingerprint of both snapshots.
func (o *Orchestrator) fingerprint(first, second any) (string, error) {
	a, err := o.fingerprinter.Fingerprint(first)
	if err != nil {
		return "", zerr.Wrap(err, "failed to fingerprint first snapshot")
	}
	b, err := o.fingerprinter.Fingerprint(second)
	if err != nil {
		return "", zerr.Wrap(err, "failed to fingerprint second snapshot")
	}
	if a != b {
		err := zerr.With(zerr.Wrap(domain.ErrSnapshotMismatch, "snapshots differ"), "first", a)
		return "", zerr.With(err, "second", b)
	}
	return a, nil
}

func (o *Orchestrator) execute(
	ctx context.Context,
	name string,
	input any,
	opts domain.RunOptions,
) (*domain.RunResult, error) {
	// The run itself is shielded from cancellation.
	vctx, vertex := o.telemetry.Record(context.WithoutCancel(ctx), name)

	res, err := o.pipeline.Run(vctx, input, opts)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "pipeline run failed"), "run", name)
		vertex.Complete(err)
		return nil, err
	}

	reused, total := countReused(res)
	if total > 0 && reused == total {
		vertex.Cached()
	}
	vertex.Complete(nil)
	o.logger.Info(fmt.Sprintf("%s finished: %d of %d step results reused", name, reused, total))

	return res, nil
}

func countReused(res *domain.RunResult) (reused, total int) {
	if res == nil {
		return 0, 0
	}
	for i := range res.Groups {
		for _, records := range res.Groups[i].Steps {
			for j := range records {
				total++
				if records[j].Reason.IsReuse() {
					reused++
				}
			}
		}
	}
	return reused, total
}

// sameInstance reports whether a and b refer to the same object.
// Values without reference identity are never the same instance.
func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() != 0 && va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

func cancelled(cause error, when, pipeline string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrCancelled, cause), when), "pipeline", pipeline)
}
