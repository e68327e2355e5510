// Package pipeline provides a memoizing step engine, the reference pipeline checked by reuse.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/reuse/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// RootInputKey is the output key under which root steps receive the run input.
const RootInputKey = "input"

var _ ports.Pipeline = (*Engine)(nil)

// RunFunc computes the outputs of a step from its inputs.
type RunFunc func(ctx context.Context, inputs []domain.StepOutput) ([]domain.StepOutput, error)

// Step is one named node of the engine's graph.
type Step struct {
	Name      string
	DependsOn []string
	Run       RunFunc
	// Emit names the artifact written from the step's outputs. Empty means none.
	Emit string
}

// Options configures an Engine.
type Options struct {
	Parallelism int
	// Telemetry records one vertex per executed step. Optional.
	Telemetry ports.Telemetry
	// Logger receives warnings about outputs that cannot be fingerprinted. Optional.
	Logger ports.Logger
}

// entry is the memoized result of one step.
type entry struct {
	inputFP   string
	outputs   []domain.StepOutput
	outputFPs []string
}

// Engine executes a graph of steps and memoizes their outputs across runs.
// Runs on the same Engine are serialized.
type Engine struct {
	identity      string
	steps         map[string]Step
	graph         *domain.StepGraph
	fingerprinter ports.Fingerprinter
	opts          Options

	mu    sync.Mutex
	cache map[string]*entry
}

// NewEngine creates an Engine named identity over steps.
func NewEngine(identity string, steps []Step, fingerprinter ports.Fingerprinter, opts Options) (*Engine, error) {
	graph := domain.NewStepGraph()
	byName := make(map[string]Step, len(steps))
	for _, s := range steps {
		if s.Run == nil {
			return nil, zerr.With(zerr.New("step has no run function"), "step", s.Name)
		}
		def := &domain.StepDef{
			Name:      domain.NewInternedString(s.Name),
			DependsOn: domain.NewInternedStrings(s.DependsOn),
			Emit:      s.Emit,
		}
		if err := graph.AddStep(def); err != nil {
			return nil, err
		}
		byName[s.Name] = s
	}
	if err := graph.Validate(); err != nil {
		return nil, zerr.With(err, "pipeline", identity)
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}

	return &Engine{
		identity:      identity,
		steps:         byName,
		graph:         graph,
		fingerprinter: fingerprinter,
		opts:          opts,
		cache:         make(map[string]*entry),
	}, nil
}

// Identity returns the pipeline name.
func (e *Engine) Identity() string {
	return e.identity
}

// runState collects the results of one run.
type runState struct {
	input any

	mu          sync.Mutex
	outputs     map[string][]domain.StepOutput
	records     map[string][]domain.StepRecord
	next        map[string]*entry
	diagnostics []domain.Diagnostic
}

// Run executes every step once over input. The cache is only updated when
// the whole run succeeds.
func (e *Engine) Run(ctx context.Context, input any, opts domain.RunOptions) (*domain.RunResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sched, err := scheduler.NewScheduler(e.graph, e.opts.Parallelism)
	if err != nil {
		return nil, zerr.With(err, "pipeline", e.identity)
	}

	state := &runState{
		input:   input,
		outputs: make(map[string][]domain.StepOutput, len(e.steps)),
		records: make(map[string][]domain.StepRecord, len(e.steps)),
		next:    make(map[string]*entry, len(e.steps)),
	}

	err = sched.Run(ctx, func(ctx context.Context, def domain.StepDef) (bool, error) {
		return e.runStep(ctx, state, def)
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "pipeline run failed"), "pipeline", e.identity)
	}

	e.cache = state.next
	return e.result(state, opts), nil
}

func (e *Engine) result(state *runState, opts domain.RunOptions) *domain.RunResult {
	group := domain.OutputGroup{
		Name:        e.identity,
		Diagnostics: state.diagnostics,
	}
	if opts.TrackSteps {
		group.Steps = state.records
	}

	for def := range e.graph.Walk() {
		name := def.Name.String()
		if opts.TrackSteps {
			group.StepOrder = append(group.StepOrder, name)
		}
		if def.Emit != "" {
			group.Artifacts = append(group.Artifacts, domain.Artifact{
				Name:    def.Emit,
				Content: textOf(state.outputs[name]),
			})
		}
	}

	return &domain.RunResult{
		ID:       uuid.NewString(),
		Tracking: opts.TrackSteps,
		Groups:   []domain.OutputGroup{group},
	}
}

func (e *Engine) runStep(ctx context.Context, state *runState, def domain.StepDef) (bool, error) {
	name := def.Name.String()
	step := e.steps[name]
	start := time.Now()

	var vertex ports.Vertex
	if e.opts.Telemetry != nil {
		ctx, vertex = e.opts.Telemetry.Record(ctx, name)
	}

	inputs, refs := state.inputsFor(def)
	prior := e.cache[name]

	inputFP, err := e.fingerprinter.Fingerprint(inputs)
	if err != nil {
		state.diagnose(e.opts.Logger, name, "inputs cannot be fingerprinted; step always recomputes", err)
		inputFP = ""
	}

	if prior != nil && inputFP != "" && prior.inputFP == inputFP {
		records := make([]domain.StepRecord, 0, len(prior.outputs))
		for _, out := range prior.outputs {
			records = append(records, record(def.Name, []domain.StepOutput{out}, refs, domain.ReasonCached, time.Since(start)))
		}
		if len(prior.outputs) == 0 {
			records = append(records, record(def.Name, nil, refs, domain.ReasonCached, time.Since(start)))
		}
		state.finish(name, prior.outputs, records, prior)
		if vertex != nil {
			vertex.Cached()
			vertex.Complete(nil)
		}
		return true, nil
	}

	outputs, err := step.Run(ctx, inputs)
	if vertex != nil {
		vertex.Complete(err)
	}
	if err != nil {
		return false, err
	}

	next := &entry{inputFP: inputFP}
	records := make([]domain.StepRecord, 0, len(outputs))
	seen := make(map[string]bool, len(outputs))
	for _, out := range outputs {
		seen[out.Key] = true
		fp, err := e.fingerprinter.Fingerprint(out.Value)
		if err != nil {
			state.diagnose(e.opts.Logger, name, fmt.Sprintf("output %q cannot be fingerprinted; it never compares equal", out.Key), err)
			fp = ""
		}

		reason := domain.ReasonNew
		if prior != nil {
			reason = domain.ReasonModified
			if i := prior.indexOf(out.Key); i < 0 {
				reason = domain.ReasonNew
			} else if fp != "" && prior.outputFPs[i] == fp {
				// Equal outputs keep the prior instance.
				reason = domain.ReasonUnchanged
				out = prior.outputs[i]
			}
		}

		next.outputs = append(next.outputs, out)
		next.outputFPs = append(next.outputFPs, fp)
		records = append(records, record(def.Name, []domain.StepOutput{out}, refs, reason, time.Since(start)))
	}

	if prior != nil {
		for _, old := range prior.outputs {
			if !seen[old.Key] {
				records = append(records, record(def.Name, []domain.StepOutput{old}, refs, domain.ReasonRemoved, time.Since(start)))
			}
		}
	}
	if len(records) == 0 {
		reason := domain.ReasonNew
		if prior != nil {
			reason = domain.ReasonUnchanged
		}
		records = append(records, record(def.Name, nil, refs, reason, time.Since(start)))
	}

	state.finish(name, next.outputs, records, next)
	return false, nil
}

func record(
	step domain.InternedString,
	outputs []domain.StepOutput,
	inputs []domain.StepInput,
	reason domain.ReuseReason,
	elapsed time.Duration,
) domain.StepRecord {
	return domain.StepRecord{
		Step:    step,
		Outputs: outputs,
		Inputs:  inputs,
		Reason:  reason,
		Elapsed: elapsed,
	}
}

func (en *entry) indexOf(key string) int {
	for i, out := range en.outputs {
		if out.Key == key {
			return i
		}
	}
	return -1
}

// inputsFor returns the values a step consumes: the run input for roots,
// otherwise the outputs of its dependencies in declaration order.
func (s *runState) inputsFor(def domain.StepDef) ([]domain.StepOutput, []domain.StepInput) {
	if len(def.DependsOn) == 0 {
		return []domain.StepOutput{{Key: RootInputKey, Value: s.input}}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var inputs []domain.StepOutput
	var refs []domain.StepInput
	for _, dep := range def.DependsOn {
		for _, out := range s.outputs[dep.String()] {
			inputs = append(inputs, out)
			refs = append(refs, domain.StepInput{Step: dep, Key: out.Key})
		}
	}
	return inputs, refs
}

func (s *runState) finish(name string, outputs []domain.StepOutput, records []domain.StepRecord, next *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[name] = outputs
	s.records[name] = records
	s.next[name] = next
}

func (s *runState) diagnose(logger ports.Logger, step, msg string, err error) {
	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, domain.Diagnostic{
		Step:     step,
		Severity: domain.SeverityWarning,
		Message:  msg,
	})
	s.mu.Unlock()
	if logger != nil {
		logger.Warn(fmt.Sprintf("step %q: %s: %v", step, msg, err))
	}
}

// textOf renders outputs as artifact content.
func textOf(outputs []domain.StepOutput) string {
	var sb strings.Builder
	for _, out := range outputs {
		sb.WriteString(Text(out.Value))
	}
	return sb.String()
}

// Text renders a step value as text.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case *domain.Snapshot:
		return t.Text()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
