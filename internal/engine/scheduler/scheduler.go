// Package scheduler runs the steps of a pipeline graph in dependency order.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/zerr"
)

// StepStatus represents the status of a step within one run.
type StepStatus string

const (
	// StatusPending indicates the step is waiting to be executed.
	StatusPending StepStatus = "Pending"
	// StatusRunning indicates the step is currently executing.
	StatusRunning StepStatus = "Running"
	// StatusCompleted indicates the step has finished successfully.
	StatusCompleted StepStatus = "Completed"
	// StatusFailed indicates the step execution failed.
	StatusFailed StepStatus = "Failed"
	// StatusCached indicates the step reused its previous result.
	StatusCached StepStatus = "Cached"
)

// StepFunc executes one step. It reports whether the prior result was reused.
type StepFunc func(ctx context.Context, step domain.StepDef) (cached bool, err error)

// Scheduler manages the execution of steps in the dependency graph.
type Scheduler struct {
	graph       *domain.StepGraph
	parallelism int

	mu         sync.RWMutex
	stepStatus map[domain.InternedString]StepStatus
}

// NewScheduler creates a new Scheduler for graph.
// It validates the graph and returns an error if validation fails.
func NewScheduler(graph *domain.StepGraph, parallelism int) (*Scheduler, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Scheduler{
		graph:       graph,
		parallelism: parallelism,
		stepStatus:  make(map[domain.InternedString]StepStatus, graph.Len()),
	}, nil
}

// Status returns the status of the named step in the current or last run.
func (s *Scheduler) Status(name string) StepStatus {
	return s.getStatus(domain.NewInternedString(name))
}

func (s *Scheduler) resetStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for step := range s.graph.Walk() {
		s.stepStatus[step.Name] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status StepStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepStatus[name] = status
}

func (s *Scheduler) getStatus(name domain.InternedString) StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stepStatus[name]
}

// Run executes every step once, a step only after all of its dependencies
// completed. Dependents of a failed step are not executed.
func (s *Scheduler) Run(ctx context.Context, fn StepFunc) error {
	s.resetStatuses()
	state := s.newRunState(ctx, fn)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

type result struct {
	step   domain.InternedString
	cached bool
	err    error
}

type schedulerRunState struct {
	inDegree  map[domain.InternedString]int
	steps     map[domain.InternedString]domain.StepDef
	ready     []domain.InternedString
	active    int
	resultsCh chan result
	errs      error
	ctx       context.Context
	fn        StepFunc
	s         *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, fn StepFunc) *schedulerRunState {
	inDegree := make(map[domain.InternedString]int, s.graph.Len())
	steps := make(map[domain.InternedString]domain.StepDef, s.graph.Len())

	// Walk yields dependencies first, so ready starts in a stable order.
	var ready []domain.InternedString
	for step := range s.graph.Walk() {
		steps[step.Name] = step
		inDegree[step.Name] = len(step.DependsOn)
		if len(step.DependsOn) == 0 {
			ready = append(ready, step.Name)
		}
	}

	return &schedulerRunState{
		inDegree:  inDegree,
		steps:     steps,
		ready:     ready,
		resultsCh: make(chan result, s.parallelism),
		ctx:       ctx,
		fn:        fn,
		s:         s,
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.s.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(name, StatusRunning)

		go func(step domain.StepDef) {
			cached, err := state.fn(state.ctx, step)
			state.resultsCh <- result{step: step.Name, cached: cached, err: err}
		}(state.steps[name])
	}
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrappedErr := zerr.With(zerr.Wrap(res.err, "step execution failed"), "step", res.step.String())
		state.errs = errors.Join(state.errs, wrappedErr)
		state.s.updateStatus(res.step, StatusFailed)
		return
	}

	if res.cached {
		state.s.updateStatus(res.step, StatusCached)
	} else {
		state.s.updateStatus(res.step, StatusCompleted)
	}
	for _, dep := range state.s.graph.Dependents(res.step) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
