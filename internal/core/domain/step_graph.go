// Package domain contains the core domain models for pipeline runs, step traces and caching reports.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// StepGraph represents the dependency graph of pipeline steps.
type StepGraph struct {
	steps          map[InternedString]StepDef
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewStepGraph creates a new empty StepGraph.
func NewStepGraph() *StepGraph {
	return &StepGraph{
		steps:      make(map[InternedString]StepDef),
		dependents: make(map[InternedString][]InternedString),
	}
}

// AddStep adds a step to the graph.
// It returns an error if a step with the same name already exists.
func (g *StepGraph) AddStep(s *StepDef) error {
	if _, exists := g.steps[s.Name]; exists {
		return zerr.With(ErrStepAlreadyExists, "step_name", s.Name.String())
	}
	g.steps[s.Name] = *s
	for _, dep := range s.DependsOn {
		g.dependents[dep] = append(g.dependents[dep], s.Name)
	}
	return nil
}

// Len returns the number of steps in the graph.
func (g *StepGraph) Len() int {
	return len(g.steps)
}

// Step returns the step with the given name.
func (g *StepGraph) Step(name string) (StepDef, bool) {
	s, ok := g.steps[NewInternedString(name)]
	return s, ok
}

// Dependents returns the names of the steps that consume the given step.
func (g *StepGraph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Validate checks for missing dependencies and cycles using a topological sort.
// It populates the execution order if successful. Roots are visited in name
// order so the order is identical on every load.
func (g *StepGraph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.steps))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		step, exists := g.steps[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range step.DependsOn {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	names := make([]InternedString, 0, len(g.steps))
	for name := range g.steps {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *StepGraph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	var cycle strings.Builder
	for i := startIdx; i < len(path); i++ {
		cycle.WriteString(path[i].String())
		cycle.WriteString(" -> ")
	}
	cycle.WriteString(dep.String())
	return zerr.With(ErrCycleDetected, "cycle", cycle.String())
}

// Walk returns an iterator that yields steps in execution order.
// It assumes Validate() has been called and returned nil.
func (g *StepGraph) Walk() iter.Seq[StepDef] {
	return func(yield func(StepDef) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.steps[name]) {
				return
			}
		}
	}
}
