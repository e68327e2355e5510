package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestStepGraph_AddStep(t *testing.T) {
	g := domain.NewStepGraph()
	step := domain.StepDef{Name: domain.NewInternedString("ParseInputs")}

	if err := g.AddStep(&step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.AddStep(&step); err == nil {
		t.Error("expected error when adding duplicate step, got nil")
	} else {
		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Fatalf("expected *zerr.Error, got %T", err)
		}
		meta := zErr.Metadata()
		if stepName, ok := meta["step_name"].(string); !ok || stepName != "ParseInputs" {
			t.Errorf("expected metadata step_name=ParseInputs, got %v", meta["step_name"])
		}
	}
	assert.Equal(t, 1, g.Len())
}

func TestStepGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewStepGraph()
	stepA := domain.StepDef{
		Name:      domain.NewInternedString("A"),
		DependsOn: []domain.InternedString{domain.NewInternedString("B")},
	}
	stepB := domain.StepDef{
		Name:      domain.NewInternedString("B"),
		DependsOn: []domain.InternedString{domain.NewInternedString("A")},
	}
	require.NoError(t, g.AddStep(&stepA))
	require.NoError(t, g.AddStep(&stepB))

	err := g.Validate()
	require.Error(t, err)
	assert.Equal(t, domain.ErrCycleDetected.Error(), err.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestStepGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewStepGraph()
	require.NoError(t, g.AddStep(&domain.StepDef{
		Name:      domain.NewInternedString("Emit"),
		DependsOn: []domain.InternedString{domain.NewInternedString("Parse")},
	}))

	err := g.Validate()
	require.Error(t, err)
	assert.Equal(t, domain.ErrMissingDependency.Error(), err.Error())
}

func TestStepGraph_Walk(t *testing.T) {
	g := domain.NewStepGraph()
	// A -> B -> C
	// Execution order: C, B, A
	stepA := domain.StepDef{
		Name:      domain.NewInternedString("A"),
		DependsOn: []domain.InternedString{domain.NewInternedString("B")},
	}
	stepB := domain.StepDef{
		Name:      domain.NewInternedString("B"),
		DependsOn: []domain.InternedString{domain.NewInternedString("C")},
	}
	stepC := domain.StepDef{
		Name: domain.NewInternedString("C"),
	}

	require.NoError(t, g.AddStep(&stepA))
	require.NoError(t, g.AddStep(&stepB))
	require.NoError(t, g.AddStep(&stepC))
	require.NoError(t, g.Validate())

	executed := make([]string, 0, 3)
	for step := range g.Walk() {
		executed = append(executed, step.Name.String())
	}

	assert.Equal(t, []string{"C", "B", "A"}, executed)
	assert.Equal(t, []domain.InternedString{domain.NewInternedString("B")},
		g.Dependents(domain.NewInternedString("C")))
}

func TestStepGraph_Walk_DeterministicRoots(t *testing.T) {
	build := func() []string {
		g := domain.NewStepGraph()
		for _, name := range []string{"zeta", "alpha", "mid", "beta"} {
			require.NoError(t, g.AddStep(&domain.StepDef{Name: domain.NewInternedString(name)}))
		}
		require.NoError(t, g.Validate())
		var order []string
		for step := range g.Walk() {
			order = append(order, step.Name.String())
		}
		return order
	}

	first := build()
	assert.Equal(t, []string{"alpha", "beta", "mid", "zeta"}, first)
	for range 5 {
		assert.Equal(t, first, build())
	}
}
