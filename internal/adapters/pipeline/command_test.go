package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/adapters/fs"
	"go.trai.ch/reuse/internal/adapters/pipeline"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestCommandStep_PipesInputThroughExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	def := domain.StepDef{
		Name:      domain.NewInternedString("Parse"),
		Command:   []string{"tr", "a-z", "A-Z"},
		DependsOn: domain.NewInternedStrings([]string{"Read"}),
		Emit:      "Out.txt",
	}
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), []byte("abc")).DoAndReturn(
		func(_ context.Context, step *domain.StepDef, _ []byte) ([]byte, error) {
			assert.Equal(t, "Parse", step.Name.String())
			return []byte("ABC"), nil
		})

	step := pipeline.CommandStep(def, executor)
	assert.Equal(t, "Parse", step.Name)
	assert.Equal(t, []string{"Read"}, step.DependsOn)
	assert.Equal(t, "Out.txt", step.Emit)

	out, err := step.Run(t.Context(), []domain.StepOutput{{Key: "a", Value: "ab"}, {Key: "b", Value: []byte("c")}})

	require.NoError(t, err)
	assert.Equal(t, []domain.StepOutput{{Key: "Parse", Value: "ABC"}}, out)
}

func TestCommandStep_WithoutCommandPassesThrough(t *testing.T) {
	step := pipeline.CommandStep(domain.StepDef{Name: domain.NewInternedString("Read")}, nil)

	out, err := step.Run(t.Context(), []domain.StepOutput{{Key: pipeline.RootInputKey, Value: snapshot("text")}})

	require.NoError(t, err)
	assert.Equal(t, []domain.StepOutput{{Key: "Read", Value: "text"}}, out)
}

func TestCommandStep_ExecutorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	boom := errors.New("command failed")
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	step := pipeline.CommandStep(domain.StepDef{Name: domain.NewInternedString("X"), Command: []string{"false"}}, executor)
	_, err := step.Run(t.Context(), nil)

	assert.ErrorIs(t, err, boom)
}

func TestFactory_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), []byte("hello")).Return([]byte("HELLO"), nil)

	graph := domain.NewStepGraph()
	require.NoError(t, graph.AddStep(&domain.StepDef{
		Name:    domain.NewInternedString("Parse"),
		Command: []string{"tr", "a-z", "A-Z"},
	}))
	require.NoError(t, graph.AddStep(&domain.StepDef{
		Name:      domain.NewInternedString("Emit"),
		DependsOn: domain.NewInternedStrings([]string{"Parse"}),
		Emit:      "Out.g.txt",
	}))
	require.NoError(t, graph.Validate())
	project := &domain.Project{Name: "demo", Steps: graph, Analysis: domain.DefaultAnalysisConfig()}

	p, err := pipeline.NewFactory(executor, fs.NewHasher(), nil, nil).Build(project)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Identity())

	run, err := p.Run(t.Context(), snapshot("hello"), tracked)
	require.NoError(t, err)
	assert.Equal(t, []domain.Artifact{{Name: "Out.g.txt", Content: "HELLO"}}, run.Artifacts())

	_, err = pipeline.NewFactory(executor, fs.NewHasher(), nil, nil).Build(&domain.Project{Name: "empty"})
	require.Error(t, err)
}
