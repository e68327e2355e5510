package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/adapters/fs"
	"go.trai.ch/reuse/internal/adapters/pipeline"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/reuse/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var tracked = domain.RunOptions{TrackSteps: true}

func snapshot(text string) *domain.Snapshot {
	return &domain.Snapshot{Root: "/src", Files: []domain.SnapshotFile{{Path: "a.txt", Content: text}}}
}

func upper(name string, deps ...string) pipeline.Step {
	return pipeline.Step{
		Name:      name,
		DependsOn: deps,
		Run: func(_ context.Context, in []domain.StepOutput) ([]domain.StepOutput, error) {
			var sb strings.Builder
			for _, o := range in {
				sb.WriteString(strings.ToUpper(pipeline.Text(o.Value)))
			}
			return []domain.StepOutput{{Key: name, Value: sb.String()}}, nil
		},
	}
}

func newEngine(t *testing.T, steps ...pipeline.Step) *pipeline.Engine {
	t.Helper()
	e, err := pipeline.NewEngine("demo", steps, fs.NewHasher(), pipeline.Options{Parallelism: 2})
	require.NoError(t, err)
	return e
}

func reasons(run *domain.RunResult, step string) []domain.ReuseReason {
	var out []domain.ReuseReason
	for _, g := range run.Groups {
		for _, r := range g.Steps[step] {
			out = append(out, r.Reason)
		}
	}
	return out
}

func TestEngine_SecondRunIsCached(t *testing.T) {
	emit := upper("Emit", "Parse")
	emit.Emit = "Out.g.txt"
	e := newEngine(t, upper("Parse"), emit)

	first, err := e.Run(t.Context(), snapshot("hello"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("hello"), tracked)
	require.NoError(t, err)

	assert.True(t, first.Tracking)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{"Parse", "Emit"}, first.Groups[0].StepOrder)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonNew}, reasons(first, "Parse"))
	assert.Equal(t, []domain.ReuseReason{domain.ReasonNew}, reasons(first, "Emit"))
	assert.Equal(t, []domain.ReuseReason{domain.ReasonCached}, reasons(second, "Parse"))
	assert.Equal(t, []domain.ReuseReason{domain.ReasonCached}, reasons(second, "Emit"))

	assert.Equal(t, []domain.Artifact{{Name: "Out.g.txt", Content: "HELLO"}}, second.Artifacts())

	emitRecord := second.Groups[0].Steps["Emit"][0]
	assert.Equal(t, []domain.StepInput{{Step: domain.NewInternedString("Parse"), Key: "Parse"}}, emitRecord.Inputs)
}

func TestEngine_EqualOutputIsUnchangedAndKeepsPriorInstance(t *testing.T) {
	type summary struct{ Lines int }
	parse := pipeline.Step{
		Name: "Parse",
		Run: func(_ context.Context, in []domain.StepOutput) ([]domain.StepOutput, error) {
			text := pipeline.Text(in[0].Value)
			return []domain.StepOutput{{Key: "summary", Value: &summary{Lines: strings.Count(text, "\n")}}}, nil
		},
	}
	e := newEngine(t, parse, upper("Emit", "Parse"))

	first, err := e.Run(t.Context(), snapshot("a\nb\n"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("c\nd\n"), tracked)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonUnchanged}, reasons(second, "Parse"))
	assert.Equal(t, []domain.ReuseReason{domain.ReasonCached}, reasons(second, "Emit"))
	assert.Same(t,
		first.Groups[0].Steps["Parse"][0].Outputs[0].Value,
		second.Groups[0].Steps["Parse"][0].Outputs[0].Value)
}

func TestEngine_DifferentOutputIsModified(t *testing.T) {
	e := newEngine(t, upper("Parse"))

	_, err := e.Run(t.Context(), snapshot("a"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("b"), tracked)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonModified}, reasons(second, "Parse"))
}

func TestEngine_VanishedOutputIsRemoved(t *testing.T) {
	e := newEngine(t, pipeline.LineStep("Lines"))

	first, err := e.Run(t.Context(), snapshot("a\nb\n"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("a\n"), tracked)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonNew, domain.ReasonNew}, reasons(first, "Lines"))
	assert.Equal(t, []domain.ReuseReason{domain.ReasonUnchanged, domain.ReasonRemoved}, reasons(second, "Lines"))
	assert.Equal(t, "b", second.Groups[0].Steps["Lines"][1].Outputs[0].Key)
}

func TestEngine_TrackingOff(t *testing.T) {
	emit := upper("Emit")
	emit.Emit = "Out.txt"
	e := newEngine(t, emit)

	run, err := e.Run(t.Context(), snapshot("x"), domain.RunOptions{})
	require.NoError(t, err)

	assert.False(t, run.Tracking)
	assert.Nil(t, run.Groups[0].Steps)
	assert.Empty(t, run.Groups[0].StepOrder)
	assert.Equal(t, []domain.Artifact{{Name: "Out.txt", Content: "X"}}, run.Artifacts())
}

type session struct {
	ID   int
	Done chan struct{}
}

func TestEngine_UnfingerprintableOutputNeverEqual(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(2)

	step := pipeline.Step{
		Name: "Parse",
		Run: func(context.Context, []domain.StepOutput) ([]domain.StepOutput, error) {
			return []domain.StepOutput{{Key: "s", Value: &session{Done: make(chan struct{})}}}, nil
		},
	}
	e, err := pipeline.NewEngine("demo", []pipeline.Step{step}, fs.NewHasher(), pipeline.Options{Logger: logger})
	require.NoError(t, err)

	_, err = e.Run(t.Context(), snapshot("x"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("y"), tracked)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonModified}, reasons(second, "Parse"))
	require.Len(t, second.Diagnostics(), 1)
	assert.Equal(t, domain.SeverityWarning, second.Diagnostics()[0].Severity)
	assert.Equal(t, "Parse", second.Diagnostics()[0].Step)
}

func TestEngine_FreshHandleEveryRunIsModified(t *testing.T) {
	var ids atomic.Int64
	step := pipeline.Step{
		Name: "Bind",
		Run: func(context.Context, []domain.StepOutput) ([]domain.StepOutput, error) {
			return []domain.StepOutput{{Key: "s", Value: &session{ID: int(ids.Add(1))}}}, nil
		},
	}
	e := newEngine(t, step)

	_, err := e.Run(t.Context(), snapshot("x\n"), tracked)
	require.NoError(t, err)
	second, err := e.Run(t.Context(), snapshot("x\ny\n"), tracked)
	require.NoError(t, err)

	assert.Equal(t, []domain.ReuseReason{domain.ReasonModified}, reasons(second, "Bind"))
}

func TestEngine_FailedRunDoesNotUpdateCache(t *testing.T) {
	fail := true
	flaky := pipeline.Step{
		Name:      "Flaky",
		DependsOn: []string{"Parse"},
		Run: func(context.Context, []domain.StepOutput) ([]domain.StepOutput, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []domain.StepOutput{{Key: "k", Value: "v"}}, nil
		},
	}
	e := newEngine(t, upper("Parse"), flaky)

	_, err := e.Run(t.Context(), snapshot("x"), tracked)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	fail = false
	run, err := e.Run(t.Context(), snapshot("x"), tracked)
	require.NoError(t, err)
	assert.Equal(t, []domain.ReuseReason{domain.ReasonNew}, reasons(run, "Parse"))
}

func TestEngine_RecordsStepVertices(t *testing.T) {
	ctrl := gomock.NewController(t)
	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), "Parse").DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).Times(2)
	vertex.EXPECT().Complete(nil).Times(2)
	vertex.EXPECT().Cached().Times(1)

	e, err := pipeline.NewEngine("demo", []pipeline.Step{upper("Parse")}, fs.NewHasher(),
		pipeline.Options{Telemetry: telemetry})
	require.NoError(t, err)

	_, err = e.Run(t.Context(), snapshot("x"), tracked)
	require.NoError(t, err)
	_, err = e.Run(t.Context(), snapshot("x"), tracked)
	require.NoError(t, err)
}

func TestNewEngine_Errors(t *testing.T) {
	_, err := pipeline.NewEngine("demo", []pipeline.Step{upper("Emit", "Missing")}, fs.NewHasher(), pipeline.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMissingDependency.Error())

	_, err = pipeline.NewEngine("demo", []pipeline.Step{{Name: "NoRun"}}, fs.NewHasher(), pipeline.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step has no run function")

	_, err = pipeline.NewEngine("demo", []pipeline.Step{upper("A"), upper("A")}, fs.NewHasher(), pipeline.Options{})
	require.Error(t, err)
}
