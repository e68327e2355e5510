package scanner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports/mocks"
	"go.trai.ch/reuse/internal/engine/scanner"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const modelType = "*scanner_test.SemanticModel"

type SemanticModel struct {
	Tree *SyntaxTree
}

type SyntaxTree struct {
	Text string
}

type ParsedInput struct {
	Name  string
	Lines []string
	Model *SemanticModel
}

type hiddenInput struct {
	Name  string
	model *SemanticModel
}

type Summary struct {
	Name      string
	LineCount int
}

type Node struct {
	Label string
	Next  *Node
	Model *SemanticModel
}

// foreignObject carries a type identity from another host.
type foreignObject struct {
	id       string
	typeName string
	children []domain.Child
	err      error
}

func (o *foreignObject) TypeName() string { return o.typeName }

func (o *foreignObject) NodeID() string { return o.id }

func (o *foreignObject) Children() ([]domain.Child, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.children, nil
}

type panickingObject struct{}

func (panickingObject) Children() ([]domain.Child, error) {
	panic("member not readable")
}

func newScanner(t *testing.T, forbidden ...string) *scanner.Scanner {
	t.Helper()
	cfg := domain.AnalysisConfig{ForbiddenTypes: forbidden, Parallelism: 2}
	return scanner.New(cfg, nil)
}

func runWith(tracking bool, outputs map[string][]any) *domain.RunResult {
	steps := make(map[string][]domain.StepRecord, len(outputs))
	for name, values := range outputs {
		for _, v := range values {
			steps[name] = append(steps[name], domain.StepRecord{
				Step:    domain.NewInternedString(name),
				Outputs: []domain.StepOutput{{Key: name, Value: v}},
				Reason:  domain.ReasonNew,
			})
		}
	}
	return &domain.RunResult{
		Tracking: tracking,
		Groups:   []domain.OutputGroup{{Name: "main", Steps: steps}},
	}
}

func TestAnalyzeRun_ForbiddenField(t *testing.T) {
	s := newScanner(t, modelType)
	run := runWith(true, map[string][]any{
		"ParseInputs": {&ParsedInput{Name: "A", Model: &SemanticModel{}}},
	})

	violations, err := s.AnalyzeRun(context.Background(), run)

	require.NoError(t, err)
	assert.Equal(t, []domain.Violation{
		{Step: "ParseInputs", Type: modelType, Path: "Model"},
	}, violations)
}

func TestAnalyzeRun_TrackingDisabled(t *testing.T) {
	s := newScanner(t, modelType)

	_, err := s.AnalyzeRun(context.Background(), runWith(false, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTrackingDisabled))

	_, err = s.AnalyzeRun(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrTrackingDisabled))
}

func TestAnalyze_TypeNameInStringIsNotAViolation(t *testing.T) {
	s := newScanner(t, modelType)

	got := s.Analyze("ParseInputs", &Summary{Name: "retains " + modelType})

	assert.Empty(t, got)
}

func TestAnalyze_PrimitiveSummaryRemovesViolation(t *testing.T) {
	s := newScanner(t, modelType)

	retaining := &ParsedInput{Name: "A", Model: &SemanticModel{}}
	summarized := &Summary{Name: "A", LineCount: 3}

	assert.NotEmpty(t, s.Analyze("ParseInputs", retaining))
	assert.Empty(t, s.Analyze("ParseInputs", summarized))
}

func TestAnalyze_DoesNotDescendIntoForbiddenValue(t *testing.T) {
	s := newScanner(t, modelType, "*scanner_test.SyntaxTree")

	got := s.Analyze("Step", &ParsedInput{Model: &SemanticModel{Tree: &SyntaxTree{}}})

	assert.Equal(t, []domain.Violation{{Step: "Step", Type: modelType, Path: "Model"}}, got)
}

func TestAnalyze_NilHandleIsNotAViolation(t *testing.T) {
	s := newScanner(t, modelType)

	assert.Empty(t, s.Analyze("Step", &ParsedInput{Name: "A"}))
	assert.Empty(t, s.Analyze("Step", nil))
}

func TestAnalyze_CyclicGraphTerminates(t *testing.T) {
	s := newScanner(t, modelType)
	a := &Node{Label: "a"}
	b := &Node{Label: "b", Model: &SemanticModel{}}
	a.Next = b
	b.Next = a

	got := s.Analyze("Step", a)

	assert.Equal(t, []domain.Violation{{Step: "Step", Type: modelType, Path: "Next.Model"}}, got)
}

func TestAnalyze_SharedHandleReportedOnce(t *testing.T) {
	s := newScanner(t, modelType)
	shared := &SemanticModel{}
	value := struct {
		First  *SemanticModel
		Second *SemanticModel
	}{First: shared, Second: shared}

	got := s.Analyze("Step", value)

	assert.Equal(t, []domain.Violation{{Step: "Step", Type: modelType, Path: "First"}}, got)
}

func TestAnalyze_DistinctHandlesReportedSeparately(t *testing.T) {
	s := newScanner(t, modelType)
	value := []*SemanticModel{{}, {}}

	got := s.Analyze("Step", value)

	assert.Equal(t, []domain.Violation{
		{Step: "Step", Type: modelType, Path: "[0]"},
		{Step: "Step", Type: modelType, Path: "[1]"},
	}, got)
}

func TestAnalyze_CollectionPaths(t *testing.T) {
	s := newScanner(t, modelType)
	value := struct {
		Items []any
		Index map[string]*SemanticModel
		Fixed [2]*Node
	}{
		Items: []any{"plain", 3, &SemanticModel{}},
		Index: map[string]*SemanticModel{"b": {}, "a": nil},
		Fixed: [2]*Node{nil, {Model: &SemanticModel{}}},
	}

	got := s.Analyze("Step", value)

	assert.Equal(t, []domain.Violation{
		{Step: "Step", Type: modelType, Path: "Fixed[1].Model"},
		{Step: "Step", Type: modelType, Path: `Index["b"]`},
		{Step: "Step", Type: modelType, Path: "Items[2]"},
	}, got)
}

func TestAnalyze_UnexportedFieldIsScanned(t *testing.T) {
	s := newScanner(t, modelType)

	got := s.Analyze("ParseInputs", hiddenInput{Name: "a", model: &SemanticModel{}})

	assert.Equal(t, []domain.Violation{{Step: "ParseInputs", Type: modelType, Path: "model"}}, got)
	assert.Empty(t, s.Analyze("ParseInputs", hiddenInput{Name: "a"}))
}

func TestAnalyze_MapKeysAreScanned(t *testing.T) {
	s := newScanner(t, modelType)
	value := struct {
		Index map[*SemanticModel]int
		Names map[string]int
	}{
		Index: map[*SemanticModel]int{{}: 1},
		Names: map[string]int{"a": 1},
	}

	got := s.Analyze("ParseInputs", value)

	require.Len(t, got, 1)
	assert.Equal(t, "ParseInputs", got[0].Step)
	assert.Equal(t, modelType, got[0].Type)
	assert.True(t, strings.HasPrefix(got[0].Path, "Index[key "), "unexpected path %q", got[0].Path)
}

func TestAnalyze_SafeTypesAreLeaves(t *testing.T) {
	cfg := domain.AnalysisConfig{
		ForbiddenTypes: []string{modelType},
		SafeTypes:      []string{"*scanner_test.ParsedInput"},
	}
	s := scanner.New(cfg, nil)

	assert.Empty(t, s.Analyze("Step", &ParsedInput{Model: &SemanticModel{}}))
}

func TestAnalyze_TraversableAndTypedValues(t *testing.T) {
	s := newScanner(t, "*host.Session")
	session := &foreignObject{id: "7", typeName: "*host.Session"}
	root := &foreignObject{
		id:       "1",
		typeName: "Generator.State",
		children: []domain.Child{
			{Label: "Session", Value: session},
			{Label: "Items", Value: &foreignObject{
				id:       "2",
				typeName: "List",
				children: []domain.Child{
					{Label: "[0]", Value: "text"},
					// Same injected identity as session: visited once.
					{Label: "[1]", Value: &foreignObject{id: "7", typeName: "*host.Session"}},
				},
			}},
		},
	}

	got := s.Analyze("Step", root)

	assert.Equal(t, []domain.Violation{{Step: "Step", Type: "*host.Session", Path: "Session"}}, got)
}

func TestAnalyze_UnreadableMembersAreSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(2)

	s := scanner.New(domain.AnalysisConfig{ForbiddenTypes: []string{modelType}}, logger)
	value := struct {
		Broken   *foreignObject
		Panics   panickingObject
		Retained *SemanticModel
	}{
		Broken:   &foreignObject{id: "x", typeName: "Broken", err: errors.New("detached")},
		Retained: &SemanticModel{},
	}

	got := s.Analyze("Step", value)

	assert.Equal(t, []domain.Violation{{Step: "Step", Type: modelType, Path: "Retained"}}, got)
}

func TestAnalyzeRun_MultipleOutputsArePrefixed(t *testing.T) {
	s := newScanner(t, modelType)
	run := &domain.RunResult{
		Tracking: true,
		Groups: []domain.OutputGroup{{
			Steps: map[string][]domain.StepRecord{
				"Combine": {{
					Step: domain.NewInternedString("Combine"),
					Outputs: []domain.StepOutput{
						{Key: "left", Value: &Summary{}},
						{Key: "right", Value: &ParsedInput{Model: &SemanticModel{}}},
					},
				}},
			},
		}},
	}

	got, err := s.AnalyzeRun(context.Background(), run)

	require.NoError(t, err)
	assert.Equal(t, []domain.Violation{{Step: "Combine", Type: modelType, Path: "[1].Model"}}, got)
}

func TestAnalyzeRun_SharedAcrossRecordsOfOneStep(t *testing.T) {
	s := newScanner(t, modelType)
	shared := &SemanticModel{}
	run := runWith(true, map[string][]any{
		"Parse": {&ParsedInput{Model: shared}, &ParsedInput{Model: shared}},
		"Bind":  {&ParsedInput{Model: shared}},
	})

	got, err := s.AnalyzeRun(context.Background(), run)

	require.NoError(t, err)
	assert.Equal(t, []domain.Violation{
		{Step: "Bind", Type: modelType, Path: "Model"},
		{Step: "Parse", Type: modelType, Path: "Model"},
	}, got)
}

func TestAnalyzeRun_DeterministicAcrossParallelism(t *testing.T) {
	outputs := make(map[string][]any)
	for i := range 40 {
		name := fmt.Sprintf("Step%02d", i)
		if i%3 == 0 {
			outputs[name] = []any{&ParsedInput{Model: &SemanticModel{}}}
		} else {
			outputs[name] = []any{&Summary{Name: name}}
		}
	}
	run := runWith(true, outputs)

	serial := scanner.New(domain.AnalysisConfig{ForbiddenTypes: []string{modelType}, Parallelism: 1}, nil)
	parallel := scanner.New(domain.AnalysisConfig{ForbiddenTypes: []string{modelType}, Parallelism: 8}, nil)

	want, err := serial.AnalyzeRun(context.Background(), run)
	require.NoError(t, err)
	got, err := parallel.AnalyzeRun(context.Background(), run)
	require.NoError(t, err)

	assert.Len(t, got, 14)
	assert.Equal(t, want, got)
}

func TestAnalyzeRun_CancelledContext(t *testing.T) {
	s := newScanner(t, modelType)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AnalyzeRun(ctx, runWith(true, map[string][]any{"Parse": {&Summary{}}}))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
