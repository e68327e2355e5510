package tracefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/adapters/tracefile"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/engine/scanner"
)

const trace = `
id: run-1
tracking: true
groups:
  - name: Generator
    steps:
      - step: ParseInputs
        reason: new
        elapsedMs: 12
        outputs:
          - key: a.txt
            value:
              $type: Generator.Parsed
              Name: A
              Model: &model
                $type: "*host.SemanticModel"
                $id: "42"
      - step: Bind
        reason: Cached
        inputs:
          - {step: ParseInputs, key: a.txt}
        outputs:
          - key: bound
            value:
              First: *model
              Lines: [1, two, null]
      - step: ParseInputs
        reason: Modified
        outputs:
          - key: b.txt
            value: plain
    artifacts:
      - {name: Parsed.g.cs, content: "class P {}"}
    diagnostics:
      - {step: Bind, severity: warning, message: slow}
      - {message: note}
`

func TestParse_Structure(t *testing.T) {
	run, err := tracefile.NewDecoder().Parse([]byte(trace))
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.True(t, run.Tracking)
	require.Len(t, run.Groups, 1)

	g := run.Groups[0]
	assert.Equal(t, "Generator", g.Name)
	assert.Equal(t, []string{"ParseInputs", "Bind"}, g.StepOrder)
	require.Len(t, g.Steps["ParseInputs"], 2)
	assert.Equal(t, domain.ReasonNew, g.Steps["ParseInputs"][0].Reason)
	assert.Equal(t, domain.ReasonModified, g.Steps["ParseInputs"][1].Reason)
	assert.Equal(t, "plain", g.Steps["ParseInputs"][1].Outputs[0].Value)
	assert.Equal(t, int64(12), g.Steps["ParseInputs"][0].Elapsed.Milliseconds())
	assert.Equal(t, []domain.StepInput{{Step: domain.NewInternedString("ParseInputs"), Key: "a.txt"}},
		g.Steps["Bind"][0].Inputs)

	assert.Equal(t, []domain.Artifact{{Name: "Parsed.g.cs", Content: "class P {}"}}, g.Artifacts)
	assert.Equal(t, []domain.Diagnostic{
		{Step: "Bind", Severity: domain.SeverityWarning, Message: "slow"},
		{Severity: domain.SeverityInfo, Message: "note"},
	}, g.Diagnostics)
}

func TestParse_TypedObjectsAndAliases(t *testing.T) {
	run, err := tracefile.NewDecoder().Parse([]byte(trace))
	require.NoError(t, err)
	g := run.Groups[0]

	parsed, ok := g.Steps["ParseInputs"][0].Outputs[0].Value.(*tracefile.Object)
	require.True(t, ok)
	assert.Equal(t, "Generator.Parsed", parsed.TypeName())
	assert.Empty(t, parsed.NodeID())

	children, err := parsed.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Name", children[0].Label)
	assert.Equal(t, "A", children[0].Value)

	model := children[1].Value.(*tracefile.Object)
	assert.Equal(t, "*host.SemanticModel", model.TypeName())
	assert.Equal(t, "42", model.NodeID())

	bound := g.Steps["Bind"][0].Outputs[0].Value.(*tracefile.Object)
	assert.Equal(t, tracefile.ObjectType, bound.TypeName())
	boundChildren, _ := bound.Children()
	assert.Same(t, model, boundChildren[0].Value)

	lines := boundChildren[1].Value.(*tracefile.Object)
	assert.Equal(t, tracefile.ArrayType, lines.TypeName())
	items, _ := lines.Children()
	assert.Equal(t, []domain.Child{{Label: "[0]", Value: 1}, {Label: "[1]", Value: "two"}, {Label: "[2]", Value: nil}}, items)
}

func TestParse_ScannerFindsRecordedHandles(t *testing.T) {
	run, err := tracefile.NewDecoder().Parse([]byte(trace))
	require.NoError(t, err)

	cfg := domain.DefaultAnalysisConfig()
	violations, err := scanner.New(cfg, nil).AnalyzeRun(t.Context(), run)
	require.NoError(t, err)

	assert.Equal(t, []domain.Violation{
		{Step: "Bind", Type: "*host.SemanticModel", Path: "First"},
		{Step: "ParseInputs", Type: "*host.SemanticModel", Path: "Model"},
	}, violations)
}

func TestParse_Defaults(t *testing.T) {
	run, err := tracefile.NewDecoder().Parse([]byte(`groups: [{name: g}]`))
	require.NoError(t, err)

	assert.True(t, run.Tracking)
	assert.Nil(t, run.Groups[0].Steps)

	run, err = tracefile.NewDecoder().Parse([]byte(`{"tracking": false, "groups": []}`))
	require.NoError(t, err)
	assert.False(t, run.Tracking)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "Invalid YAML", content: "groups: [", wantErr: "failed to parse trace"},
		{name: "Unknown Reason", content: "groups: [{steps: [{step: A, reason: Skipped}]}]", wantErr: domain.ErrUnknownReuseReason.Error()},
		{name: "Missing Step Name", content: "groups: [{steps: [{reason: New}]}]", wantErr: "record has no step name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracefile.NewDecoder().Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecode_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(trace), 0o600))

	run, err := tracefile.NewDecoder().Decode(path)
	require.NoError(t, err)
	assert.Len(t, run.Groups, 1)

	_, err = tracefile.NewDecoder().Decode(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read trace file")
}
