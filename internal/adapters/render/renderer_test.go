package render_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reuse/internal/adapters/render"
	"go.trai.ch/reuse/internal/core/domain"
)

func passing() *domain.ReportRecord {
	return &domain.ReportRecord{
		Pipeline:  "demo",
		FirstRun:  "r1",
		SecondRun: "r2",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Report: &domain.CachingReport{
			Pipeline:        "demo",
			ObservableSteps: []domain.StepAnalysis{{Name: "ParseInputs", Cached: 2}},
			Violations:      []domain.Violation{},
			ProducedOutput:  true,
		},
	}
}

func TestTerminal_Passing(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, render.NewTerminal().Render(&buf, passing()))

	out := buf.String()
	assert.Contains(t, out, "CACHING REPORT: demo")
	assert.Contains(t, out, "checked 2026-01-02T03:04:05Z")
	assert.Contains(t, out, "runs r1, r2")
	assert.Contains(t, out, "ParseInputs")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "PASS: caching hygiene holds")
	assert.NotContains(t, out, "Forbidden types")
}

func TestTerminal_Failing(t *testing.T) {
	record := passing()
	record.Report.ObservableSteps = []domain.StepAnalysis{
		{Name: "Bind", Cached: 1, Modified: 1},
		{Name: "ParseInputs", Cached: 1, HasForbiddenTypeViolation: true},
	}
	record.Report.Violations = []domain.Violation{{Step: "ParseInputs", Type: "*host.Session", Path: ""}}
	record.Report.ProducedOutput = false
	var buf bytes.Buffer

	require.NoError(t, render.NewTerminal().Render(&buf, record))

	out := buf.String()
	assert.Contains(t, out, "Forbidden types")
	assert.Contains(t, out, "ParseInputs  *host.Session  <root>")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "second run produced no output")
	assert.Contains(t, out, "FAIL: 3 problem(s)")
	assert.Contains(t, out, `  - step "Bind" reused 1 of 2 results`)
}

func TestTerminal_NothingToRender(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, render.NewTerminal().Render(&buf, nil))
	assert.Error(t, render.NewTerminal().Render(&buf, &domain.ReportRecord{}))
}

func TestJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewJSON().Render(&buf, passing()))

	var got domain.ReportRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, passing().Report, got.Report)
	assert.Contains(t, buf.String(), "\n  \"pipeline\": \"demo\"")
}
