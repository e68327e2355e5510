// Package render writes caching reports for terminals and machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.ReportRenderer = (*Terminal)(nil)
	_ ports.ReportRenderer = (*JSON)(nil)
)

// Terminal renders reports as styled text.
type Terminal struct{}

// NewTerminal creates a new Terminal renderer.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Render writes record to w.
func (t *Terminal) Render(w io.Writer, record *domain.ReportRecord) error {
	if record == nil || record.Report == nil {
		return zerr.New("nothing to render")
	}
	st := newStyles(lipgloss.NewRenderer(w))
	report := record.Report

	var b strings.Builder
	b.WriteString(st.title.Render("CACHING REPORT: "+report.Pipeline) + "\n")
	if !record.Timestamp.IsZero() {
		b.WriteString(st.muted.Render("checked "+record.Timestamp.Format(time.RFC3339)) + "\n")
	}
	if record.FirstRun != "" || record.SecondRun != "" {
		b.WriteString(st.muted.Render(fmt.Sprintf("runs %s, %s", record.FirstRun, record.SecondRun)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(st.header.Render("Steps") + "\n")
	b.WriteString(st.table.Render(stepTable(st, report.ObservableSteps)) + "\n\n")

	if len(report.Violations) > 0 {
		b.WriteString(st.header.Render("Forbidden types") + "\n")
		var lines []string
		for _, v := range report.Violations {
			lines = append(lines, fmt.Sprintf("%s  %s  %s", v.Step, v.Type, displayPath(v.Path)))
		}
		b.WriteString(st.table.Render(strings.Join(lines, "\n")) + "\n\n")
	}

	if !report.ProducedOutput {
		b.WriteString(st.notReused.Render("second run produced no output") + "\n\n")
	}

	if failures := report.Failures(); len(failures) > 0 {
		b.WriteString(st.fail.Render(fmt.Sprintf("FAIL: %d problem(s)", len(failures))) + "\n")
		for _, f := range failures {
			b.WriteString("  - " + f + "\n")
		}
	} else {
		b.WriteString(st.pass.Render("PASS: caching hygiene holds") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stepTable(st styles, steps []domain.StepAnalysis) string {
	if len(steps) == 0 {
		return st.muted.Render("no observable steps")
	}

	width := len("step")
	for _, s := range steps {
		width = max(width, len(s.Name))
	}

	var lines []string
	header := fmt.Sprintf("%-*s", width, "step")
	for _, r := range domain.ReuseReasons {
		header += fmt.Sprintf(" %9s", strings.ToLower(r.String()))
	}
	lines = append(lines, st.muted.Render(header+"   reused"))

	for _, s := range steps {
		line := fmt.Sprintf("%-*s", width, s.Name)
		for _, r := range domain.ReuseReasons {
			line += fmt.Sprintf(" %9d", s.Count(r))
		}
		share := fmt.Sprintf("%7.1f%%", 100*(s.Fraction(domain.ReasonCached)+s.Fraction(domain.ReasonUnchanged)))
		style := st.reused
		if !s.FullyReused() || s.HasForbiddenTypeViolation {
			style = st.notReused
		}
		lines = append(lines, line+" "+style.Render(share))
	}
	return strings.Join(lines, "\n")
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// JSON renders reports as indented JSON.
type JSON struct{}

// NewJSON creates a new JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// Render writes record to w.
func (j *JSON) Render(w io.Writer, record *domain.ReportRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return zerr.Wrap(err, "failed to encode report")
	}
	return nil
}
