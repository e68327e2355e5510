package render

import "github.com/charmbracelet/lipgloss"

var (
	// Private brand colors.
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")
	colorGreen = lipgloss.Color("42")
	colorRed   = lipgloss.Color("196")
)

// styles are bound to the renderer of one output, so color support follows
// that output rather than the process's stdout.
type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	muted     lipgloss.Style
	reused    lipgloss.Style
	notReused lipgloss.Style
	pass      lipgloss.Style
	fail      lipgloss.Style
	table     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite),
		header: r.NewStyle().
			Foreground(colorIris).
			Bold(true),
		muted: r.NewStyle().
			Foreground(colorSlate).
			Faint(true),
		reused: r.NewStyle().
			Foreground(colorGreen),
		notReused: r.NewStyle().
			Foreground(colorRed),
		pass: r.NewStyle().
			Foreground(colorGreen).
			Bold(true),
		fail: r.NewStyle().
			Foreground(colorRed).
			Bold(true),
		table: r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorSlate).
			PaddingLeft(1),
	}
}
