package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Printer)(nil)

// Printer is a progrock.Writer that prints one line per finished vertex.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	cached map[string]bool
	done   map[string]bool
}

// NewPrinter creates a new Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		cached: make(map[string]bool),
		done:   make(map[string]bool),
	}
}

// WriteStatus prints vertices completed by update.
func (p *Printer) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Cached {
			p.cached[v.Id] = true
		}
		if v.Completed == nil || p.done[v.Id] {
			continue
		}
		p.done[v.Id] = true

		var line string
		switch {
		case v.Error != nil:
			line = fmt.Sprintf("✗ %s: %s", v.Name, *v.Error)
		case p.cached[v.Id]:
			line = fmt.Sprintf("⚡ %s (cached)", v.Name)
		default:
			line = fmt.Sprintf("✓ %s", v.Name)
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (p *Printer) Close() error {
	return nil
}
