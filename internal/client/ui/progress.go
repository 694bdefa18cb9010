package ui

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar draws upload progress on a single terminal line.
type ProgressBar struct {
	mu    sync.Mutex
	out   io.Writer
	label string
	model progress.Model
	last  int
}

func NewProgressBar(out io.Writer, label, color string, width int) *ProgressBar {
	opts := []progress.Option{progress.WithWidth(width)}
	if color != "" {
		opts = append(opts, progress.WithSolidFill(color))
	}
	return &ProgressBar{out: out, label: label, model: progress.New(opts...), last: -1}
}

// View renders fraction f, clamped to [0,1].
func (p *ProgressBar) View(f float64) string {
	return p.model.ViewAs(clamp(f))
}

// Set redraws the bar when the whole percentage changes.
func (p *ProgressBar) Set(f float64) {
	f = clamp(f)
	pct := int(math.Floor(f * 100))

	p.mu.Lock()
	defer p.mu.Unlock()
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.out, "\r%s %s", p.label, p.model.ViewAs(f))
}

// Done ends the line if anything was drawn and resets the bar.
func (p *ProgressBar) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last >= 0 {
		fmt.Fprintln(p.out)
	}
	p.last = -1
}

func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
