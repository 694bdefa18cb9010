// Package ui renders the terminal feedback of the client: transient banners
// and the upload progress bar.
package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dpsmushkipur/bine/internal/upload"
)

// Banner shows one transient message at a time. A new message replaces the
// current one; each is dismissed after the TTL.
type Banner struct {
	mu      sync.Mutex
	out     io.Writer
	ttl     time.Duration
	styles  map[upload.Level]lipgloss.Style
	current upload.Notice
	shown   bool
	seq     uint64
	timer   *time.Timer
}

func NewBanner(out io.Writer, ttl time.Duration, theme upload.Theme) *Banner {
	d := upload.DefaultTheme()
	pick := func(c, def string) lipgloss.Color {
		if c == "" {
			c = def
		}
		return lipgloss.Color(c)
	}

	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return &Banner{
		out: out,
		ttl: ttl,
		styles: map[upload.Level]lipgloss.Style{
			upload.LevelInfo:    base.Foreground(pick(theme.Info, d.Info)),
			upload.LevelSuccess: base.Foreground(pick(theme.Success, d.Success)),
			upload.LevelError:   base.Foreground(pick(theme.Error, d.Error)),
		},
	}
}

func (b *Banner) Render(n upload.Notice) string {
	return b.styles[n.Level].Render(prefix(n.Level) + n.Text)
}

func prefix(l upload.Level) string {
	switch l {
	case upload.LevelSuccess:
		return "✓ "
	case upload.LevelError:
		return "✗ "
	}
	return "• "
}

// Notify prints n and makes it the current banner.
func (b *Banner) Notify(n upload.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current, b.shown = n, true
	b.seq++
	seq := b.seq

	if b.timer != nil {
		b.timer.Stop()
	}
	if b.ttl > 0 {
		b.timer = time.AfterFunc(b.ttl, func() { b.expire(seq) })
	}

	if b.out != nil {
		fmt.Fprintln(b.out, b.Render(n))
	}
}

func (b *Banner) Info(text string)    { b.Notify(upload.Notice{Level: upload.LevelInfo, Text: text}) }
func (b *Banner) Success(text string) { b.Notify(upload.Notice{Level: upload.LevelSuccess, Text: text}) }
func (b *Banner) Error(text string)   { b.Notify(upload.Notice{Level: upload.LevelError, Text: text}) }

func (b *Banner) expire(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq == seq {
		b.shown = false
	}
}

// showing returns the banner still on screen, if any.
func (b *Banner) showing() (upload.Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.shown
}

// Dismiss hides the current banner and stops its expiry timer.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.shown = false
}
