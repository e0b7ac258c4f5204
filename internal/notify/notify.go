package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Sink surfaces transient human-readable outcomes to the user. Calls are
// fire-and-forget: stores write to a Sink as a side effect and never read
// anything back, so a Sink must not fail.
type Sink interface {
	Success(text string)
	Error(text string)
}

var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// Terminal renders styled one-line notifications to a writer.
type Terminal struct {
	Out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{Out: out}
}

func (t *Terminal) Success(text string) {
	fmt.Fprintln(t.Out, successStyle.Render("✔ "+text))
}

func (t *Terminal) Error(text string) {
	fmt.Fprintln(t.Out, errorStyle.Render("✖ "+text))
}

// Capture records notifications in order. Used by tests and by embedders
// that render notifications themselves.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is a single captured notification.
type Entry struct {
	Kind string // "success" or "error"
	Text string
}

func (c *Capture) Success(text string) { c.add("success", text) }
func (c *Capture) Error(text string)   { c.add("error", text) }

func (c *Capture) add(kind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Kind: kind, Text: text})
}

// Entries returns a copy of everything captured so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
