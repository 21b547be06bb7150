package tui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// It returns nil when glamour cannot be initialized, so callers fall back to plain text.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}
	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}
}

// SystemStyle dims system messages on color terminals.
func SystemStyle(w io.Writer) func(string) string {
	out := termenv.NewOutput(w)
	return func(s string) string {
		return out.String(s).Foreground(out.Color("#fbbf24")).String()
	}
}

// RenderReport renders the Markdown form of a report for terminal display.
func RenderReport(markdown string) string {
	render := NewRenderer()
	if render == nil {
		return markdown
	}
	out, err := render(markdown)
	if err != nil {
		return markdown
	}
	return out + "\n"
}
