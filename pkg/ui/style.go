package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var stdout io.Writer = os.Stdout

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ForceANSI pins the colour profile so styles survive output that is not
// detected as a terminal (for example /dev/tty opened write-only).
func ForceANSI() {
	_ = os.Setenv("CLICOLOR_FORCE", "1")
	lipgloss.SetColorProfile(termenv.ANSI)
}

// Preview frames message between rules of the given width for the
// confirmation step.
func Preview(message string, width int) string {
	rule := ruleStyle.Render(strings.Repeat("=", max(width, 1)))
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(titleStyle.Render("COMMIT MESSAGE") + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(message + "\n\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// RenderMarkdown renders text for the terminal, falling back to the plain
// text when no renderer can be built.
func RenderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
