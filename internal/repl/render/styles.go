// Package render draws the interactive prompt for the REPL.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI colours used by the prompt.
const (
	ColorGreen  = lipgloss.Color("10") // Prompt frame
	ColorYellow = lipgloss.Color("11") // User name
	ColorBlue   = lipgloss.Color("12") // Working directory
)

// PromptStyles holds the styles for each part of the prompt.
type PromptStyles struct {
	Frame lipgloss.Style
	User  lipgloss.Style
	Dir   lipgloss.Style
}

// NewPromptStyles creates styles bound to w. When color is false, or w is
// not a terminal, the styles render plain text.
func NewPromptStyles(w io.Writer, color bool) PromptStyles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return PromptStyles{
		Frame: r.NewStyle().Bold(true).Foreground(ColorGreen),
		User:  r.NewStyle().Bold(true).Foreground(ColorYellow),
		Dir:   r.NewStyle().Bold(true).Foreground(ColorBlue),
	}
}
