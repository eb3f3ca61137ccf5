package styles

import (
	"io"

	"github.com/muesli/termenv"
)

// Palette colours diagnostic text for a single output stream. Colour is
// dropped when the stream is not a terminal.
type Palette struct {
	output *termenv.Output
}

func NewPalette(w io.Writer) *Palette {
	return &Palette{output: termenv.NewOutput(w)}
}

func (p *Palette) Error(s string) string {
	return p.output.String(s).
		Foreground(p.output.Color("9")).
		String()
}

func (p *Palette) Warning(s string) string {
	return p.output.String(s).
		Foreground(p.output.Color("11")).
		String()
}
