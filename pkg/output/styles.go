package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Adaptive colors adjust to light and dark terminal themes
var (
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#9E9E9E"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}
	colorError   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

// styles holds the semantic styles bound to one renderer
type styles struct {
	Rule     lipgloss.Style
	Simulate lipgloss.Style
	Path     lipgloss.Style
	Sender   lipgloss.Style
	Info     lipgloss.Style
	Warn     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Rule:     r.NewStyle().Bold(true).Underline(true),
		Simulate: r.NewStyle().Bold(true).Foreground(colorWarning),
		Path:     r.NewStyle().Bold(true).Foreground(colorAccent),
		Sender:   r.NewStyle().Foreground(colorMuted),
		Info:     r.NewStyle(),
		Warn:     r.NewStyle().Foreground(colorWarning),
		Error:    r.NewStyle().Bold(true).Foreground(colorError),
		Success:  r.NewStyle().Foreground(colorSuccess),
	}
}

// UseColor reports whether styled output should be written to w
func UseColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newRenderer creates a lipgloss renderer for w, forcing plain ASCII output
// when color is disabled.
func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
