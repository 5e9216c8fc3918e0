package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics for the terminal. Content in any
// other format, or content glamour fails on, is returned unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name or style file; "auto" or empty picks
	// dark or light from the terminal background
	Style string
	// Width wraps lines at this column; 0 keeps glamour's default
	Width int

	once sync.Once
	term *glamour.TermRenderer
}

// NewGlamourRenderer creates a markdown renderer with automatic style
// detection
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	r.once.Do(r.setup)
	if r.term == nil {
		return content
	}
	rendered, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func (r *GlamourRenderer) setup() {
	options := []glamour.TermRendererOption{glamour.WithEmoji()}
	if r.Style == "" || r.Style == "auto" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	term, err := glamour.NewTermRenderer(options...)
	if err == nil {
		r.term = term
	}
}
