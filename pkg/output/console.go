package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

const standaloneHeader = "(standalone)"

// Console writes a human readable report. Messages are grouped under a header
// naming the resource they belong to, so consecutive messages about the same
// path are printed once.
type Console struct {
	w      io.Writer
	styles styles

	lastRule int
	lastPath string
	started  bool
}

// NewConsole creates a console sink writing to w
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{
		w:        w,
		styles:   newStyles(newRenderer(w, UseColor(w, noColor))),
		lastRule: -1,
	}
}

// Start prints the run banner
func (c *Console) Start(simulate bool) {
	if simulate {
		fmt.Fprintln(c.w, c.styles.Simulate.Render("SIMULATION (no files are changed)"))
	}
}

// RuleStart prints the header for rule nr
func (c *Console) RuleStart(nr int, name string) {
	if name == "" {
		name = fmt.Sprintf("Rule #%d", nr)
	}
	if c.started {
		fmt.Fprintln(c.w)
	}
	c.started = true
	c.lastRule = nr
	c.lastPath = ""
	fmt.Fprintln(c.w, c.styles.Rule.Render(name))
}

// Msg implements types.Output
func (c *Console) Msg(res *types.Resource, msg string, level types.Level, sender string) {
	header := standaloneHeader
	if res != nil && res.HasPath() {
		header = res.Path
	}
	if res != nil && res.RuleNr != c.lastRule {
		c.lastRule = res.RuleNr
		c.lastPath = ""
	}
	if header != c.lastPath {
		fmt.Fprintln(c.w, c.styles.Path.Render(header))
		c.lastPath = header
	}

	var b strings.Builder
	b.WriteString("  - ")
	if sender != "" {
		b.WriteString(c.styles.Sender.Render("(" + sender + ")"))
		b.WriteString(" ")
	}
	b.WriteString(c.levelStyle(level).Render(msg))
	fmt.Fprintln(c.w, b.String())
}

// Summary prints the final success and error counts
func (c *Console) Summary(success, errors int) {
	fmt.Fprintln(c.w)
	line := c.styles.Success.Render(fmt.Sprintf("%d success", success))
	if errors > 0 {
		line += ", " + c.styles.Error.Render(fmt.Sprintf("%d errors", errors))
	} else {
		line += ", 0 errors"
	}
	fmt.Fprintln(c.w, line)
}

func (c *Console) levelStyle(level types.Level) lipgloss.Style {
	switch level {
	case types.LevelError:
		return c.styles.Error
	case types.LevelWarn:
		return c.styles.Warn
	default:
		return c.styles.Info
	}
}
