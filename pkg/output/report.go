package output

import (
	"io"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/types"
)

// Formats accepted by New
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Report is an output sink that also frames a whole run
type Report interface {
	types.Output
	Start(simulate bool)
	RuleStart(nr int, name string)
	Summary(success, errors int)
}

// New returns the report sink for format writing to w
func New(format string, w io.Writer, noColor bool) (Report, error) {
	switch format {
	case "", FormatConsole:
		return NewConsole(w, noColor), nil
	case FormatJSON:
		return NewJSON(w), nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
}
