package output

import (
	"io"

	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/rs/zerolog"
)

// JSON writes one JSON object per message. It uses its own zerolog logger
// with level-less events so the global log level never filters report lines.
type JSON struct {
	logger zerolog.Logger
}

// NewJSON creates a JSON sink writing to w
func NewJSON(w io.Writer) *JSON {
	return &JSON{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// Start emits the run marker event
func (j *JSON) Start(simulate bool) {
	j.logger.Log().
		Str("event", "start").
		Bool("simulate", simulate).
		Send()
}

// RuleStart emits a rule marker event
func (j *JSON) RuleStart(nr int, name string) {
	j.logger.Log().
		Str("event", "rule").
		Int("rule", nr).
		Str("name", name).
		Send()
}

// Msg implements types.Output
func (j *JSON) Msg(res *types.Resource, msg string, level types.Level, sender string) {
	event := j.logger.Log().
		Str("event", "message").
		Str("level", string(level)).
		Str("sender", sender)
	if res != nil {
		event = event.Int("rule", res.RuleNr)
		if res.HasPath() {
			event = event.Str("path", res.Path)
		}
	}
	event.Msg(msg)
}

// Summary emits the final counts
func (j *JSON) Summary(success, errors int) {
	j.logger.Log().
		Str("event", "summary").
		Int("success", success).
		Int("errors", errors).
		Send()
}
