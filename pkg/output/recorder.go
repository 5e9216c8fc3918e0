package output

import (
	"strings"

	"github.com/arthur-debert/dosort/pkg/types"
)

// Message is one recorded output message
type Message struct {
	Path   string
	RuleNr int
	Msg    string
	Level  types.Level
	Sender string
}

// Recorder keeps every message in memory
type Recorder struct {
	messages []Message
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Msg implements types.Output
func (r *Recorder) Msg(res *types.Resource, msg string, level types.Level, sender string) {
	m := Message{Msg: msg, Level: level, Sender: sender}
	if res != nil {
		m.Path = res.Path
		m.RuleNr = res.RuleNr
	}
	r.messages = append(r.messages, m)
}

// Messages returns all recorded messages in order
func (r *Recorder) Messages() []Message {
	return r.messages
}

// ByLevel returns the messages recorded at level
func (r *Recorder) ByLevel(level types.Level) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Level == level {
			out = append(out, m)
		}
	}
	return out
}

// Contains reports whether any message text contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, m := range r.messages {
		if strings.Contains(m.Msg, substr) {
			return true
		}
	}
	return false
}

// Reset drops all recorded messages
func (r *Recorder) Reset() {
	r.messages = nil
}
