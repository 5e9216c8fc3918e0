// Package output provides the sinks that receive engine messages.
//
// Every sink implements types.Output. Console renders a human readable,
// lipgloss styled report grouped by resource path; JSON emits one object per
// message; Recorder keeps messages in memory for tests and for the check
// command.
package output
