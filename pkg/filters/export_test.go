package filters

import "time"

// SetNow replaces the clock used by time based filters and returns a restore func
func SetNow(fn func() time.Time) func() {
	old := now
	now = fn
	return func() { now = old }
}
