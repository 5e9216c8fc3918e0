package testutil

import "github.com/rs/zerolog"

// SilenceLogs turns off log output for the whole test binary. Call it from
// TestMain in packages whose code logs while under test.
func SilenceLogs() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}
