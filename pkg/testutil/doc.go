// Package testutil provides utilities for testing dosort components.
//
// Key components:
//   - NewTestFS: in-memory filesystem backed by afero
//   - WriteFiles / MkdirAll: declarative setup of test trees
//   - StubFilter / StubAction: scriptable filters and actions with call logs
//   - SilenceLogs: quiets zerolog for a test binary
//
// All test data should be defined inline, not in external files.
package testutil
