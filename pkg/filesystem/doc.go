// Package filesystem provides filesystem implementations for dosort.
//
// NewOS backs rules run against the real disk. NewAferoFS adapts any afero.Fs,
// which the test suites use with an in-memory filesystem.
package filesystem
