package types

import (
	"io/fs"
)

// Filter is a named predicate over a Resource. A filter may record what it
// computed in res.Vars under its own name for later filters and actions.
type Filter interface {
	// Config returns the static capability descriptor
	Config() FilterConfig

	// Pipeline reports whether res matches. A returned error means the filter
	// could not decide; callers treat it as a non-match.
	Pipeline(res *Resource, out Output) (bool, error)
}

// Action is a named side-effecting operation over a Resource
type Action interface {
	// Config returns the static capability descriptor
	Config() ActionConfig

	// Pipeline applies the action. Actions must not touch the filesystem
	// when simulate is true, but still update res as if they had.
	Pipeline(res *Resource, out Output, simulate bool) Step
}

// Level is the severity of an output message
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Output receives everything the engine wants to report to the user.
// res may be a standalone resource without a path.
type Output interface {
	Msg(res *Resource, msg string, level Level, sender string)
}

// FS is the filesystem interface required by the walker, filters and actions
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}
