// Package walker lists the files or directories below a location, breadth
// first and lazily, so rules can act on entries while the scan is running.
package walker

import (
	"iter"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/gobwas/glob"
)

// Entries excluded from every scan unless a location overrides them
var (
	DefaultSystemExcludeFiles = []string{"thumbs.db", "desktop.ini", "~$*", ".DS_Store", ".localized"}
	DefaultSystemExcludeDirs  = []string{".git", ".svn"}
)

// Walker lists entries below a root. Depth 0 are the direct children of the
// root. Patterns are globs matched against base names.
type Walker struct {
	FS types.FS

	MinDepth int
	// MaxDepth limits descent; a negative value means unlimited
	MaxDepth int

	ExcludeFiles []string
	ExcludeDirs  []string

	// FilterFiles and FilterDirs, when set, keep only matching entries.
	// FilterDirs also limits which directories are descended into.
	FilterFiles []string
	FilterDirs  []string

	// IgnoreErrors drops read errors instead of yielding them
	IgnoreErrors bool
}

// New returns a walker over fsys with unlimited depth
func New(fsys types.FS) *Walker {
	return &Walker{FS: fsys, MaxDepth: -1}
}

// Files yields the files below root
func (w *Walker) Files(root string) iter.Seq2[string, error] {
	return w.walk(root, false)
}

// Dirs yields the directories below root, excluding root itself
func (w *Walker) Dirs(root string) iter.Seq2[string, error] {
	return w.walk(root, true)
}

type queued struct {
	path  string
	depth int
}

func (w *Walker) walk(root string, dirs bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := logging.GetLogger("walker")
		root = filepath.Clean(root)

		m, err := w.compile()
		if err != nil {
			yield("", err)
			return
		}

		info, err := w.FS.Stat(root)
		if err != nil || !info.IsDir() {
			if err == nil {
				err = errors.Newf(errors.ErrInvalidInput, "location %s is not a directory", root)
			} else {
				err = errors.Wrapf(err, errors.ErrFileNotFound, "cannot read location %s", root)
			}
			if !w.IgnoreErrors {
				yield("", err)
			}
			return
		}

		queue := []queued{{path: root, depth: 0}}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			entries, err := w.FS.ReadDir(current.path)
			if err != nil {
				// Directories consumed by an earlier action vanish mid-scan.
				if os.IsNotExist(err) {
					logger.Trace().Str("dir", current.path).Msg("Directory vanished, skipping")
					continue
				}
				if w.IgnoreErrors {
					logger.Debug().Err(err).Str("dir", current.path).Msg("Ignoring unreadable directory")
					continue
				}
				if !yield("", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", current.path)) {
					return
				}
				continue
			}

			for _, entry := range entries {
				name := entry.Name()
				path := filepath.Join(current.path, name)

				if !entry.IsDir() {
					if dirs || current.depth < w.MinDepth {
						continue
					}
					if matchAny(m.excludeFiles, name) || !matchFilter(m.filterFiles, name) {
						continue
					}
					if !yield(path, nil) {
						return
					}
					continue
				}

				if matchAny(m.excludeDirs, name) || !matchFilter(m.filterDirs, name) {
					continue
				}
				if dirs && current.depth >= w.MinDepth {
					if !yield(path, nil) {
						return
					}
				}
				if w.MaxDepth < 0 || current.depth < w.MaxDepth {
					queue = append(queue, queued{path: path, depth: current.depth + 1})
				}
			}
		}
	}
}

// matchers are the compiled patterns of one walk
type matchers struct {
	excludeFiles, excludeDirs []glob.Glob
	filterFiles, filterDirs   []glob.Glob
}

func (w *Walker) compile() (*matchers, error) {
	var m matchers
	var err error
	if m.excludeFiles, err = CompilePatterns(w.ExcludeFiles); err != nil {
		return nil, err
	}
	if m.excludeDirs, err = CompilePatterns(w.ExcludeDirs); err != nil {
		return nil, err
	}
	if m.filterFiles, err = CompilePatterns(w.FilterFiles); err != nil {
		return nil, err
	}
	if m.filterDirs, err = CompilePatterns(w.FilterDirs); err != nil {
		return nil, err
	}
	return &m, nil
}

// CompilePatterns compiles base name globs. Besides * ? and [..] classes,
// {a,b} alternatives are supported.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func matchFilter(globs []glob.Glob, name string) bool {
	return len(globs) == 0 || matchAny(globs, name)
}
