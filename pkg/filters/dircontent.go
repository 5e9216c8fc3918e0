package filters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const DirContentFilterName = "dircontent"

// Directory content modes
const (
	DirContentOnlyFiles = "only_files"
	DirContentOnlyDirs  = "only_dirs"
	DirContentEmpty     = "empty"
	DirContentNotEmpty  = "not_empty"
	DirContentFileDirs  = "file_dirs"
)

// DirContentFilter matches directories by what they contain. In file_dirs
// mode a directory matches when it holds both files and subdirectories; with
// BaseFileDirs only the outermost such directory seen so far matches.
type DirContentFilter struct {
	Mode         string `mapstructure:"mode"`
	BaseFileDirs bool   `mapstructure:"base_file_dirs"`

	baseDirs baseDirSet
}

// NewDirContentFilter validates the mode of f and returns it
func NewDirContentFilter(f DirContentFilter) (*DirContentFilter, error) {
	if f.Mode == "" {
		f.Mode = DirContentFileDirs
	}
	switch f.Mode {
	case DirContentOnlyFiles, DirContentOnlyDirs, DirContentEmpty, DirContentNotEmpty, DirContentFileDirs:
	default:
		return nil, fmt.Errorf("unknown dircontent mode %q", f.Mode)
	}
	return &f, nil
}

func (f *DirContentFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: DirContentFilterName, Files: false, Dirs: true}
}

func (f *DirContentFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", DirContentFilterName)
	}
	entries, err := res.FS.ReadDir(res.Path)
	if err != nil {
		return false, err
	}
	res.Vars.Set(DirContentFilterName, f.Mode)

	switch f.Mode {
	case DirContentEmpty:
		return len(entries) == 0, nil
	case DirContentNotEmpty:
		return len(entries) > 0, nil
	case DirContentOnlyFiles:
		for _, e := range entries {
			if !e.Type().IsRegular() {
				return false, nil
			}
		}
		return true, nil
	case DirContentOnlyDirs:
		for _, e := range entries {
			if !e.IsDir() {
				return false, nil
			}
		}
		return true, nil
	}

	hasFile, hasDir := false, false
	for _, e := range entries {
		if e.Type().IsRegular() {
			hasFile = true
		}
		if e.IsDir() {
			hasDir = true
		}
		if hasFile && hasDir {
			if f.BaseFileDirs {
				f.baseDirs.add(res.Path)
				return f.baseDirs.has(res.Path), nil
			}
			return true, nil
		}
	}
	return false, nil
}

// baseDirSet keeps only the outermost of any nested directories added
type baseDirSet struct {
	dirs []string
}

func (s *baseDirSet) add(path string) {
	path = filepath.Clean(path)
	for i, base := range s.dirs {
		if isWithin(path, base) {
			return
		}
		if isWithin(base, path) {
			s.dirs[i] = path
			return
		}
	}
	s.dirs = append(s.dirs, path)
}

func (s *baseDirSet) has(path string) bool {
	path = filepath.Clean(path)
	for _, base := range s.dirs {
		if base == path {
			return true
		}
	}
	return false
}

// isWithin reports whether path equals dir or lies below it
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&DirContentFilter{}).Config(),
		Primary:     "mode",
		Description: "Match directories by their content",
		New: func(opts registry.Options) (types.Filter, error) {
			var o DirContentFilter
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewDirContentFilter(o)
		},
	})
}
