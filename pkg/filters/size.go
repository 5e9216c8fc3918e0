package filters

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
)

const SizeFilterName = "size"

var sizeConditionRe = regexp.MustCompile(`^\s*(<=|>=|==|!=|<|>|=)?\s*(.+?)\s*$`)

// SizeCondition compares a size against a fixed number of bytes
type SizeCondition struct {
	Op    string
	Bytes int64
}

// Holds reports whether size satisfies the condition
func (c SizeCondition) Holds(size int64) bool {
	switch c.Op {
	case "<":
		return size < c.Bytes
	case "<=":
		return size <= c.Bytes
	case ">":
		return size > c.Bytes
	case ">=":
		return size >= c.Bytes
	case "!=":
		return size != c.Bytes
	default:
		return size == c.Bytes
	}
}

// ParseSizeCondition parses conditions like ">= 1.5 MB" or "<10KiB". Units
// with an "i" are binary, all others decimal. A missing operator means
// equality.
func ParseSizeCondition(s string) (SizeCondition, error) {
	m := sizeConditionRe.FindStringSubmatch(s)
	if m == nil || m[2] == "" {
		return SizeCondition{}, fmt.Errorf("invalid size condition %q", s)
	}

	op := m[1]
	if op == "" || op == "=" {
		op = "=="
	}

	var bytes int64
	var err error
	if strings.ContainsAny(m[2], "iI") {
		bytes, err = units.RAMInBytes(m[2])
	} else {
		bytes, err = units.FromHumanSize(m[2])
	}
	if err != nil {
		return SizeCondition{}, fmt.Errorf("invalid size condition %q: %w", s, err)
	}
	return SizeCondition{Op: op, Bytes: bytes}, nil
}

// SizeFilter matches entries whose size satisfies every condition. The size
// of a directory is the total size of the files below it. Vars hold the size
// in bytes and in human readable form.
type SizeFilter struct {
	conditions []SizeCondition
}

type sizeOptions struct {
	Size []string `mapstructure:"size"`
}

// NewSizeFilter parses conditions
func NewSizeFilter(conditions ...string) (*SizeFilter, error) {
	f := &SizeFilter{}
	for _, c := range conditions {
		for _, part := range strings.Split(c, ",") {
			cond, err := ParseSizeCondition(part)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, cond)
		}
	}
	return f, nil
}

func (f *SizeFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: SizeFilterName, Files: true, Dirs: true}
}

func (f *SizeFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", SizeFilterName)
	}
	size, err := entrySize(res.FS, res.Path)
	if err != nil {
		return false, err
	}

	res.Vars.Set(SizeFilterName, map[string]interface{}{
		"bytes": size,
		"human": humanize.Bytes(uint64(size)),
	})

	for _, cond := range f.conditions {
		if !cond.Holds(size) {
			return false, nil
		}
	}
	return true, nil
}

// entrySize returns the size of a file, or the summed size of all files
// below a directory
func entrySize(fsys types.FS, path string) (int64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	entries, err := fsys.ReadDir(path)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range entries {
		size, err := entrySize(fsys, filepath.Join(path, entry.Name()))
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&SizeFilter{}).Config(),
		Primary:     "size",
		Description: "Match entries by size, e.g. \">= 1 MB\"",
		New: func(opts registry.Options) (types.Filter, error) {
			var o sizeOptions
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewSizeFilter(o.Size...)
		},
	})
}
