package filters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/gobwas/glob"
)

const NameFilterName = "name"

// NameFilter matches the entry name (the stem for files, the full name for
// directories) against a glob and optional prefix, infix and suffix lists.
// All configured conditions must hold; each list matches on any element.
type NameFilter struct {
	Match         string   `mapstructure:"match"`
	StartsWith    []string `mapstructure:"startswith"`
	Contains      []string `mapstructure:"contains"`
	EndsWith      []string `mapstructure:"endswith"`
	CaseSensitive bool     `mapstructure:"case_sensitive"`

	glob glob.Glob
}

// NewNameFilter compiles the glob of f and returns it
func NewNameFilter(f NameFilter) (*NameFilter, error) {
	if f.Match == "" {
		f.Match = "*"
	}
	pattern := f.Match
	if !f.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", f.Match, err)
	}
	f.glob = g
	return &f, nil
}

func (f *NameFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: NameFilterName, Files: true, Dirs: true}
}

func (f *NameFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", NameFilterName)
	}
	info, err := res.FS.Stat(res.Path)
	if err != nil {
		return false, err
	}

	name := filepath.Base(res.Path)
	if !info.IsDir() {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	res.Vars.Set(NameFilterName, name)

	subject := name
	if !f.CaseSensitive {
		subject = strings.ToLower(subject)
	}
	if !f.glob.Match(subject) {
		return false, nil
	}
	return f.matchAny(f.StartsWith, subject, strings.HasPrefix) &&
		f.matchAny(f.Contains, subject, strings.Contains) &&
		f.matchAny(f.EndsWith, subject, strings.HasSuffix), nil
}

func (f *NameFilter) matchAny(values []string, subject string, fn func(s, part string) bool) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if !f.CaseSensitive {
			v = strings.ToLower(v)
		}
		if fn(subject, v) {
			return true
		}
	}
	return false
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&NameFilter{}).Config(),
		Primary:     "match",
		Description: "Match entry names by glob, prefix, infix or suffix",
		New: func(opts registry.Options) (types.Filter, error) {
			o := NameFilter{CaseSensitive: true}
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewNameFilter(o)
		},
	})
}
