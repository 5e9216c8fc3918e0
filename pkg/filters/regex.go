package filters

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const RegexFilterName = "regex"

// RegexFilter matches the base name of an entry against a regular expression.
// Named capture groups are stored in vars as a map.
type RegexFilter struct {
	re *regexp.Regexp
}

type regexOptions struct {
	Expr string `mapstructure:"expr"`
}

// NewRegexFilter compiles expr
func NewRegexFilter(expr string) (*RegexFilter, error) {
	if expr == "" {
		return nil, fmt.Errorf("%s filter needs an expression", RegexFilterName)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegexFilter{re: re}, nil
}

func (f *RegexFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: RegexFilterName, Files: true, Dirs: true}
}

func (f *RegexFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", RegexFilterName)
	}

	match := f.re.FindStringSubmatch(filepath.Base(res.Path))
	if match == nil {
		return false, nil
	}

	groups := make(map[string]interface{})
	for i, name := range f.re.SubexpNames() {
		if i > 0 && name != "" {
			groups[name] = match[i]
		}
	}
	res.Vars.Set(RegexFilterName, groups)
	return true, nil
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&RegexFilter{}).Config(),
		Primary:     "expr",
		Description: "Match entry names by regular expression",
		New: func(opts registry.Options) (types.Filter, error) {
			var o regexOptions
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewRegexFilter(o.Expr)
		},
	})
}
