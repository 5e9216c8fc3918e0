package filters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const ExtensionFilterName = "extension"

// ExtensionFilter matches files by extension, case-insensitively. Without
// configured extensions every file matches. The normalized extension is
// stored in vars.
type ExtensionFilter struct {
	extensions map[string]bool
}

type extensionOptions struct {
	Extensions []string `mapstructure:"extensions"`
}

// NewExtensionFilter creates a filter for the given extensions. A leading dot
// is optional.
func NewExtensionFilter(extensions ...string) *ExtensionFilter {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		set[normalizeExtension(ext)] = true
	}
	return &ExtensionFilter{extensions: set}
}

func (f *ExtensionFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: ExtensionFilterName, Files: true, Dirs: false}
}

func (f *ExtensionFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", ExtensionFilterName)
	}
	ext := normalizeExtension(filepath.Ext(res.Path))
	res.Vars.Set(ExtensionFilterName, ext)

	if len(f.extensions) == 0 {
		return true, nil
	}
	return f.extensions[ext], nil
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&ExtensionFilter{}).Config(),
		Primary:     "extensions",
		Description: "Match files by extension",
		New: func(opts registry.Options) (types.Filter, error) {
			var o extensionOptions
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewExtensionFilter(o.Extensions...), nil
		},
	})
}
