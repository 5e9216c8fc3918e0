package filters

import (
	"fmt"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const EmptyFilterName = "empty"

// EmptyFilter matches files of size zero and directories without entries
type EmptyFilter struct{}

func (f *EmptyFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: EmptyFilterName, Files: true, Dirs: true}
}

func (f *EmptyFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", EmptyFilterName)
	}
	info, err := res.FS.Stat(res.Path)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return info.Size() == 0, nil
	}
	entries, err := res.FS.ReadDir(res.Path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&EmptyFilter{}).Config(),
		Description: "Match empty files and directories",
		New: func(opts registry.Options) (types.Filter, error) {
			if err := registry.Decode(opts, &struct{}{}); err != nil {
				return nil, err
			}
			return &EmptyFilter{}, nil
		},
	})
}
