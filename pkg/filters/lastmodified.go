package filters

import (
	"fmt"
	"time"

	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const LastModifiedFilterName = "lastmodified"

// now is replaced in tests
var now = time.Now

// LastModifiedFilter matches entries by modification time relative to now.
// In "older" mode an entry matches when it was last modified longer ago than
// the configured age, in "newer" mode when it was modified more recently.
// A zero age matches everything. The modification time is stored in vars.
type LastModifiedFilter struct {
	Days     float64       `mapstructure:"days"`
	Hours    float64       `mapstructure:"hours"`
	Minutes  float64       `mapstructure:"minutes"`
	Seconds  float64       `mapstructure:"seconds"`
	Duration time.Duration `mapstructure:"duration"`
	Mode     string        `mapstructure:"mode"`
}

// NewLastModifiedFilter validates the mode of f and returns it
func NewLastModifiedFilter(f LastModifiedFilter) (*LastModifiedFilter, error) {
	if f.Mode == "" {
		f.Mode = "older"
	}
	if f.Mode != "older" && f.Mode != "newer" {
		return nil, fmt.Errorf("unknown lastmodified mode %q (expected older or newer)", f.Mode)
	}
	return &f, nil
}

// Age returns the configured threshold
func (f *LastModifiedFilter) Age() time.Duration {
	seconds := f.Days*86400 + f.Hours*3600 + f.Minutes*60 + f.Seconds
	return f.Duration + time.Duration(seconds*float64(time.Second))
}

func (f *LastModifiedFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: LastModifiedFilterName, Files: true, Dirs: true}
}

func (f *LastModifiedFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	if !res.HasPath() {
		return false, fmt.Errorf("%s filter needs a path", LastModifiedFilterName)
	}
	info, err := res.FS.Stat(res.Path)
	if err != nil {
		return false, err
	}
	modified := info.ModTime()
	res.Vars.Set(LastModifiedFilterName, modified)

	age := f.Age()
	if age == 0 {
		return true, nil
	}
	threshold := now().Add(-age)
	if f.Mode == "newer" {
		return modified.After(threshold), nil
	}
	return modified.Before(threshold), nil
}

func init() {
	registry.MustRegisterFilter(registry.FilterSpec{
		Config:      (&LastModifiedFilter{}).Config(),
		Primary:     "days",
		Description: "Match entries by modification time",
		New: func(opts registry.Options) (types.Filter, error) {
			var o LastModifiedFilter
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewLastModifiedFilter(o)
		},
	})
}
