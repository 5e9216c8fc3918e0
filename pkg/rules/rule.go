package rules

import (
	"strconv"

	"github.com/arthur-debert/dosort/pkg/actions"
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filesystem"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/arthur-debert/dosort/pkg/walker"
)

// Location is one root a rule scans
type Location struct {
	Path string

	MinDepth int
	// MaxDepth limits descent; nil inherits from Rule.Subfolders (unlimited
	// with subfolders, top level only without), a negative value is unlimited
	MaxDepth *int

	ExcludeFiles []string
	ExcludeDirs  []string

	// SystemExcludeFiles and SystemExcludeDirs replace the walker defaults
	// when non-nil
	SystemExcludeFiles []string
	SystemExcludeDirs  []string

	Filter     []string
	FilterDirs []string

	IgnoreErrors bool
}

// Rule binds locations to filters and actions. A rule has flat filters or
// group filters, and flat actions or group actions, never both of one kind.
// Group actions run when the group filter of the same name matched.
type Rule struct {
	Name       string
	Enabled    bool
	Targets    types.Target
	Locations  []Location
	Subfolders bool
	Tags       []string

	Filters      []types.Filter
	GroupFilters []filters.GroupFilter
	FilterMode   types.FilterMode

	Actions      []types.Action
	GroupActions []*actions.GroupAction

	// FS is the filesystem scanned and modified; the OS filesystem when nil
	FS types.FS
}

// IsStandalone reports whether the rule runs without locations
func (r *Rule) IsStandalone() bool {
	return len(r.Locations) == 0
}

// DisplayName returns the rule name, or a positional fallback
func (r *Rule) DisplayName(nr int) string {
	if r.Name != "" {
		return r.Name
	}
	return "Rule #" + strconv.Itoa(nr)
}

// New validates r, fills in defaults and returns it. All configuration
// errors are reported here so an invalid rule never starts.
func New(r Rule) (*Rule, error) {
	target, err := types.ParseTarget(string(r.Targets))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid rule")
	}
	r.Targets = target

	mode, err := types.ParseFilterMode(string(r.FilterMode))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid rule")
	}
	r.FilterMode = mode

	if r.FS == nil {
		r.FS = filesystem.NewOS()
	}

	if len(r.Filters) > 0 && len(r.GroupFilters) > 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "a rule cannot mix flat filters and group filters")
	}
	if len(r.Actions) > 0 && len(r.GroupActions) > 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "a rule cannot mix flat actions and group actions")
	}
	if len(r.Actions) == 0 && len(r.GroupActions) == 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "a rule needs at least one action")
	}
	if len(r.GroupActions) > 0 && len(r.GroupFilters) == 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "group actions need group filters to select them")
	}

	for i, loc := range r.Locations {
		if loc.Path == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "location %d has no path", i)
		}
		for _, patterns := range [][]string{
			loc.ExcludeFiles, loc.ExcludeDirs, loc.Filter, loc.FilterDirs,
			loc.SystemExcludeFiles, loc.SystemExcludeDirs,
		} {
			if _, err := walker.CompilePatterns(patterns); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "location %d", i)
			}
		}
	}

	if r.IsStandalone() {
		if err := validateStandalone(&r); err != nil {
			return nil, err
		}
	}

	if err := validateTarget(&r); err != nil {
		return nil, err
	}

	r.GroupFilters = append([]filters.GroupFilter(nil), r.GroupFilters...)
	for i := range r.GroupFilters {
		g := &r.GroupFilters[i]
		depMode, err := types.ParseDependOnMode(string(g.DependOnMode))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "group filter %q", g.Name)
		}
		g.DependOnMode = depMode
		if g.FilterMode, err = types.ParseFilterMode(string(g.FilterMode)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "group filter %q", g.Name)
		}
	}
	if len(r.GroupFilters) > 0 {
		if _, err := filters.NewGraph(r.GroupFilters); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(r.GroupActions))
	for _, g := range r.GroupActions {
		if seen[g.Name] {
			return nil, errors.Newf(errors.ErrConfigInvalid, "duplicate group action %q", g.Name)
		}
		seen[g.Name] = true
	}

	return &r, nil
}

func validateStandalone(r *Rule) error {
	if len(r.Filters) > 0 || len(r.GroupFilters) > 0 {
		return errors.New(errors.ErrStandaloneUnsupported, "filters are present but no locations are given")
	}
	if len(r.GroupActions) > 0 {
		return errors.New(errors.ErrStandaloneUnsupported, "group actions need locations")
	}
	for _, a := range r.Actions {
		if !a.Config().Standalone {
			return errors.Newf(errors.ErrStandaloneUnsupported,
				"action %q does not support standalone mode (no locations specified)", a.Config().Name)
		}
	}
	return nil
}

func validateTarget(r *Rule) error {
	allFilters := append([]types.Filter{}, r.Filters...)
	for _, g := range r.GroupFilters {
		allFilters = append(allFilters, g.Filters...)
	}
	for _, f := range allFilters {
		if !f.Config().Supports(r.Targets) {
			return errors.Newf(errors.ErrTargetUnsupported,
				"filter %q does not support %s", f.Config().Name, r.Targets).
				WithDetail("filter", f.Config().Name)
		}
	}

	allActions := append([]types.Action{}, r.Actions...)
	for _, g := range r.GroupActions {
		allActions = append(allActions, g.Actions...)
	}
	for _, a := range allActions {
		if !a.Config().Supports(r.Targets) {
			return errors.Newf(errors.ErrTargetUnsupported,
				"action %q does not support %s", a.Config().Name, r.Targets).
				WithDetail("action", a.Config().Name)
		}
	}
	return nil
}
