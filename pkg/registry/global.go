package registry

import (
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/types"
)

// Options holds the options of one filter or action entry from a rule file
type Options map[string]interface{}

// FilterFactory creates a filter from its options
type FilterFactory func(opts Options) (types.Filter, error)

// ActionFactory creates an action from its options
type ActionFactory func(opts Options) (types.Action, error)

// FilterSpec describes a registered filter. Config is available without
// constructing the filter, so rules can be validated and listed statically.
type FilterSpec struct {
	Config types.FilterConfig

	// Primary is the option that receives the shorthand value in
	// `- extension: pdf`. Empty when the filter takes no shorthand.
	Primary string

	Description string
	New         FilterFactory
}

// ActionSpec describes a registered action
type ActionSpec struct {
	Config      types.ActionConfig
	Primary     string
	Description string
	New         ActionFactory
}

var (
	filterTable = newTable[FilterSpec]("filter", errors.ErrFilterNotFound)
	actionTable = newTable[ActionSpec]("action", errors.ErrActionNotFound)
)

// RegisterFilter adds a filter spec to the global registry
func RegisterFilter(spec FilterSpec) error {
	return filterTable.add(spec.Config.Name, spec)
}

// RegisterAction adds an action spec to the global registry
func RegisterAction(spec ActionSpec) error {
	return actionTable.add(spec.Config.Name, spec)
}

// MustRegisterFilter registers a filter spec and panics on failure.
// Meant for init() functions.
func MustRegisterFilter(spec FilterSpec) {
	filterTable.mustAdd(spec.Config.Name, spec)
}

// MustRegisterAction registers an action spec and panics on failure
func MustRegisterAction(spec ActionSpec) {
	actionTable.mustAdd(spec.Config.Name, spec)
}

// GetFilter retrieves a filter spec by name
func GetFilter(name string) (FilterSpec, error) {
	return filterTable.lookup(name)
}

// GetAction retrieves an action spec by name
func GetAction(name string) (ActionSpec, error) {
	return actionTable.lookup(name)
}

// Filters returns all registered filter specs sorted by name
func Filters() []FilterSpec {
	return filterTable.all()
}

// Actions returns all registered action specs sorted by name
func Actions() []ActionSpec {
	return actionTable.all()
}

// NewFilter constructs the filter registered as name from a raw option value
func NewFilter(name string, value interface{}) (types.Filter, error) {
	spec, err := GetFilter(name)
	if err != nil {
		return nil, err
	}
	opts, err := normalizeOptions(name, spec.Primary, value)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilterInvalid, "filter %q", name)
	}
	filter, err := spec.New(opts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilterInvalid, "filter %q", name)
	}
	return filter, nil
}

// NewAction constructs the action registered as name from a raw option value
func NewAction(name string, value interface{}) (types.Action, error) {
	spec, err := GetAction(name)
	if err != nil {
		return nil, err
	}
	opts, err := normalizeOptions(name, spec.Primary, value)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrActionInvalid, "action %q", name)
	}
	action, err := spec.New(opts)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrActionInvalid, "action %q", name)
	}
	return action, nil
}

// normalizeOptions turns the three accepted shapes into an option map:
// nil means no options, a map is used as is, anything else is the shorthand
// value of the primary option.
func normalizeOptions(name, primary string, value interface{}) (Options, error) {
	switch v := value.(type) {
	case nil:
		return Options{}, nil
	case Options:
		return v, nil
	case map[string]interface{}:
		return Options(v), nil
	default:
		if primary == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s does not accept a shorthand value", name)
		}
		return Options{primary: v}, nil
	}
}
