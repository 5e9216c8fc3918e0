package filters

import (
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/types"
)

// notFilter inverts the decision of the wrapped filter. It keeps the wrapped
// filter's config so capability checks and vars stay the same.
type notFilter struct {
	filter types.Filter
}

// Not returns a filter that matches whenever f does not. Errors from f are
// passed through unchanged.
func Not(f types.Filter) types.Filter {
	return &notFilter{filter: f}
}

func (n *notFilter) Config() types.FilterConfig {
	return n.filter.Config()
}

func (n *notFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	matched, err := n.filter.Pipeline(res, out)
	if err != nil {
		return false, err
	}
	return !matched, nil
}

// Unwrap returns the inverted filter
func (n *notFilter) Unwrap() types.Filter {
	return n.filter
}

// All matches when every filter matches. Evaluation stops at the first
// non-match; a failing filter is reported and counts as a non-match.
func All(filters []types.Filter, res *types.Resource, out types.Output) bool {
	for _, f := range filters {
		matched, err := f.Pipeline(res, out)
		if err != nil {
			reportError(f, err, res, out)
			return false
		}
		if !matched {
			return false
		}
	}
	return true
}

// Any matches when at least one filter matches. Every filter is evaluated so
// each can record its vars; failures are reported and count as non-matches.
func Any(filters []types.Filter, res *types.Resource, out types.Output) bool {
	result := false
	for _, f := range filters {
		matched, err := f.Pipeline(res, out)
		if err != nil {
			reportError(f, err, res, out)
			continue
		}
		if matched {
			result = true
		}
	}
	return result
}

// None matches when no filter matches
func None(filters []types.Filter, res *types.Resource, out types.Output) bool {
	inverted := make([]types.Filter, len(filters))
	for i, f := range filters {
		inverted[i] = Not(f)
	}
	return All(inverted, res, out)
}

// Evaluate combines filters according to mode
func Evaluate(filters []types.Filter, mode types.FilterMode, res *types.Resource, out types.Output) (bool, error) {
	switch mode {
	case types.FilterModeAll:
		return All(filters, res, out), nil
	case types.FilterModeAny:
		return Any(filters, res, out), nil
	case types.FilterModeNone:
		return None(filters, res, out), nil
	default:
		return false, errors.Newf(errors.ErrInvalidInput, "unknown filter mode %q", mode)
	}
}

func reportError(f types.Filter, err error, res *types.Resource, out types.Output) {
	name := f.Config().Name
	logger := logging.GetLogger("filters.pipeline")
	logger.Error().
		Err(err).
		Str("filter", name).
		Str("path", res.Path).
		Msg("Filter failed")

	if out != nil {
		out.Msg(res, err.Error(), types.LevelError, name)
	}
}
