package rules

import (
	"context"
	"iter"

	"github.com/arthur-debert/dosort/pkg/actions"
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/arthur-debert/dosort/pkg/walker"
)

// Summary counts the resources whose action runs succeeded or failed. A
// resource where any stage failed counts as one error.
type Summary struct {
	Success int
	Errors  int
}

// Add accumulates other into s
func (s *Summary) Add(other Summary) {
	s.Success += other.Success
	s.Errors += other.Errors
}

// ExecuteOptions configures a single rule execution
type ExecuteOptions struct {
	Simulate bool
	Output   types.Output
	RuleNr   int
}

// Walk yields a resource for every entry found in the rule's locations.
// Walk errors are yielded with a nil resource.
func (r *Rule) Walk(ruleNr int) iter.Seq2[*types.Resource, error] {
	return func(yield func(*types.Resource, error) bool) {
		for _, loc := range r.Locations {
			root, err := template.RenderPath(loc.Path, nil)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			w := r.walker(loc)
			seq := w.Files(root)
			if r.Targets == types.TargetDirs {
				seq = w.Dirs(root)
			}
			for path, err := range seq {
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}
				if !yield(types.NewResource(r.FS, path, root, ruleNr), nil) {
					return
				}
			}
		}
	}
}

func (r *Rule) walker(loc Location) *walker.Walker {
	w := walker.New(r.FS)
	w.MinDepth = loc.MinDepth
	switch {
	case loc.MaxDepth != nil:
		w.MaxDepth = *loc.MaxDepth
	case r.Subfolders:
		w.MaxDepth = -1
	default:
		w.MaxDepth = 0
	}

	systemFiles, systemDirs := walker.DefaultSystemExcludeFiles, walker.DefaultSystemExcludeDirs
	if loc.SystemExcludeFiles != nil {
		systemFiles = loc.SystemExcludeFiles
	}
	if loc.SystemExcludeDirs != nil {
		systemDirs = loc.SystemExcludeDirs
	}
	w.ExcludeFiles = append(append([]string{}, systemFiles...), loc.ExcludeFiles...)
	w.ExcludeDirs = append(append([]string{}, systemDirs...), loc.ExcludeDirs...)
	w.FilterFiles = loc.Filter
	w.FilterDirs = loc.FilterDirs
	w.IgnoreErrors = loc.IgnoreErrors
	return w
}

// Execute runs the rule over every resource found in its locations, or once
// without a resource for standalone rules. Per-resource failures are
// reported to the output and counted; only configuration problems and
// cancellation are returned as errors.
func (r *Rule) Execute(ctx context.Context, opts ExecuteOptions) (Summary, error) {
	logger := logging.GetLogger("rules.executor").With().
		Int("rule", opts.RuleNr).
		Str("name", r.Name).
		Logger()

	if !r.Enabled {
		logger.Debug().Msg("Rule disabled, skipping")
		return Summary{}, nil
	}
	defer logging.LogOperationStart(logger, r.DisplayName(opts.RuleNr))()

	ex := &execution{opts: opts, skip: make(map[string]struct{})}

	if r.IsStandalone() {
		logger.Debug().Msg("Running standalone rule")
		res := types.NewStandaloneResource(r.FS, opts.RuleNr)
		ex.count(!ex.runActions(r.Actions, res))
		return ex.summary, nil
	}

	mode := r.FilterMode
	if mode == "" {
		mode = types.FilterModeAll
	}

	var graph *filters.Graph
	if len(r.GroupFilters) > 0 {
		var err error
		if graph, err = filters.NewGraph(r.GroupFilters); err != nil {
			return Summary{}, err
		}
	}

	for res, err := range r.Walk(opts.RuleNr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ex.summary, ctxErr
		}
		if err != nil {
			logger.Error().Err(err).Msg("Failed to walk location")
			ex.report(types.NewStandaloneResource(r.FS, opts.RuleNr), err.Error(), "walker")
			ex.summary.Errors++
			continue
		}
		if _, consumed := ex.skip[res.Path]; consumed {
			logger.Trace().Str("path", res.Path).Msg("Skipping consumed path")
			continue
		}

		ran, failed := false, false
		if graph != nil {
			matched := graph.Match(res, opts.Output)
			if selected := r.selectGroupActions(matched); len(selected) > 0 {
				ran = true
				failed = !ex.runActions(selected, res)
			}
		}

		if len(r.Actions) > 0 {
			matched, err := filters.Evaluate(r.Filters, mode, res, opts.Output)
			if err != nil {
				return ex.summary, err
			}
			if matched {
				ran = true
				if !ex.runActions(r.Actions, res) {
					failed = true
				}
			}
		}
		if ran {
			ex.count(failed)
		}
	}

	logger.Debug().
		Int("success", ex.summary.Success).
		Int("errors", ex.summary.Errors).
		Msg("Rule finished")
	return ex.summary, nil
}

// selectGroupActions returns the group actions whose name matched, in
// declaration order
func (r *Rule) selectGroupActions(matched []string) []types.Action {
	if len(matched) == 0 {
		return nil
	}
	names := make(map[string]bool, len(matched))
	for _, name := range matched {
		names[name] = true
	}
	var selected []types.Action
	for _, g := range r.GroupActions {
		if names[g.Name] {
			selected = append(selected, g)
		}
	}
	return selected
}

// execution is the state of one rule execution
type execution struct {
	opts    ExecuteOptions
	skip    map[string]struct{}
	summary Summary
}

// runActions runs list on res and reports whether it succeeded. Only a
// successful run grows the skip set.
func (ex *execution) runActions(list []types.Action, res *types.Resource) bool {
	err := actions.Run(list, res, ex.opts.Simulate, ex.opts.Output)
	if err != nil {
		sender := actions.ActionName(err)
		logger := logging.GetLogger("rules.executor")
		logger.Error().
			Err(err).
			Str("path", res.Path).
			Str("action", sender).
			Msg("Action failed")
		ex.report(res, message(err), sender)
		return false
	}

	for _, path := range res.WalkerSkipPaths() {
		ex.skip[path] = struct{}{}
	}
	return true
}

// count records one outcome per resource, however many stages ran on it
func (ex *execution) count(failed bool) {
	if failed {
		ex.summary.Errors++
		return
	}
	ex.summary.Success++
}

func (ex *execution) report(res *types.Resource, msg, sender string) {
	if ex.opts.Output != nil {
		ex.opts.Output.Msg(res, msg, types.LevelError, sender)
	}
}

// message drops the pipeline wrapper so the output shows the action's own error
func message(err error) string {
	if e, ok := err.(*errors.DosortError); ok && e.Code == errors.ErrActionExecute && e.Wrapped != nil {
		return e.Wrapped.Error()
	}
	return err.Error()
}
