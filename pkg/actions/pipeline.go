package actions

import (
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/types"
)

// Run applies actions to res in order. A stop step ends the sequence without
// error. A failure ends it and is returned wrapped as ErrActionExecute, with
// the failing action's name in the "action" detail.
func Run(actions []types.Action, res *types.Resource, simulate bool, out types.Output) error {
	logger := logging.GetLogger("actions.pipeline")

	for _, action := range actions {
		name := action.Config().Name
		step := action.Pipeline(res, out, simulate)

		switch step.Outcome {
		case types.OutcomeContinue:
			continue
		case types.OutcomeStop:
			logger.Debug().
				Str("action", name).
				Str("path", res.Path).
				Msg("Action stopped the sequence")
			return nil
		default:
			err := step.Err
			if err == nil {
				err = errors.New(errors.ErrActionExecute, "action failed")
			}
			if errors.GetErrorDetails(err)["action"] != nil {
				return err
			}
			return errors.Wrapf(err, errors.ErrActionExecute, "%s failed", name).
				WithDetail("action", name)
		}
	}
	return nil
}

// ActionName returns the name of the action that produced err, if known
func ActionName(err error) string {
	if name, ok := errors.GetErrorDetails(err)["action"].(string); ok {
		return name
	}
	return ""
}

// GroupAction is a named sequence of actions selected by the group filter
// with the same name. A stop inside the group only ends the group.
type GroupAction struct {
	Name    string
	Actions []types.Action
}

// Config returns the intersection of the capabilities of the group's actions
func (g *GroupAction) Config() types.ActionConfig {
	cfg := types.ActionConfig{Name: g.Name, Standalone: true, Files: true, Dirs: true}
	for _, a := range g.Actions {
		c := a.Config()
		cfg.Standalone = cfg.Standalone && c.Standalone
		cfg.Files = cfg.Files && c.Files
		cfg.Dirs = cfg.Dirs && c.Dirs
	}
	return cfg
}

func (g *GroupAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	return types.FailureOrContinue(Run(g.Actions, res, simulate, out))
}

// msg reports to out when there is an output sink
func msg(out types.Output, res *types.Resource, text string, level types.Level, sender string) {
	if out != nil {
		out.Msg(res, text, level, sender)
	}
}
