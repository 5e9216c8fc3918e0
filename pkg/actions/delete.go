package actions

import (
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const DeleteActionName = "delete"

// DeleteAction removes the entry. Nothing after it runs for the resource.
type DeleteAction struct{}

func (a *DeleteAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: DeleteActionName, Standalone: false, Files: true, Dirs: true}
}

func (a *DeleteAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	if !res.HasPath() {
		return types.Failure(errors.Newf(errors.ErrStandaloneUnsupported, "%s needs a path", DeleteActionName))
	}

	msg(out, res, "delete", types.LevelInfo, DeleteActionName)
	if !simulate {
		if err := res.FS.RemoveAll(res.Path); err != nil {
			return types.Failure(errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", res.Path))
		}
	}
	res.SkipPath(res.Path)
	return types.StopSequence()
}

func init() {
	registry.MustRegisterAction(registry.ActionSpec{
		Config:      (&DeleteAction{}).Config(),
		Description: "Delete the entry",
		New: func(opts registry.Options) (types.Action, error) {
			if err := registry.Decode(opts, &struct{}{}); err != nil {
				return nil, err
			}
			return &DeleteAction{}, nil
		},
	})
}
