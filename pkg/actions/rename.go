package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
)

const RenameActionName = "rename"

type renameOptions struct {
	Name           string `mapstructure:"name"`
	OnConflict     string `mapstructure:"on_conflict"`
	RenameTemplate string `mapstructure:"rename_template"`
}

// RenameAction renames the entry in place using a templated name
type RenameAction struct {
	name      string
	conflicts conflictResolver
}

// NewRenameAction creates a rename action for the name template
func NewRenameAction(name string, onConflict string, renameTemplate string) (*RenameAction, error) {
	if name == "" {
		return nil, fmt.Errorf("%s needs a name", RenameActionName)
	}
	mode, err := ParseConflictMode(onConflict)
	if err != nil {
		return nil, err
	}
	return &RenameAction{
		name:      name,
		conflicts: conflictResolver{mode: mode, renameTemplate: renameTemplate},
	}, nil
}

func (a *RenameAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: RenameActionName, Standalone: false, Files: true, Dirs: true}
}

func (a *RenameAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	if !res.HasPath() {
		return types.Failure(errors.Newf(errors.ErrStandaloneUnsupported, "%s needs a path", RenameActionName))
	}

	newName, err := template.Render(a.name, res)
	if err != nil {
		return types.Failure(err)
	}
	if newName == "" || strings.ContainsRune(newName, filepath.Separator) {
		return types.Failure(errors.Newf(errors.ErrActionExecute, "invalid new name %q", newName))
	}

	src := res.Path
	dst := filepath.Join(filepath.Dir(src), newName)
	if dst == src {
		return types.Continue()
	}

	dst, skip, err := a.conflicts.resolve(res, src, dst, simulate, out, RenameActionName)
	if err != nil {
		return types.Failure(err)
	}
	if skip {
		return types.Continue()
	}

	msg(out, res, fmt.Sprintf("rename to %s", filepath.Base(dst)), types.LevelInfo, RenameActionName)
	if !simulate {
		if err := res.FS.Rename(src, dst); err != nil {
			return types.Failure(errors.Wrapf(err, errors.ErrFileAccess, "failed to rename %s", src))
		}
	}
	res.SkipPath(dst)
	res.Path = dst
	return types.Continue()
}

func init() {
	registry.MustRegisterAction(registry.ActionSpec{
		Config:      (&RenameAction{}).Config(),
		Primary:     "name",
		Description: "Rename the entry in place",
		New: func(opts registry.Options) (types.Action, error) {
			var o renameOptions
			if err := registry.Decode(opts, &o); err != nil {
				return nil, err
			}
			return NewRenameAction(o.Name, o.OnConflict, o.RenameTemplate)
		},
	})
}
