package actions

import (
	"fmt"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/types"
)

const (
	CopyActionName = "copy"
	MoveActionName = "move"
)

// TransferOptions configures copy and move
type TransferOptions struct {
	Dest           string `mapstructure:"dest"`
	OnConflict     string `mapstructure:"on_conflict"`
	RenameTemplate string `mapstructure:"rename_template"`

	// ContinueWith selects which path later actions see after a copy:
	// "original" (default) or "copy"
	ContinueWith string `mapstructure:"continue_with"`
}

// TransferAction copies or moves the resource to a templated destination
type TransferAction struct {
	name         string
	dest         string
	continueCopy bool
	conflicts    conflictResolver
}

func newTransferAction(name string, opts TransferOptions) (*TransferAction, error) {
	if opts.Dest == "" {
		return nil, fmt.Errorf("%s needs a dest", name)
	}
	mode, err := ParseConflictMode(opts.OnConflict)
	if err != nil {
		return nil, err
	}
	switch opts.ContinueWith {
	case "", "original", "copy":
	default:
		return nil, fmt.Errorf("unknown continue_with %q (expected original or copy)", opts.ContinueWith)
	}
	return &TransferAction{
		name:         name,
		dest:         opts.Dest,
		continueCopy: opts.ContinueWith == "copy",
		conflicts:    conflictResolver{mode: mode, renameTemplate: opts.RenameTemplate},
	}, nil
}

// NewCopyAction creates a copy action
func NewCopyAction(opts TransferOptions) (*TransferAction, error) {
	return newTransferAction(CopyActionName, opts)
}

// NewMoveAction creates a move action
func NewMoveAction(opts TransferOptions) (*TransferAction, error) {
	return newTransferAction(MoveActionName, opts)
}

func (a *TransferAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: a.name, Standalone: false, Files: true, Dirs: true}
}

func (a *TransferAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	if !res.HasPath() {
		return types.Failure(errors.Newf(errors.ErrStandaloneUnsupported, "%s needs a path", a.name))
	}

	src := res.Path
	dst, err := destination(a.dest, res)
	if err != nil {
		return types.Failure(err)
	}

	dst, skip, err := a.conflicts.resolve(res, src, dst, simulate, out, a.name)
	if err != nil {
		return types.Failure(err)
	}
	if skip {
		return types.Continue()
	}

	if a.name == MoveActionName {
		msg(out, res, fmt.Sprintf("move to %s", dst), types.LevelInfo, a.name)
		if !simulate {
			if err := moveEntry(res.FS, src, dst); err != nil {
				return types.Failure(errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s", src))
			}
		}
		res.SkipPath(src)
		res.SkipPath(dst)
		res.Path = dst
		return types.Continue()
	}

	msg(out, res, fmt.Sprintf("copy to %s", dst), types.LevelInfo, a.name)
	if !simulate {
		if err := copyEntry(res.FS, src, dst); err != nil {
			return types.Failure(errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s", src))
		}
	}
	res.SkipPath(dst)
	if a.continueCopy {
		res.Path = dst
	}
	return types.Continue()
}

func init() {
	for _, name := range []string{CopyActionName, MoveActionName} {
		registry.MustRegisterAction(registry.ActionSpec{
			Config:      types.ActionConfig{Name: name, Files: true, Dirs: true},
			Primary:     "dest",
			Description: fmt.Sprintf("%s the entry to a destination", name),
			New: func(opts registry.Options) (types.Action, error) {
				var o TransferOptions
				if err := registry.Decode(opts, &o); err != nil {
					return nil, err
				}
				return newTransferAction(name, o)
			},
		})
	}
}
