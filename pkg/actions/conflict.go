package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
)

// ConflictMode decides what happens when the destination already exists
type ConflictMode string

const (
	ConflictSkip           ConflictMode = "skip"
	ConflictOverwrite      ConflictMode = "overwrite"
	ConflictRenameNew      ConflictMode = "rename_new"
	ConflictRenameExisting ConflictMode = "rename_existing"
)

// DefaultRenameTemplate names the alternative destination on conflicts
const DefaultRenameTemplate = "{{.stem}} {{.counter}}{{if .extension}}.{{.extension}}{{end}}"

const maxRenameAttempts = 10000

// ParseConflictMode validates a conflict mode; empty means rename_new
func ParseConflictMode(s string) (ConflictMode, error) {
	switch ConflictMode(s) {
	case "":
		return ConflictRenameNew, nil
	case ConflictSkip, ConflictOverwrite, ConflictRenameNew, ConflictRenameExisting:
		return ConflictMode(s), nil
	}
	return "", fmt.Errorf("unknown on_conflict mode %q (expected skip, overwrite, rename_new or rename_existing)", s)
}

// conflictResolver resolves destination conflicts for copy, move and rename
type conflictResolver struct {
	mode           ConflictMode
	renameTemplate string
}

// resolve returns the destination to use for src -> dst. skip is true when
// the action should leave the resource alone. Unless simulating, existing
// entries are removed (overwrite) or moved aside (rename_existing).
func (c conflictResolver) resolve(res *types.Resource, src, dst string, simulate bool, out types.Output, sender string) (string, bool, error) {
	fsys := res.FS
	if _, err := fsys.Lstat(dst); err != nil {
		return dst, false, nil
	}

	if filepath.Clean(src) == filepath.Clean(dst) {
		msg(out, res, "same source and destination", types.LevelInfo, sender)
		return dst, true, nil
	}

	switch c.mode {
	case ConflictSkip:
		msg(out, res, fmt.Sprintf("skipped, %s already exists", dst), types.LevelInfo, sender)
		return dst, true, nil

	case ConflictOverwrite:
		msg(out, res, fmt.Sprintf("overwriting %s", dst), types.LevelInfo, sender)
		if !simulate {
			if err := fsys.RemoveAll(dst); err != nil {
				return "", false, errors.Wrapf(err, errors.ErrActionConflict, "failed to remove %s", dst)
			}
		}
		return dst, false, nil

	case ConflictRenameExisting:
		aside, err := c.freeName(res, dst)
		if err != nil {
			return "", false, err
		}
		msg(out, res, fmt.Sprintf("renaming existing %s to %s", dst, aside), types.LevelInfo, sender)
		if !simulate {
			if err := fsys.Rename(dst, aside); err != nil {
				return "", false, errors.Wrapf(err, errors.ErrActionConflict, "failed to rename %s", dst)
			}
		}
		return dst, false, nil

	default:
		renamed, err := c.freeName(res, dst)
		if err != nil {
			return "", false, err
		}
		return renamed, false, nil
	}
}

// freeName renders the rename template with increasing counters, starting at
// 2, until it names a path that does not exist next to dst
func (c conflictResolver) freeName(res *types.Resource, dst string) (string, error) {
	tmpl := c.renameTemplate
	if tmpl == "" {
		tmpl = DefaultRenameTemplate
	}

	dir := filepath.Dir(dst)
	name := filepath.Base(dst)
	ext := filepath.Ext(name)
	extra := map[string]interface{}{
		"name":      name,
		"stem":      strings.TrimSuffix(name, ext),
		"extension": strings.TrimPrefix(ext, "."),
	}

	for counter := 2; counter < maxRenameAttempts; counter++ {
		extra["counter"] = counter
		candidate, err := template.RenderWith(tmpl, res, extra)
		if err != nil {
			return "", err
		}
		if candidate == name {
			return "", errors.Newf(errors.ErrActionConflict, "rename template %q does not use the counter", tmpl)
		}
		path := filepath.Join(dir, candidate)
		if _, err := res.FS.Lstat(path); err != nil {
			return path, nil
		}
	}
	return "", errors.Newf(errors.ErrActionConflict, "no free name found for %s", dst)
}
