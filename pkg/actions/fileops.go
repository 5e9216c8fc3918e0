package actions

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
)

// destination renders dest for res. A trailing separator, or a destination
// that is an existing directory, means "inside this directory".
func destination(dest string, res *types.Resource) (string, error) {
	rendered, err := template.RenderPath(dest, res)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(rendered, "/") || strings.HasSuffix(rendered, string(filepath.Separator)) {
		return filepath.Join(rendered, filepath.Base(res.Path)), nil
	}
	if info, err := res.FS.Stat(rendered); err == nil && info.IsDir() {
		return filepath.Join(rendered, filepath.Base(res.Path)), nil
	}
	return filepath.Clean(rendered), nil
}

// copyEntry copies a file, or a directory recursively, preserving permissions
func copyEntry(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		data, err := fsys.ReadFile(src)
		if err != nil {
			return err
		}
		if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return fsys.WriteFile(dst, data, info.Mode().Perm())
	}

	if err := fsys.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyEntry(fsys, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// moveEntry renames src to dst, falling back to copy and delete when the two
// are on different devices
func moveEntry(fsys types.FS, src, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	if err := copyEntry(fsys, src, dst); err != nil {
		return err
	}
	return fsys.RemoveAll(src)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if stderrors.As(err, &linkErr) {
		return stderrors.Is(linkErr.Err, syscall.EXDEV)
	}
	return stderrors.Is(err, syscall.EXDEV)
}
