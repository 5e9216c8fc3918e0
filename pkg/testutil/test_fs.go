package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dosort/pkg/filesystem"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// WriteFiles creates every file in files (path -> content), creating parent
// directories as needed.
func WriteFiles(t *testing.T, fs types.FS, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
	}
}

// MkdirAll creates each directory in dirs
func MkdirAll(t *testing.T, fs types.FS, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
}

// Exists reports whether path exists on fs
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
