package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
)

const WriteActionName = "write"

// Write modes
const (
	WriteAppend    = "append"
	WritePrepend   = "prepend"
	WriteOverwrite = "overwrite"
)

// WriteAction writes a templated line of text into a templated file
type WriteAction struct {
	Outfile string `mapstructure:"outfile"`
	Text    string `mapstructure:"text"`
	Mode    string `mapstructure:"mode"`

	// Newline appends a line break after the text (default true)
	Newline bool `mapstructure:"newline"`
}

// NewWriteAction validates a and returns it
func NewWriteAction(a WriteAction) (*WriteAction, error) {
	if a.Outfile == "" {
		return nil, fmt.Errorf("%s needs an outfile", WriteActionName)
	}
	if a.Mode == "" {
		a.Mode = WriteAppend
	}
	switch a.Mode {
	case WriteAppend, WritePrepend, WriteOverwrite:
	default:
		return nil, fmt.Errorf("unknown write mode %q (expected append, prepend or overwrite)", a.Mode)
	}
	return &a, nil
}

func (a *WriteAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: WriteActionName, Standalone: true, Files: true, Dirs: true}
}

func (a *WriteAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	outfile, err := template.RenderPath(a.Outfile, res)
	if err != nil {
		return types.Failure(err)
	}
	text, err := template.Render(a.Text, res)
	if err != nil {
		return types.Failure(err)
	}
	if a.Newline && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	msg(out, res, fmt.Sprintf("%s to %s: %s", a.Mode, outfile, strings.TrimSuffix(text, "\n")), types.LevelInfo, WriteActionName)
	if simulate {
		return types.Continue()
	}

	if err := a.write(res.FS, outfile, text); err != nil {
		return types.Failure(errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", outfile))
	}
	return types.Continue()
}

func (a *WriteAction) write(fsys types.FS, outfile, text string) error {
	existing, err := fsys.ReadFile(outfile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var content string
	switch a.Mode {
	case WritePrepend:
		content = text + string(existing)
	case WriteOverwrite:
		content = text
	default:
		content = string(existing) + text
	}

	if err := fsys.MkdirAll(filepath.Dir(outfile), 0755); err != nil {
		return err
	}
	return fsys.WriteFile(outfile, []byte(content), 0644)
}

func init() {
	registry.MustRegisterAction(registry.ActionSpec{
		Config:      (&WriteAction{}).Config(),
		Description: "Write text into a file",
		New: func(opts registry.Options) (types.Action, error) {
			a := WriteAction{Newline: true}
			if err := registry.Decode(opts, &a); err != nil {
				return nil, err
			}
			return NewWriteAction(a)
		},
	})
}
