// Package template renders the text templates used in action options such
// as move destinations or echo messages.
package template

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/types"
)

var funcs = template.FuncMap{
	"env":   os.Getenv,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"default": func(fallback, value interface{}) interface{} {
		if value == nil || value == "" {
			return fallback
		}
		return value
	},
}

// now is replaced in tests
var now = time.Now

// Data returns the values available to templates rendered for res. Vars are
// added last under their filter names and may shadow the location keys.
func Data(res *types.Resource) map[string]interface{} {
	data := map[string]interface{}{
		"now": now(),
		"env": envMap(),
	}
	if res == nil {
		return data
	}
	if res.HasPath() {
		name := filepath.Base(res.Path)
		ext := filepath.Ext(name)
		data["path"] = res.Path
		data["name"] = name
		data["stem"] = strings.TrimSuffix(name, ext)
		data["extension"] = strings.TrimPrefix(ext, ".")
		data["parent"] = filepath.Dir(res.Path)
		data["relative_path"] = res.RelativePath()
		data["basedir"] = res.BaseDir
	}
	if res.Vars != nil {
		for _, key := range res.Vars.Keys() {
			value, _ := res.Vars.Get(key)
			data[key] = value
		}
	}
	return data
}

// Render executes text as a template against the data of res. Text without
// template actions is returned unchanged.
func Render(text string, res *types.Resource) (string, error) {
	return RenderWith(text, res, nil)
}

// RenderWith is Render with extra values layered over the resource data
func RenderWith(text string, res *types.Resource, extra map[string]interface{}) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("dosort").Funcs(funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "invalid template %q", text)
	}

	data := Data(res)
	for key, value := range extra {
		data[key] = value
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "failed to render %q", text)
	}
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// RenderPath renders text and expands the result with ExpandPath
func RenderPath(text string, res *types.Resource) (string, error) {
	rendered, err := Render(text, res)
	if err != nil {
		return "", err
	}
	return ExpandPath(rendered), nil
}

// ExpandPath expands a leading ~ to the home directory and $VAR / ${VAR}
// references to environment values
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}
