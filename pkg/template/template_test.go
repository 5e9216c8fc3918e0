package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()
	t.Setenv("DOSORT_TEST_VALUE", "from-env")

	res := types.NewResource(nil, "/in/docs/Report.final.PDF", "/in", 0)
	res.Vars.Set("regex", map[string]interface{}{"year": "2024"})
	res.Vars.Set("size", map[string]interface{}{"human": "10 kB"})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text", "/out/archive", "/out/archive"},
		{"name parts", "{{.stem}}|{{.extension}}|{{.name}}", "Report.final|PDF|Report.final.PDF"},
		{"locations", "{{.parent}} {{.relative_path}} {{.basedir}}", "/in/docs docs/Report.final.PDF /in"},
		{"vars", "/out/{{.regex.year}}/{{.size.human}}", "/out/2024/10 kB"},
		{"funcs", "{{lower .extension}}-{{upper .stem}}", "pdf-REPORT.FINAL"},
		{"env func", `{{env "DOSORT_TEST_VALUE"}}`, "from-env"},
		{"env map", "{{.env.DOSORT_TEST_VALUE}}", "from-env"},
		{"now", `{{.now.Format "2006-01"}}`, "2024-03"},
		{"missing var", "[{{.missing}}]", "[]"},
		{"default", `{{default "none" .missing}}`, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.text, res)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderWith(t *testing.T) {
	res := types.NewResource(nil, "/in/a.txt", "/in", 0)
	got, err := RenderWith("{{.stem}}-{{.counter}}", res, map[string]interface{}{"counter": 2})
	require.NoError(t, err)
	assert.Equal(t, "a-2", got)
}

func TestRender_Standalone(t *testing.T) {
	got, err := Render("hello {{.path}}", types.NewStandaloneResource(nil, 0))
	require.NoError(t, err)
	assert.Equal(t, "hello ", got)
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("{{.name", types.NewResource(nil, "/a", "/", 0))
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateRender))

	_, err = Render("{{.name.Missing.Deeper 1}}", types.NewResource(nil, "/a", "/", 0))
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateRender))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("DOSORT_BASE", "/data")

	assert.Equal(t, filepath.Join(home, "Downloads"), ExpandPath("~/Downloads"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/data/inbox", ExpandPath("$DOSORT_BASE/inbox"))
	assert.Equal(t, "/data/inbox", ExpandPath("${DOSORT_BASE}/inbox"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}
