package actions

import (
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/template"
	"github.com/arthur-debert/dosort/pkg/types"
)

const EchoActionName = "echo"

// EchoAction reports a templated message
type EchoAction struct {
	Msg string `mapstructure:"msg"`
}

func (a *EchoAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: EchoActionName, Standalone: true, Files: true, Dirs: true}
}

func (a *EchoAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	text, err := template.Render(a.Msg, res)
	if err != nil {
		return types.Failure(err)
	}
	msg(out, res, text, types.LevelInfo, EchoActionName)
	return types.Continue()
}

func init() {
	registry.MustRegisterAction(registry.ActionSpec{
		Config:      (&EchoAction{}).Config(),
		Primary:     "msg",
		Description: "Print a message",
		New: func(opts registry.Options) (types.Action, error) {
			var a EchoAction
			if err := registry.Decode(opts, &a); err != nil {
				return nil, err
			}
			return &a, nil
		},
	})
}
