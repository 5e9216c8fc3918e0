package testutil

import (
	"github.com/arthur-debert/dosort/pkg/types"
)

// StubFilter is a Filter whose decision is scripted by Fn. Calls records the
// path of every resource it was asked about.
type StubFilter struct {
	Name  string
	Files bool
	Dirs  bool
	Fn    func(res *types.Resource) (bool, error)
	Calls []string
}

// NewStubFilter returns a filter for files and dirs that always answers match
func NewStubFilter(name string, match bool) *StubFilter {
	return &StubFilter{
		Name:  name,
		Files: true,
		Dirs:  true,
		Fn:    func(*types.Resource) (bool, error) { return match, nil },
	}
}

func (f *StubFilter) Config() types.FilterConfig {
	return types.FilterConfig{Name: f.Name, Files: f.Files, Dirs: f.Dirs}
}

func (f *StubFilter) Pipeline(res *types.Resource, out types.Output) (bool, error) {
	f.Calls = append(f.Calls, res.Path)
	if f.Fn == nil {
		return true, nil
	}
	return f.Fn(res)
}

// StubAction is an Action whose step is scripted by Fn
type StubAction struct {
	Name       string
	Standalone bool
	Files      bool
	Dirs       bool
	Fn         func(res *types.Resource, simulate bool) types.Step
	Calls      []string
}

// NewStubAction returns an action for every target that always continues
func NewStubAction(name string) *StubAction {
	return &StubAction{
		Name:       name,
		Standalone: true,
		Files:      true,
		Dirs:       true,
	}
}

func (a *StubAction) Config() types.ActionConfig {
	return types.ActionConfig{Name: a.Name, Standalone: a.Standalone, Files: a.Files, Dirs: a.Dirs}
}

func (a *StubAction) Pipeline(res *types.Resource, out types.Output, simulate bool) types.Step {
	a.Calls = append(a.Calls, res.Path)
	if a.Fn == nil {
		return types.Continue()
	}
	return a.Fn(res, simulate)
}
