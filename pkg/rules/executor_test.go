// Test Type: Unit Test
// Description: Tests for rule execution - walking, matching, action sequences and summaries

package rules_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dosort/pkg/actions"
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/output"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/rules"
	"github.com/arthur-debert/dosort/pkg/testutil"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutil.SilenceLogs()
	m.Run()
}

func mustRule(t *testing.T, r rules.Rule) *rules.Rule {
	t.Helper()
	r.Enabled = true
	rule, err := rules.New(r)
	require.NoError(t, err)
	return rule
}

func intPtr(i int) *int {
	return &i
}

func TestExecute_FlatRule(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.pdf": "",
		"/in/c.txt": "",
	})
	action := testutil.NewStubAction("record")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		Filters:   []types.Filter{filters.NewExtensionFilter("txt")},
		Actions:   []types.Action{action},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 2}, summary)
	assert.Equal(t, []string{"/in/a.txt", "/in/c.txt"}, action.Calls)
}

func TestExecute_SkipsConsumedPaths(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "a",
		"/in/b.txt": "b",
	})
	testutil.MkdirAll(t, fs, "/in/sorted")

	move, err := registry.NewAction("move", "/in/sorted/")
	require.NoError(t, err)
	rule := mustRule(t, rules.Rule{
		FS:         fs,
		Locations:  []rules.Location{{Path: "/in"}},
		Subfolders: true,
		Filters:    []types.Filter{filters.NewExtensionFilter("txt")},
		Actions:    []types.Action{move},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 2}, summary)
	assert.True(t, testutil.Exists(fs, "/in/sorted/a.txt"))
	assert.True(t, testutil.Exists(fs, "/in/sorted/b.txt"))
	assert.False(t, testutil.Exists(fs, "/in/sorted/a 2.txt"), "moved files are not visited again")
}

func TestExecute_CountsFailures(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.txt": "",
	})
	failing := testutil.NewStubAction("fragile")
	failing.Fn = func(res *types.Resource, simulate bool) types.Step {
		if res.Path == "/in/b.txt" {
			return types.Failure(errors.New(errors.ErrFileAccess, "disk on fire"))
		}
		return types.Continue()
	}
	after := testutil.NewStubAction("after")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		Actions:   []types.Action{failing, after},
	})
	rec := output.NewRecorder()

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{Output: rec})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1, Errors: 1}, summary)
	assert.Equal(t, []string{"/in/a.txt"}, after.Calls)

	errs := rec.ByLevel(types.LevelError)
	require.Len(t, errs, 1)
	assert.Equal(t, "fragile", errs[0].Sender)
	assert.Contains(t, errs[0].Msg, "disk on fire")
}

func TestExecute_Standalone(t *testing.T) {
	echo, err := registry.NewAction("echo", "hello")
	require.NoError(t, err)
	rule := mustRule(t, rules.Rule{Actions: []types.Action{echo}})
	rec := output.NewRecorder()

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{Output: rec})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1}, summary)
	require.Len(t, rec.Messages(), 1)
	assert.Equal(t, "hello", rec.Messages()[0].Msg)
	assert.Empty(t, rec.Messages()[0].Path)
}

func TestExecute_Disabled(t *testing.T) {
	action := testutil.NewStubAction("never")
	rule := mustRule(t, rules.Rule{Actions: []types.Action{action}})
	rule.Enabled = false

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{}, summary)
	assert.Empty(t, action.Calls)
}

func TestExecute_GroupActions(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{"/in/a.txt": ""})

	docs := testutil.NewStubAction("docs-action")
	invoices := testutil.NewStubAction("invoices-action")
	rest := testutil.NewStubAction("rest-action")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{
			{Name: "docs", Filters: []types.Filter{testutil.NewStubFilter("is-doc", true)}},
			{Name: "invoices", Filters: []types.Filter{testutil.NewStubFilter("is-invoice", false)}, DependOn: []string{"docs"}},
			{Name: "rest", DependOn: []string{"invoices"}, DependOnInverted: []string{"invoices"}},
		},
		GroupActions: []*actions.GroupAction{
			{Name: "rest", Actions: []types.Action{rest}},
			{Name: "invoices", Actions: []types.Action{invoices}},
			{Name: "docs", Actions: []types.Action{docs}},
		},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1}, summary)
	assert.Equal(t, []string{"/in/a.txt"}, docs.Calls)
	assert.Empty(t, invoices.Calls)
	assert.Equal(t, []string{"/in/a.txt"}, rest.Calls)
}

func TestExecute_GroupStopOnlyEndsGroup(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{"/in/a.txt": ""})

	stop := testutil.NewStubAction("stop")
	stop.Fn = func(*types.Resource, bool) types.Step { return types.StopSequence() }
	skipped := testutil.NewStubAction("skipped")
	second := testutil.NewStubAction("second")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{
			{Name: "first"},
			{Name: "second"},
		},
		GroupActions: []*actions.GroupAction{
			{Name: "first", Actions: []types.Action{stop, skipped}},
			{Name: "second", Actions: []types.Action{second}},
		},
	})

	_, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Empty(t, skipped.Calls)
	assert.Equal(t, []string{"/in/a.txt"}, second.Calls)
}

func TestExecute_GroupFiltersWithFlatActions(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.pdf": "",
	})
	never := testutil.NewStubFilter("never", false)
	action := testutil.NewStubAction("record")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{
			{Name: "docs", Filters: []types.Filter{never}},
		},
		Actions: []types.Action{action},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 2}, summary)
	assert.Equal(t, []string{"/in/a.txt", "/in/b.pdf"}, never.Calls, "groups are still evaluated")
	assert.Equal(t, []string{"/in/a.txt", "/in/b.pdf"}, action.Calls)
}

func TestExecute_FailedRunKeepsSkipSet(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.txt": "",
	})
	claim := testutil.NewStubAction("claim")
	claim.Fn = func(res *types.Resource, simulate bool) types.Step {
		if res.Path == "/in/a.txt" {
			res.SkipPath("/in/b.txt")
			return types.Failure(errors.New(errors.ErrFileAccess, "claim failed"))
		}
		return types.Continue()
	}
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		Actions:   []types.Action{claim},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1, Errors: 1}, summary)
	assert.Equal(t, []string{"/in/a.txt", "/in/b.txt"}, claim.Calls)
}

func TestExecute_GroupActionsGrowSkipSet(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.txt": "",
		"/in/c.txt": "",
	})
	claim := testutil.NewStubAction("claim")
	claim.Fn = func(res *types.Resource, simulate bool) types.Step {
		if res.Path == "/in/a.txt" {
			res.SkipPath("/in/b.txt")
		}
		return types.Continue()
	}
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{
			{Name: "all", Filters: []types.Filter{testutil.NewStubFilter("any", true)}},
		},
		GroupActions: []*actions.GroupAction{
			{Name: "all", Actions: []types.Action{claim}},
		},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 2}, summary)
	assert.Equal(t, []string{"/in/a.txt", "/in/c.txt"}, claim.Calls)
}

func TestExecute_GroupMoveConsumesDestination(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{"/in/a.txt": "a"})
	testutil.MkdirAll(t, fs, "/in/sorted")

	move, err := registry.NewAction("move", "/in/sorted/")
	require.NoError(t, err)
	rule := mustRule(t, rules.Rule{
		FS:         fs,
		Locations:  []rules.Location{{Path: "/in"}},
		Subfolders: true,
		GroupFilters: []filters.GroupFilter{
			{Name: "text", Filters: []types.Filter{filters.NewExtensionFilter("txt")}},
		},
		GroupActions: []*actions.GroupAction{
			{Name: "text", Actions: []types.Action{move}},
		},
	})

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1}, summary)
	assert.True(t, testutil.Exists(fs, "/in/sorted/a.txt"))
	assert.False(t, testutil.Exists(fs, "/in/sorted/a 2.txt"), "moved files are not visited again")
}

func TestExecute_EmptyFilterModeMeansAll(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.pdf": "",
	})
	action := testutil.NewStubAction("record")
	rule := &rules.Rule{
		Enabled:   true,
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		Filters:   []types.Filter{filters.NewExtensionFilter("txt")},
		Actions:   []types.Action{action},
	}

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1}, summary)
	assert.Equal(t, []string{"/in/a.txt"}, action.Calls)
}

func TestExecute_CountsOncePerResource(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt": "",
		"/in/b.txt": "",
	})
	grouped := testutil.NewStubAction("grouped")
	grouped.Fn = func(res *types.Resource, simulate bool) types.Step {
		if res.Path == "/in/b.txt" {
			return types.Failure(errors.New(errors.ErrFileAccess, "grouped failed"))
		}
		return types.Continue()
	}
	flat := testutil.NewStubAction("flat")
	rule := &rules.Rule{
		Enabled:   true,
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{
			{Name: "all", Filters: []types.Filter{testutil.NewStubFilter("any", true)}},
		},
		GroupActions: []*actions.GroupAction{
			{Name: "all", Actions: []types.Action{grouped}},
		},
		Actions: []types.Action{flat},
	}

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1, Errors: 1}, summary)
	assert.Equal(t, []string{"/in/a.txt", "/in/b.txt"}, flat.Calls)
}

func TestExecute_MissingLocation(t *testing.T) {
	action := testutil.NewStubAction("record")
	rule := mustRule(t, rules.Rule{
		FS:        testutil.NewTestFS(),
		Locations: []rules.Location{{Path: "/missing"}},
		Actions:   []types.Action{action},
	})
	rec := output.NewRecorder()

	summary, err := rule.Execute(context.Background(), rules.ExecuteOptions{Output: rec})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Errors: 1}, summary)
	require.Len(t, rec.ByLevel(types.LevelError), 1)
	assert.Equal(t, "walker", rec.ByLevel(types.LevelError)[0].Sender)

	rule.Locations[0].IgnoreErrors = true
	summary, err = rule.Execute(context.Background(), rules.ExecuteOptions{})
	require.NoError(t, err)
	assert.Equal(t, rules.Summary{}, summary)
}

func TestExecute_Canceled(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{"/in/a.txt": ""})
	action := testutil.NewStubAction("record")
	rule := mustRule(t, rules.Rule{
		FS:        fs,
		Locations: []rules.Location{{Path: "/in"}},
		Actions:   []types.Action{action},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rule.Execute(ctx, rules.ExecuteOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, action.Calls)
}

func TestWalk_Depth(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFiles(t, fs, map[string]string{
		"/in/a.txt":          "",
		"/in/.DS_Store":      "",
		"/in/sub/b.txt":      "",
		"/in/sub/deep/c.txt": "",
	})

	collect := func(rule *rules.Rule) []string {
		var paths []string
		for res, err := range rule.Walk(0) {
			require.NoError(t, err)
			assert.Equal(t, "/in", res.BaseDir)
			paths = append(paths, res.Path)
		}
		return paths
	}
	action := []types.Action{testutil.NewStubAction("record")}

	flat := mustRule(t, rules.Rule{FS: fs, Locations: []rules.Location{{Path: "/in"}}, Actions: action})
	assert.Equal(t, []string{"/in/a.txt"}, collect(flat))

	recursive := mustRule(t, rules.Rule{FS: fs, Locations: []rules.Location{{Path: "/in"}}, Subfolders: true, Actions: action})
	assert.Equal(t, []string{"/in/a.txt", "/in/sub/b.txt", "/in/sub/deep/c.txt"}, collect(recursive))

	limited := mustRule(t, rules.Rule{
		FS:         fs,
		Locations:  []rules.Location{{Path: "/in", MaxDepth: intPtr(1), SystemExcludeFiles: []string{}}},
		Subfolders: true,
		Actions:    action,
	})
	assert.Equal(t, []string{"/in/.DS_Store", "/in/a.txt", "/in/sub/b.txt"}, collect(limited))

	dirs := mustRule(t, rules.Rule{FS: fs, Targets: types.TargetDirs, Locations: []rules.Location{{Path: "/in"}}, Subfolders: true, Actions: action})
	assert.Equal(t, []string{"/in/sub", "/in/sub/deep"}, collect(dirs))
}
