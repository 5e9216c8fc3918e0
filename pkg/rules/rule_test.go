// Test Type: Unit Test
// Description: Tests for rule construction - defaults and configuration validation

package rules_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dosort/pkg/actions"
	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/output"
	"github.com/arthur-debert/dosort/pkg/rules"
	"github.com/arthur-debert/dosort/pkg/testutil"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	fileOnly := testutil.NewStubAction("file-only")
	fileOnly.Dirs = false
	fileOnly.Standalone = false
	dirFilter := testutil.NewStubFilter("dir-filter", true)
	dirFilter.Files = false
	loc := []rules.Location{{Path: "/in"}}
	act := []types.Action{testutil.NewStubAction("act")}

	tests := []struct {
		name string
		rule rules.Rule
		code errors.ErrorCode
	}{
		{
			name: "no actions",
			rule: rules.Rule{Locations: loc},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "unknown target",
			rule: rules.Rule{Targets: "links", Locations: loc, Actions: act},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "unknown filter mode",
			rule: rules.Rule{FilterMode: "most", Locations: loc, Actions: act},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "empty location path",
			rule: rules.Rule{Locations: []rules.Location{{}}, Actions: act},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "invalid exclude pattern",
			rule: rules.Rule{Locations: []rules.Location{{Path: "/in", ExcludeFiles: []string{"[a"}}}, Actions: act},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "flat and group filters",
			rule: rules.Rule{
				Locations:    loc,
				Filters:      []types.Filter{testutil.NewStubFilter("f", true)},
				GroupFilters: []filters.GroupFilter{{Name: "g"}},
				Actions:      act,
			},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "flat and group actions",
			rule: rules.Rule{
				Locations:    loc,
				GroupFilters: []filters.GroupFilter{{Name: "g"}},
				Actions:      act,
				GroupActions: []*actions.GroupAction{{Name: "g", Actions: act}},
			},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "group actions without group filters",
			rule: rules.Rule{
				Locations:    loc,
				GroupActions: []*actions.GroupAction{{Name: "g", Actions: act}},
			},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "duplicate group actions",
			rule: rules.Rule{
				Locations:    loc,
				GroupFilters: []filters.GroupFilter{{Name: "g"}},
				GroupActions: []*actions.GroupAction{{Name: "g", Actions: act}, {Name: "g", Actions: act}},
			},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "cyclic group filters",
			rule: rules.Rule{
				Locations: loc,
				GroupFilters: []filters.GroupFilter{
					{Name: "a", DependOn: []string{"b"}},
					{Name: "b", DependOn: []string{"a"}},
				},
				GroupActions: []*actions.GroupAction{{Name: "a", Actions: act}},
			},
			code: errors.ErrCyclicDependency,
		},
		{
			name: "unknown depend_on_mode",
			rule: rules.Rule{
				Locations:    loc,
				GroupFilters: []filters.GroupFilter{{Name: "g", DependOnMode: "xor"}},
				GroupActions: []*actions.GroupAction{{Name: "g", Actions: act}},
			},
			code: errors.ErrConfigInvalid,
		},
		{
			name: "standalone with filters",
			rule: rules.Rule{Filters: []types.Filter{testutil.NewStubFilter("f", true)}, Actions: act},
			code: errors.ErrStandaloneUnsupported,
		},
		{
			name: "standalone with location-only action",
			rule: rules.Rule{Actions: []types.Action{fileOnly}},
			code: errors.ErrStandaloneUnsupported,
		},
		{
			name: "action does not support dirs",
			rule: rules.Rule{Targets: types.TargetDirs, Locations: loc, Actions: []types.Action{fileOnly}},
			code: errors.ErrTargetUnsupported,
		},
		{
			name: "filter does not support files",
			rule: rules.Rule{Locations: loc, Filters: []types.Filter{dirFilter}, Actions: act},
			code: errors.ErrTargetUnsupported,
		},
		{
			name: "group filter member does not support files",
			rule: rules.Rule{
				Locations:    loc,
				GroupFilters: []filters.GroupFilter{{Name: "g", Filters: []types.Filter{dirFilter}}},
				GroupActions: []*actions.GroupAction{{Name: "g", Actions: act}},
			},
			code: errors.ErrTargetUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.New(tt.rule)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	rule, err := rules.New(rules.Rule{
		Locations:    []rules.Location{{Path: "/in"}},
		GroupFilters: []filters.GroupFilter{{Name: "g"}},
		GroupActions: []*actions.GroupAction{{Name: "g", Actions: []types.Action{testutil.NewStubAction("a")}}},
	})

	require.NoError(t, err)
	assert.Equal(t, types.TargetFiles, rule.Targets)
	assert.Equal(t, types.FilterModeAll, rule.FilterMode)
	assert.Equal(t, types.DependOnAnd, rule.GroupFilters[0].DependOnMode)
	assert.Equal(t, types.FilterModeAll, rule.GroupFilters[0].FilterMode)
	assert.NotNil(t, rule.FS)
	assert.Equal(t, "Rule #3", rule.DisplayName(3))
}

func TestShouldExecute(t *testing.T) {
	tests := []struct {
		name     string
		ruleTags []string
		tags     []string
		skipTags []string
		want     bool
	}{
		{"no selection runs everything", []string{"photos"}, nil, nil, true},
		{"untagged rule without selection", nil, nil, nil, true},
		{"matching tag", []string{"photos"}, []string{"photos"}, nil, true},
		{"other tag", []string{"photos"}, []string{"music"}, nil, false},
		{"untagged rule with tags", nil, []string{"photos"}, nil, false},
		{"all selects tagged rules", []string{"photos"}, []string{"all"}, nil, true},
		{"skipped tag", []string{"photos"}, nil, []string{"photos"}, false},
		{"skip all", []string{"photos"}, nil, []string{"all"}, false},
		{"untagged rule with skip tags", nil, nil, []string{"photos"}, true},
		{"run and skip", []string{"photos", "raw"}, []string{"photos"}, []string{"raw"}, false},
		{"always runs", []string{"always"}, []string{"music"}, nil, true},
		{"always despite skip all", []string{"always"}, nil, []string{"all"}, true},
		{"always can be skipped", []string{"always"}, nil, []string{"always"}, false},
		{"never without selection", []string{"never"}, nil, nil, false},
		{"never with all", []string{"never"}, []string{"all"}, nil, false},
		{"never when requested", []string{"never"}, []string{"never"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.ShouldExecute(tt.ruleTags, tt.tags, tt.skipTags))
		})
	}
}

type reportingOutput struct {
	*output.Recorder
	started []string
}

func (o *reportingOutput) RuleStart(nr int, name string) {
	o.started = append(o.started, name)
}

func TestRun(t *testing.T) {
	photos := testutil.NewStubAction("photos")
	music := testutil.NewStubAction("music")
	disabled := testutil.NewStubAction("disabled")

	ruleList := []*rules.Rule{
		mustRule(t, rules.Rule{Name: "photos", Tags: []string{"photos"}, Actions: []types.Action{photos}}),
		mustRule(t, rules.Rule{Tags: []string{"music"}, Actions: []types.Action{music}}),
		mustRule(t, rules.Rule{Name: "off", Actions: []types.Action{disabled}}),
	}
	ruleList[2].Enabled = false
	out := &reportingOutput{Recorder: output.NewRecorder()}

	summary, err := rules.Run(context.Background(), ruleList, rules.RunOptions{Output: out})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 2}, summary)
	assert.Equal(t, []string{"photos", "Rule #1"}, out.started)
	assert.Empty(t, disabled.Calls)

	out.started = nil
	summary, err = rules.Run(context.Background(), ruleList, rules.RunOptions{Output: out, Tags: []string{"music"}})

	require.NoError(t, err)
	assert.Equal(t, rules.Summary{Success: 1}, summary)
	assert.Equal(t, []string{"Rule #1"}, out.started)
}

func TestRun_StopsOnCancel(t *testing.T) {
	action := testutil.NewStubAction("a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rules.Run(ctx, []*rules.Rule{mustRule(t, rules.Rule{Actions: []types.Action{action}})}, rules.RunOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, action.Calls)
}
