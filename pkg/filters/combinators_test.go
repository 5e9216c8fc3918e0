// Test Type: Unit Test
// Description: Tests for filter combinators - all, any and none modes with stub filters

package filters_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/arthur-debert/dosort/pkg/filters"
	"github.com/arthur-debert/dosort/pkg/output"
	"github.com/arthur-debert/dosort/pkg/testutil"
	"github.com/arthur-debert/dosort/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutil.SilenceLogs()
	m.Run()
}

func stubs(matches ...bool) []types.Filter {
	result := make([]types.Filter, len(matches))
	for i, m := range matches {
		result[i] = testutil.NewStubFilter(fmt.Sprintf("f%d", i), m)
	}
	return result
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		mode    types.FilterMode
		matches []bool
		want    bool
	}{
		{"all empty", types.FilterModeAll, nil, true},
		{"any empty", types.FilterModeAny, nil, false},
		{"none empty", types.FilterModeNone, nil, true},
		{"all true", types.FilterModeAll, []bool{true, true}, true},
		{"all one false", types.FilterModeAll, []bool{true, false}, false},
		{"any one true", types.FilterModeAny, []bool{false, true}, true},
		{"any all false", types.FilterModeAny, []bool{false, false}, false},
		{"none all false", types.FilterModeNone, []bool{false, false}, true},
		{"none one true", types.FilterModeNone, []bool{false, true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := types.NewResource(nil, "/in/a", "/in", 0)
			got, err := filters.Evaluate(stubs(tt.matches...), tt.mode, res, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_UnknownMode(t *testing.T) {
	_, err := filters.Evaluate(nil, "some", types.NewResource(nil, "/a", "/", 0), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestAll_ShortCircuits(t *testing.T) {
	first := testutil.NewStubFilter("first", false)
	second := testutil.NewStubFilter("second", true)

	assert.False(t, filters.All([]types.Filter{first, second}, types.NewResource(nil, "/a", "/", 0), nil))
	assert.Len(t, first.Calls, 1)
	assert.Empty(t, second.Calls)
}

func TestAll_ErrorCountsAsNonMatch(t *testing.T) {
	failing := testutil.NewStubFilter("failing", true)
	failing.Fn = func(*types.Resource) (bool, error) { return true, fmt.Errorf("cannot stat") }
	after := testutil.NewStubFilter("after", true)
	rec := output.NewRecorder()

	matched := filters.All([]types.Filter{failing, after}, types.NewResource(nil, "/a", "/", 0), rec)

	assert.False(t, matched)
	assert.Empty(t, after.Calls)
	require.Len(t, rec.Messages(), 1)
	assert.Equal(t, "failing", rec.Messages()[0].Sender)
	assert.Equal(t, types.LevelError, rec.Messages()[0].Level)
}

func TestAny_EvaluatesEveryFilter(t *testing.T) {
	failing := testutil.NewStubFilter("failing", true)
	failing.Fn = func(*types.Resource) (bool, error) { return false, fmt.Errorf("bad") }
	matching := testutil.NewStubFilter("matching", true)
	last := testutil.NewStubFilter("last", false)
	rec := output.NewRecorder()

	matched := filters.Any([]types.Filter{failing, matching, last}, types.NewResource(nil, "/a", "/", 0), rec)

	assert.True(t, matched)
	assert.Len(t, last.Calls, 1)
	assert.Len(t, rec.ByLevel(types.LevelError), 1)
}

func TestNot(t *testing.T) {
	res := types.NewResource(nil, "/a", "/", 0)
	inner := testutil.NewStubFilter("inner", true)
	inverted := filters.Not(inner)

	matched, err := inverted.Pipeline(res, nil)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, "inner", inverted.Config().Name)

	inner.Fn = func(*types.Resource) (bool, error) { return false, fmt.Errorf("bad") }
	_, err = inverted.Pipeline(res, nil)
	assert.Error(t, err, "errors are not inverted into matches")
}
