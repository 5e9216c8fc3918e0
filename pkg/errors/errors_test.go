// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup through chains

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/dosort/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "cyclic_dependency",
			code:    errors.ErrCyclicDependency,
			message: "groups a, b form a cycle",
			wantStr: "[CYCLIC_DEPENDENCY] groups a, b form a cycle",
		},
		{
			name:    "filter_not_found",
			code:    errors.ErrFilterNotFound,
			message: "unknown filter",
			wantStr: "[FILTER_NOT_FOUND] unknown filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("permission denied")

	err := errors.Wrapf(base, errors.ErrActionExecute, "action %s failed", "move")
	require.NotNil(t, err)

	assert.Equal(t, "[ACTION_EXECUTE] action move failed: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "nothing %d", 1))
}

func TestIs(t *testing.T) {
	err := errors.New(errors.ErrCyclicDependency, "cycle")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrCyclicDependency, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrConfigInvalid, "cycle")))
}

func TestIsErrorCode(t *testing.T) {
	inner := errors.New(errors.ErrCyclicDependency, "cycle")
	outer := errors.Wrap(inner, errors.ErrConfigInvalid, "rule 'photos' is invalid")
	plain := fmt.Errorf("context: %w", outer)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrConfigInvalid))
	assert.True(t, errors.IsErrorCode(outer, errors.ErrCyclicDependency))
	assert.True(t, errors.IsErrorCode(plain, errors.ErrCyclicDependency))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrActionExecute))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrUnknown))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrUnknown))
}

func TestGetErrorCodeAndDetails(t *testing.T) {
	err := errors.New(errors.ErrTargetUnsupported, "filter does not support dirs").
		WithDetail("filter", "extension").
		WithDetail("targets", "dirs")

	assert.Equal(t, errors.ErrTargetUnsupported, errors.GetErrorCode(err))
	assert.Equal(t, "extension", errors.GetErrorDetails(err)["filter"])
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
