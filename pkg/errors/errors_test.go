package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeUnknownFormat, "no parser for xml"),
			expected: "[UNKNOWN_FORMAT] no parser for xml",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeIOError, "read failed", errors.New("unexpected EOF")),
			expected: "[IO_ERROR] read failed: unexpected EOF",
		},
		{
			name:     "formatted message",
			err:      Newf(CodeSourceNotFound, "missing %s", "a.txt"),
			expected: "[SOURCE_NOT_FOUND] missing a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeIOError, "read failed", underlying)

	assert.Equal(t, underlying, err.Unwrap())
	assert.ErrorIs(t, err, underlying)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeIOError, "error 1")
	err2 := New(CodeIOError, "error 2")
	err3 := New(CodeUnknownFormat, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", Wrap(CodeSuperseded, "generation 3 < 4", nil))

	assert.True(t, IsSuperseded(wrapped))
	assert.False(t, IsIOError(wrapped))
	assert.True(t, IsUnknownFormat(Newf(CodeUnknownFormat, "x")))
	assert.True(t, IsSourceNotFound(Wrap(CodeSourceNotFound, "x", errors.New("y"))))
	assert.True(t, IsIOError(ErrIOError))
	assert.False(t, IsIOError(nil))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeIOError, GetErrorCode(fmt.Errorf("ctx: %w", ErrIOError)))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
	assert.Equal(t, CodeUnknown, GetErrorCode(nil))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "report read failed", GetErrorMessage(ErrIOError))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
