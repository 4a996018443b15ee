package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudioErrorString(t *testing.T) {
	testCases := []struct {
		name     string
		err      *StudioError
		contains []string
	}{
		{
			name:     "validation with field",
			err:      NewValidationError(ErrCodeInvalidField, "iframeUrl must be a non-empty string").WithField("iframeUrl"),
			contains: []string{"[ERR_INVALID_FIELD]", "field:iframeUrl", "non-empty"},
		},
		{
			name:     "parse with location",
			err:      NewParseError(ErrCodeSyntax, "unexpected token", 3, 7),
			contains: []string{"[ERR_SYNTAX]", "line 3:7", "unexpected token"},
		},
		{
			name:     "io with cause",
			err:      NewIOError(ErrCodeFileNotFound, "read catalog", fmt.Errorf("no such file")),
			contains: []string{"read catalog", "no such file"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, want := range tc.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestStudioErrorIs(t *testing.T) {
	err := fmt.Errorf("apply text: %w", NewValidationError(ErrCodeMissingType, "content.type is required"))

	assert.True(t, errors.Is(err, NewValidationError(ErrCodeMissingType, "")))
	assert.False(t, errors.Is(err, NewValidationError(ErrCodeMissingContent, "")))
	assert.True(t, IsValidation(err))
	assert.True(t, IsRecoverable(err))
	assert.False(t, IsParse(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsParse(NewParseError(ErrCodeSyntax, "x", 1, 1)))
	assert.True(t, IsNotFound(ErrTemplateNotFound("missing")))
	assert.True(t, IsNotFound(ErrSessionNotFound("missing")))
	assert.False(t, IsRecoverable(NewConfigError(ErrCodeConfigInvalid, "bad")))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

func TestToDiagnostic(t *testing.T) {
	assert.Nil(t, ToDiagnostic(nil))

	d := ToDiagnostic(NewParseError(ErrCodeSyntax, "unterminated string", 2, 5))
	require.NotNil(t, d)
	assert.Equal(t, "parse", d.Kind)
	assert.Equal(t, ErrCodeSyntax, d.Code)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)

	d = ToDiagnostic(errors.New("boom"))
	require.NotNil(t, d)
	assert.Equal(t, "internal", d.Kind)
	assert.Equal(t, "boom", d.Message)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "y"))

	base := NewValidationError(ErrCodeInvalidField, "bad").WithField("script")
	wrapped := Wrap(base, ErrorTypeValidation, ErrCodeValidationFailed, "template rejected")
	assert.Equal(t, "script", wrapped.Field)
	assert.True(t, wrapped.Recoverable)
	assert.ErrorIs(t, wrapped, base)

	ioErr := WrapIO(errors.New("disk"), ErrCodeFileNotFound, "open")
	assert.False(t, ioErr.Recoverable)
	assert.Equal(t, ErrorTypeIO, ioErr.Type)
}

func TestErrorCollector(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())
	assert.NoError(t, collector.Err())

	collector.Add(nil)
	assert.False(t, collector.HasErrors())

	first := NewValidationError(ErrCodeInvalidField, "first")
	collector.Add(first)
	assert.Equal(t, first, collector.Err())

	collector.Add(errors.New("second"))
	assert.Len(t, collector.Errors(), 2)

	err := collector.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
	assert.True(t, IsValidation(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, ErrCodeSessionLimit, CodeOf(NewValidationError(ErrCodeSessionLimit, "full")))

	wrapped := Wrap(NewParseError(ErrCodeSyntax, "bad", 1, 1), ErrorTypeValidation, ErrCodeValidationFailed, "outer")
	assert.Equal(t, ErrCodeValidationFailed, CodeOf(wrapped))
}
