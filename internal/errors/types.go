// Package errors provides the structured error taxonomy shared by the studio.
//
// Schema and parse errors raised while editing are recoverable: callers keep
// the last good model and surface the error as a diagnostic. Nothing in the
// editing core returns a non-recoverable error.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeMissingContent     = "ERR_MISSING_CONTENT"
	ErrCodeMissingType        = "ERR_MISSING_TYPE"
	ErrCodeUnknownType        = "ERR_UNKNOWN_TYPE"
	ErrCodeInvalidField       = "ERR_INVALID_FIELD"
	ErrCodeUnknownFramework   = "ERR_UNKNOWN_FRAMEWORK"
	ErrCodeInvalidEncoding    = "ERR_INVALID_ENCODING"
	ErrCodeSyntax             = "ERR_SYNTAX"
	ErrCodeScriptSyntax       = "ERR_SCRIPT_SYNTAX"
	ErrCodeAdapterField       = "ERR_ADAPTER_FIELD"
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
	ErrCodeTemplateNotFound   = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeSessionNotFound    = "ERR_SESSION_NOT_FOUND"
	ErrCodeFileNotFound       = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL"
	ErrCodeValidationFailed   = "ERR_VALIDATION_FAILED"
	ErrCodeUnsupportedEdit    = "ERR_UNSUPPORTED_EDIT"
	ErrCodeDuplicateTemplate  = "ERR_DUPLICATE_TEMPLATE"
	ErrCodeInvalidCatalogFile = "ERR_INVALID_CATALOG"
	ErrCodeSessionLimit       = "ERR_SESSION_LIMIT"
)

// StudioError is a structured error type with context.
type StudioError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Field       string
	Line        int
	Column      int
	Recoverable bool
}

// Error implements the error interface.
func (e *StudioError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Field != "" {
		parts = append(parts, "field:"+e.Field)
	}

	if e.Line > 0 {
		location := fmt.Sprintf("line %d", e.Line)
		if e.Column > 0 {
			location += fmt.Sprintf(":%d", e.Column)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *StudioError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *StudioError) Is(target error) bool {
	var t *StudioError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *StudioError) WithContext(key string, value interface{}) *StudioError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithField records which model field the error refers to.
func (e *StudioError) WithField(field string) *StudioError {
	e.Field = field

	return e
}

// WithLocation adds a line/column position inside edited text.
func (e *StudioError) WithLocation(line, column int) *StudioError {
	e.Line = line
	e.Column = column

	return e
}

// Diagnostic is the user-facing projection of an error shown next to an
// editing surface.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ToDiagnostic converts any error into a Diagnostic. Nil yields nil.
func ToDiagnostic(err error) *Diagnostic {
	if err == nil {
		return nil
	}

	var se *StudioError
	if errors.As(err, &se) {
		return &Diagnostic{
			Kind:    string(se.Type),
			Code:    se.Code,
			Message: se.Message,
			Field:   se.Field,
			Line:    se.Line,
			Column:  se.Column,
		}
	}

	return &Diagnostic{Kind: string(ErrorTypeInternal), Message: err.Error()}
}

// Error creation functions

// NewValidationError creates a schema validation error.
func NewValidationError(code, message string) *StudioError {
	return &StudioError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewParseError creates a syntax error located inside edited text.
func NewParseError(code, message string, line, column int) *StudioError {
	return &StudioError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Line:        line,
		Column:      column,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *StudioError {
	return &StudioError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *StudioError {
	return &StudioError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewNotFoundError creates a lookup failure for templates or sessions.
func NewNotFoundError(code, message string) *StudioError {
	return &StudioError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *StudioError {
	return &StudioError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var se *StudioError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// IsValidation checks if an error is a schema validation error.
func IsValidation(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsParse checks if an error is a syntax error in edited text.
func IsParse(err error) bool {
	return hasType(err, ErrorTypeParse)
}

// IsNotFound checks if an error reports a missing template or session.
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// CodeOf returns the code of the outermost StudioError in err's chain, or "".
func CodeOf(err error) string {
	var se *StudioError
	if errors.As(err, &se) {
		return se.Code
	}

	return ""
}

func hasType(err error, t ErrorType) bool {
	var se *StudioError
	if errors.As(err, &se) {
		return se.Type == t
	}

	return false
}

// ErrTemplateNotFound creates a template lookup error.
func ErrTemplateNotFound(id string) *StudioError {
	return NewNotFoundError(ErrCodeTemplateNotFound, "template not found: "+id)
}

// ErrSessionNotFound creates a session lookup error.
func ErrSessionNotFound(id string) *StudioError {
	return NewNotFoundError(ErrCodeSessionNotFound, "session not found: "+id)
}
