package errors

import (
	"errors"
	"strings"
	"sync"
)

// Wrap wraps an error with additional context, creating a StudioError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *StudioError {
	if err == nil {
		return nil
	}

	var se *StudioError
	if errors.As(err, &se) {
		return &StudioError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Field:       se.Field,
			Line:        se.Line,
			Column:      se.Column,
			Recoverable: se.Recoverable,
		}
	}

	return &StudioError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeParse,
	}
}

// WrapIO wraps an error as an I/O error.
func WrapIO(err error, code, message string) *StudioError {
	se := Wrap(err, ErrorTypeIO, code, message)
	if se != nil {
		se.Recoverable = false
	}
	return se
}

// ErrorCollector aggregates errors produced by a multi-step check such as a
// catalog load or a config validation pass.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make([]error, 0)}
}

// Add records a non-nil error.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// Errors returns a copy of the collected errors.
func (ec *ErrorCollector) Errors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// HasErrors returns true if any error was collected.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Err folds the collected errors into one StudioError, or nil.
func (ec *ErrorCollector) Err() error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	switch len(ec.errors) {
	case 0:
		return nil
	case 1:
		return ec.errors[0]
	}

	messages := make([]string, 0, len(ec.errors))
	for _, err := range ec.errors {
		messages = append(messages, err.Error())
	}

	return &StudioError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeValidationFailed,
		Message:     strings.Join(messages, "; "),
		Cause:       errors.Join(ec.errors...),
		Recoverable: true,
	}
}
