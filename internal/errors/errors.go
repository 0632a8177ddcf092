package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorType classifies a failure.
type ErrorType string

const (
	// ErrorTypeValidation is a caller error: an element outside the universe,
	// an invalid universe size, or mismatched operands.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInvariant is an internal bug detected by the tree validator.
	ErrorTypeInvariant ErrorType = "invariant"
	// ErrorTypeConfiguration is a bad driver or logger setting.
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeResource is a failure to acquire or write an outside
	// resource, such as the metrics file.
	ErrorTypeResource ErrorType = "resource"
	// ErrorTypeComputation is a result disagreeing with a reference, or a
	// tree operation failing while a result is being computed.
	ErrorTypeComputation ErrorType = "computation"
)

// StructuredError provides rich error context
type StructuredError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Stack     []uintptr
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
}

// Unwrap returns the underlying cause
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new structured error
func New(errType ErrorType, operation, message string) *StructuredError {
	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, operation, format string, args ...interface{}) *StructuredError {
	se := New(errType, operation, fmt.Sprintf(format, args...))
	se.Stack = captureStack()
	return se
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, operation, message string) *StructuredError {
	if err == nil {
		return nil
	}

	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     err,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// WithContext adds context information to an error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// TypeOf reports the ErrorType of the first StructuredError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Type, true
	}
	return "", false
}

// IsType reports whether err carries a StructuredError of type t.
func IsType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}

// captureStack captures the current stack trace
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // skip Callers, captureStack and the constructor
	return pcs[:n]
}

// NewValidationError creates a validation error
func NewValidationError(operation, message string) *StructuredError {
	return New(ErrorTypeValidation, operation, message)
}

// WrapConfigurationError wraps an error as a configuration error
func WrapConfigurationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeConfiguration, operation, message)
}

// WrapComputationError wraps an error as a computation error
func WrapComputationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeComputation, operation, message)
}
