package domain

import "fmt"

// UsageError indicates the caller invoked the tool without the inputs it
// needs (no query and no query file). It terminates the run before any
// cache or engine interaction.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnresolvedPlaceholderError indicates a template placeholder was left
// without a binding while running in strict (non-interactive) mode.
type UnresolvedPlaceholderError struct {
	Name string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder %q (no binding supplied and interactive prompting is disabled)", e.Name)
}

// ErrUsage creates a UsageError with a formatted message.
func ErrUsage(format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnresolved creates an UnresolvedPlaceholderError for the named placeholder.
func ErrUnresolved(name string) *UnresolvedPlaceholderError {
	return &UnresolvedPlaceholderError{Name: name}
}
