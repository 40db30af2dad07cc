package core

import "github.com/pkg/errors"

// FieldError describes a problem with a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned by domain services when input fails a check
// that the struct validators cannot express, such as a uniqueness lookup.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// shutdown signals that the application cannot continue and should exit
// gracefully. Integrity errors (broken DB connection, corrupt state) wrap it.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks whether a shutdown error lurks anywhere in err's chain.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
