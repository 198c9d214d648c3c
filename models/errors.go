package models

import "errors"

var (
	// ErrNotFound - the task (or notification) id resolves to nothing.
	ErrNotFound = errors.New("task not found")
	// ErrUnauthorized - the actor's role fails the guard for the action.
	ErrUnauthorized = errors.New("actor is not authorized for this action")
	// ErrInvalidTransition - the requested status change is not in the
	// transition table, including any attempt to leave completed.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict - a concurrent mutation invalidated the actor's assumed
	// prior state.
	ErrConflict = errors.New("task was modified concurrently")
)

// ValidationError reports a violated field constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
