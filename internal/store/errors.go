package store

import (
	"errors"
	"fmt"
)

// ValidationError covers bad user input caught at the boundary: empty
// required fields, duplicate category names, short passwords. Callers show
// the message inline and do not attempt the mutation.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func errValidation(format string, args ...any) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return errValidation(format, args...)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// RemoteError wraps a storage or auth call failure. In-memory state is left
// unchanged and the operation is not auto-retried.
type RemoteError struct {
	Op  string
	Err error
}

func (e RemoteError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e RemoteError) Unwrap() error { return e.Err }

func errRemote(op string, err error) error {
	return RemoteError{Op: op, Err: err}
}

func IsRemote(err error) bool {
	var re RemoteError
	return errors.As(err, &re)
}

// NotFoundError is returned when an update/delete references an id that no
// longer exists. Callers treat it as a no-op with a diagnostic, not user-fatal.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

func errNotFound(kind, id string) error {
	return NotFoundError{Kind: kind, ID: id}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
