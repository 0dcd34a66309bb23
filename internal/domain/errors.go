package domain

import "errors"

var (
	// ErrValidation marks rejected input; the store is left untouched.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an edit/delete/get target that the owner does not have.
	ErrNotFound = errors.New("not found")
	// ErrIO marks an unreadable, unwritable or corrupt store.
	ErrIO = errors.New("storage failure")
	// ErrUnauthorized marks a missing or rejected identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict marks a uniqueness clash outside contact validation (usernames).
	ErrConflict = errors.New("conflict")
)

// ValidationError carries the human-readable rejection reason.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type reasonError struct {
	msg  string
	kind error
}

func (e *reasonError) Error() string        { return e.msg }
func (e *reasonError) Is(target error) bool { return target == e.kind }

// Reason returns an error whose message is msg and which matches kind
// under errors.Is.
func Reason(kind error, msg string) error {
	return &reasonError{msg: msg, kind: kind}
}
