package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource,
// e.g. editing a posted journal entry or voiding a voided one.
var ErrConflict = errors.New("conflicting resource state")

// ErrHasDependents indicates that a resource cannot be deleted while other rows
// still reference it (child entities, accounts, funds, journal entry lines).
var ErrHasDependents = errors.New("resource has dependents")

// ErrUnbalanced indicates that a journal entry's debits and credits do not balance.
var ErrUnbalanced = errors.New("journal entry does not balance")

// ErrImportState indicates an import job operation that is invalid for the job's
// current status, e.g. rolling back a job that is still processing.
var ErrImportState = errors.New("invalid import job state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
