package service

import (
	"fmt"

	"noteful-server/internal/repository"
)

// ErrNoteNotFound is returned for unknown ids and ids that are not numbers.
var ErrNoteNotFound = repository.ErrNoteNotFound

// ValidationError reports a required request field that is missing or blank.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing `%s` in request body", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
