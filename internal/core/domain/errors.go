package domain

import (
	"errors"
	"fmt"
)

var (
	ErrElectionNotFound = errors.New("election not found")
	ErrVoterNotFound    = errors.New("voter not found")
	ErrAlreadyVoted     = errors.New("you have already voted in this election")
	ErrWriteConflict    = errors.New("the record was changed by a concurrent request, please try again")
	ErrHasVotes         = errors.New("votes have already been recorded for this election")
	ErrForbidden        = errors.New("you are not allowed to perform this action")
)

// ValidationError carries a user-facing message for a rule-violating request.
// Always recoverable by correcting the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StateError reports an operation that is illegal in the election's current
// lifecycle phase, such as voting before the window opens.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(format string, args ...any) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}
