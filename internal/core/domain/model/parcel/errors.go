package parcel

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel behind InvalidTransitionError.
var ErrInvalidTransition = errors.New("status transition is not allowed")

// InvalidTransitionError reports a status change the transition policy rejects.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
