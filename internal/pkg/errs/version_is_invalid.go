package errs

import (
	"errors"
	"fmt"
)

// ErrVersionIsInvalid is the sentinel behind VersionIsInvalidError. Stores
// return it when an optimistic write finds a newer revision than expected.
var ErrVersionIsInvalid = errors.New("version is invalid")

// VersionIsInvalidError reports a stale or otherwise unusable revision.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError with details
// about the mismatch.
//
// Example:
//
//	return errs.NewVersionIsInvalidErrorWithCause("version",
//	    fmt.Errorf("package %s was modified concurrently", id))
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrVersionIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}
