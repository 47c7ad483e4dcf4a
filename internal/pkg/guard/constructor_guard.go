// Package guard lets value objects, aggregates and use-case messages detect
// whether they were created through their constructor or left as zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard when
// the caller does not supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose zero value is not meaningful.
// Only NewConstructorGuard produces a guard that validates successfully.
//
// Example:
//
//	var ErrContactNotConstructed = errors.New("Contact must be created via NewContact")
//
//	type Contact struct {
//	    name  string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c Contact) Validate() error {
//	    return c.guard.Validate(ErrContactNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a guard created by NewConstructorGuard. For a zero
// value it returns validationError, or ErrDefaultConstructorGuard when that is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
