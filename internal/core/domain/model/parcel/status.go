package parcel

import (
	"fmt"
	"strings"

	"tracking/internal/pkg/errs"
)

// Status is a lifecycle state of a package. Its wire and storage form is the
// name returned by String.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota

	// Created is assigned when the package is registered.
	Created

	// Sent means the package has left the sender.
	Sent

	// Accepted means the recipient took the package. Terminal.
	Accepted

	// Returned means the package came back and may be sent again.
	Returned

	// Canceled means the shipment was abandoned. Terminal.
	Canceled
)

var statusNames = map[Status]string{
	Created:  "Created",
	Sent:     "Sent",
	Accepted: "Accepted",
	Returned: "Returned",
	Canceled: "Canceled",
}

// Statuses lists every valid status in declaration order.
func Statuses() []Status {
	return []Status{Created, Sent, Accepted, Returned, Canceled}
}

// ParseStatus maps a status name (case-insensitive) to its Status.
//
// Example:
//
//	s, err := parcel.ParseStatus("sent") // parcel.Sent
func ParseStatus(name string) (Status, error) {
	trimmed := strings.TrimSpace(name)
	for s, n := range statusNames {
		if strings.EqualFold(n, trimmed) {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// Validate rejects Unknown and any value outside the declared constants.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(transitionTable[s]) == 0
}

// AllowedTransitions is shorthand for the package level AllowedTransitions.
func (s Status) AllowedTransitions() []Status {
	return AllowedTransitions(s)
}

// CanTransitionTo is shorthand for IsValidTransition(s, next).
func (s Status) CanTransitionTo(next Status) bool {
	return IsValidTransition(s, next)
}

func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
