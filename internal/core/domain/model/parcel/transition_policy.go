package parcel

import "slices"

// transitionTable is the only source of truth for status changes. It is
// built once and never written afterwards, so concurrent reads are safe.
var transitionTable = map[Status][]Status{
	Created:  {Sent, Canceled},
	Sent:     {Accepted, Returned, Canceled},
	Returned: {Sent, Canceled},
	Accepted: {},
	Canceled: {},
}

// AllowedTransitions returns the statuses reachable from current in one step,
// in a fixed order. The result is a fresh slice the caller may modify. It is
// empty for terminal statuses and for values that are not valid statuses.
func AllowedTransitions(current Status) []Status {
	next, ok := transitionTable[current]
	if !ok {
		return []Status{}
	}
	return slices.Clone(next)
}

// IsValidTransition reports whether the table permits from -> to. Self
// transitions and anything involving an invalid status are rejected.
func IsValidTransition(from, to Status) bool {
	return slices.Contains(transitionTable[from], to)
}
