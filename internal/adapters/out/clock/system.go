// Package clock provides the production ports.Clock.
package clock

import "time"

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}
