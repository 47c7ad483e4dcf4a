package parcel

import (
	"strings"
	"time"
	"unicode/utf8"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

const (
	// NotesMaxLength bounds the free-text notes of a history entry.
	NotesMaxLength = 500

	// CreatedNotes is recorded on the first history entry of every package.
	CreatedNotes = "Package created"
)

var ErrStatusEventIsNotConstructed = errs.NewValueIsRequiredError("status event must be created via NewStatusEvent")

// StatusEvent is one immutable entry of a package's history. Timestamps are
// kept in UTC at microsecond precision so they survive a database round trip
// unchanged. Empty notes mean no notes were given.
type StatusEvent struct {
	status    Status
	timestamp time.Time
	notes     string
	guard     guard.ConstructorGuard
}

// NewStatusEvent validates status and notes and normalizes the timestamp.
func NewStatusEvent(status Status, at time.Time, notes string) (StatusEvent, error) {
	if err := status.Validate(); err != nil {
		return StatusEvent{}, err
	}
	if at.IsZero() {
		return StatusEvent{}, errs.NewValueIsRequiredError("timestamp")
	}
	notes = strings.TrimSpace(notes)
	if n := utf8.RuneCountInString(notes); n > NotesMaxLength {
		return StatusEvent{}, errs.NewValueIsOutOfRangeError("notes length", n, 0, NotesMaxLength)
	}

	return StatusEvent{
		status:    status,
		timestamp: normalizeTime(at),
		notes:     notes,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e StatusEvent) Validate() error {
	return e.guard.Validate(ErrStatusEventIsNotConstructed)
}

func (e StatusEvent) Status() Status {
	return e.status
}

func (e StatusEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e StatusEvent) Notes() string {
	return e.notes
}

func (e StatusEvent) HasNotes() bool {
	return e.notes != ""
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
