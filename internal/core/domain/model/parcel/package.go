package parcel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

var (
	// ErrPackageIsNotConstructed is returned by Validate for a Package that was
	// not obtained from NewPackage or RestorePackage.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage or RestorePackage")

	// ErrIDAlreadyAssigned is returned when a store tries to re-identify a package.
	ErrIDAlreadyAssigned = errors.New("package id is already assigned")
)

// Package is the aggregate root of the tracking domain.
//
// Package follows these invariants:
//   - history is never empty and starts with a Created event
//   - history timestamps never decrease
//   - every consecutive pair of history entries is an allowed transition
//   - CurrentStatus and LastUpdated are read from the last history entry,
//     so they cannot disagree with it
//   - tracking number, sender and recipient never change after creation
//   - the identifier is assigned exactly once, by the store that first saves it
//
// Package is not safe for concurrent mutation. The application layer
// serializes writers per package and stores use the version for
// optimistic concurrency.
type Package struct {
	id             kernel.UUID
	trackingNumber kernel.TrackingNumber
	sender         kernel.Contact
	recipient      kernel.Contact
	history        []StatusEvent

	// version is the stored revision this instance was loaded at, 0 if unsaved.
	version int64

	// unsaved counts trailing history entries not yet written to the store.
	unsaved int

	events        []DomainEvent
	isConstructed bool
}

// NewPackage registers a package in the Created status. The single history
// entry carries CreatedNotes and the given instant, which also becomes the
// creation and last update time.
//
// Example:
//
//	sender, _ := kernel.NewContact("Alice", "1 Main St", "555-0100")
//	recipient, _ := kernel.NewContact("Bob", "2 Oak Ave", "555-0199")
//	pkg, err := parcel.NewPackage(kernel.GenerateTrackingNumber(now), sender, recipient, now)
func NewPackage(
	trackingNumber kernel.TrackingNumber,
	sender kernel.Contact,
	recipient kernel.Contact,
	now time.Time,
) (*Package, error) {
	first, err := NewStatusEvent(Created, now, CreatedNotes)
	if err != nil {
		return nil, err
	}

	p := &Package{isConstructed: true}
	if err = errors.Join(
		p.setTrackingNumber(trackingNumber),
		p.setContact("sender", &p.sender, sender),
		p.setContact("recipient", &p.recipient, recipient),
	); err != nil {
		return nil, err
	}

	p.history = []StatusEvent{first}
	p.unsaved = 1
	p.events = append(p.events, PackageCreated{
		TrackingNumber: trackingNumber,
		At:             first.Timestamp(),
	})

	return p, nil
}

// RestorePackage rebuilds a package from stored state and re-checks every
// invariant, so corrupted rows surface as errors instead of invalid aggregates.
func RestorePackage(
	id kernel.UUID,
	trackingNumber kernel.TrackingNumber,
	sender kernel.Contact,
	recipient kernel.Contact,
	history []StatusEvent,
	version int64,
) (*Package, error) {
	p := &Package{
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		p.setTrackingNumber(trackingNumber),
		p.setContact("sender", &p.sender, sender),
		p.setContact("recipient", &p.recipient, recipient),
		validateHistory(history),
	); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 1, int64(math.MaxInt64))
	}

	p.id = id
	p.history = append([]StatusEvent(nil), history...)
	return p, nil
}

func (p *Package) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackageIsNotConstructed
	}
	return nil
}

// ID returns the store-assigned identifier, the zero UUID before the first save.
func (p *Package) ID() kernel.UUID {
	return p.id
}

func (p *Package) TrackingNumber() kernel.TrackingNumber {
	return p.trackingNumber
}

func (p *Package) Sender() kernel.Contact {
	return p.sender
}

func (p *Package) Recipient() kernel.Contact {
	return p.recipient
}

func (p *Package) CurrentStatus() Status {
	return p.lastEvent().Status()
}

func (p *Package) CreatedAt() time.Time {
	return p.history[0].Timestamp()
}

func (p *Package) LastUpdated() time.Time {
	return p.lastEvent().Timestamp()
}

// History returns a copy of the history in chronological order.
func (p *Package) History() []StatusEvent {
	return append([]StatusEvent(nil), p.history...)
}

func (p *Package) Version() int64 {
	return p.version
}

// ValidTransitions lists the statuses this package may move to next.
func (p *Package) ValidTransitions() []Status {
	return AllowedTransitions(p.CurrentStatus())
}

// ChangeStatus appends a history entry moving the package to next.
//
// The policy is consulted before anything else; on any error the package is
// left exactly as it was. An instant earlier than the last entry is raised
// to that entry's timestamp so history stays ordered under clock skew.
//
// Returns:
//   - nil on success
//   - ValueIsInvalidError if next is not a valid status
//   - InvalidTransitionError if the policy does not allow the change
//   - ValueIsOutOfRangeError if notes are too long
func (p *Package) ChangeStatus(next Status, notes string, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	current := p.CurrentStatus()
	if !IsValidTransition(current, next) {
		return NewInvalidTransitionError(current, next)
	}

	if last := p.LastUpdated(); at.Before(last) {
		at = last
	}
	event, err := NewStatusEvent(next, at, notes)
	if err != nil {
		return err
	}

	p.history = append(p.history, event)
	p.unsaved++
	p.events = append(p.events, StatusChanged{
		TrackingNumber: p.trackingNumber,
		From:           current,
		To:             next,
		Notes:          event.Notes(),
		At:             event.Timestamp(),
	})
	return nil
}

// AssignID is called by a store when it first persists the package.
func (p *Package) AssignID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if !p.id.IsZero() {
		return fmt.Errorf("%w: %s", ErrIDAlreadyAssigned, p.id)
	}
	p.id = id
	return nil
}

// UnsavedHistory returns the trailing history entries appended since the
// package was loaded or last saved.
func (p *Package) UnsavedHistory() []StatusEvent {
	return append([]StatusEvent(nil), p.history[len(p.history)-p.unsaved:]...)
}

// MarkSaved records that the store now holds this package at version.
func (p *Package) MarkSaved(version int64) {
	p.version = version
	p.unsaved = 0
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (p *Package) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.withAggregateID(p.id))
	}
	return out
}

func (p *Package) ClearDomainEvents() {
	p.events = nil
}

func (p *Package) lastEvent() StatusEvent {
	return p.history[len(p.history)-1]
}

func (p *Package) setTrackingNumber(tn kernel.TrackingNumber) error {
	if err := tn.Validate(); err != nil {
		return err
	}
	p.trackingNumber = tn
	return nil
}

func (p *Package) setContact(role string, dst *kernel.Contact, c kernel.Contact) error {
	if err := c.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(role, err)
	}
	*dst = c
	return nil
}

func validateHistory(history []StatusEvent) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredError("history")
	}
	for i, e := range history {
		if err := e.Validate(); err != nil {
			return err
		}
		if i == 0 {
			if e.Status() != Created {
				return errs.NewValueIsInvalidErrorWithCause("history",
					fmt.Errorf("first entry is %s, expected %s", e.Status(), Created))
			}
			continue
		}
		prev := history[i-1]
		if e.Timestamp().Before(prev.Timestamp()) {
			return errs.NewValueIsInvalidErrorWithCause("history",
				fmt.Errorf("entry %d is older than entry %d", i, i-1))
		}
		if !IsValidTransition(prev.Status(), e.Status()) {
			return errs.NewValueIsInvalidErrorWithCause("history",
				NewInvalidTransitionError(prev.Status(), e.Status()))
		}
	}
	return nil
}
