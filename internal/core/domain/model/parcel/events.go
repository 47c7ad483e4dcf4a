package parcel

import (
	"time"

	"tracking/internal/core/domain/model/kernel"
)

const (
	PackageCreatedEventName = "package.created"
	StatusChangedEventName  = "package.status_changed"
)

// DomainEvent is a fact recorded by the Package aggregate. Events are handed
// out only after the aggregate has been assigned its identifier.
type DomainEvent interface {
	EventName() string
	AggregateID() kernel.UUID
	OccurredAt() time.Time

	withAggregateID(id kernel.UUID) DomainEvent
}

// PackageCreated is recorded when a package is registered.
type PackageCreated struct {
	PackageID      kernel.UUID
	TrackingNumber kernel.TrackingNumber
	At             time.Time
}

func (e PackageCreated) EventName() string        { return PackageCreatedEventName }
func (e PackageCreated) AggregateID() kernel.UUID { return e.PackageID }
func (e PackageCreated) OccurredAt() time.Time    { return e.At }

func (e PackageCreated) withAggregateID(id kernel.UUID) DomainEvent {
	e.PackageID = id
	return e
}

// StatusChanged is recorded for every accepted status transition.
type StatusChanged struct {
	PackageID      kernel.UUID
	TrackingNumber kernel.TrackingNumber
	From           Status
	To             Status
	Notes          string
	At             time.Time
}

func (e StatusChanged) EventName() string        { return StatusChangedEventName }
func (e StatusChanged) AggregateID() kernel.UUID { return e.PackageID }
func (e StatusChanged) OccurredAt() time.Time    { return e.At }

func (e StatusChanged) withAggregateID(id kernel.UUID) DomainEvent {
	e.PackageID = id
	return e
}
