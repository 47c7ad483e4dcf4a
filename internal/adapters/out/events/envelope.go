// Package events delivers the domain events of committed package changes.
// It holds the envelope shared by every transport, the log publisher, the
// fan-out publisher and the dispatcher used by units of work after commit.
package events

import (
	"time"

	"tracking/internal/core/domain/model/parcel"
)

// Envelope is the transport form of a domain event.
type Envelope struct {
	Name           string    `json:"name"`
	PackageID      string    `json:"packageId"`
	TrackingNumber string    `json:"trackingNumber"`
	From           string    `json:"from,omitempty"`
	To             string    `json:"to"`
	Notes          string    `json:"notes,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func NewEnvelope(event parcel.DomainEvent) Envelope {
	env := Envelope{
		Name:       event.EventName(),
		PackageID:  event.AggregateID().String(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case parcel.PackageCreated:
		env.TrackingNumber = e.TrackingNumber.String()
		env.To = parcel.Created.String()
	case parcel.StatusChanged:
		env.TrackingNumber = e.TrackingNumber.String()
		env.From = e.From.String()
		env.To = e.To.String()
		env.Notes = e.Notes
	}

	return env
}
