package ports

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
)

// EventPublisher delivers domain events of committed changes.
type EventPublisher interface {
	Publish(ctx context.Context, events ...parcel.DomainEvent) error
}
