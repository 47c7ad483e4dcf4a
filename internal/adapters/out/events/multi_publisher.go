package events

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// MultiPublisher hands every batch to all publishers, even when some fail.
type MultiPublisher struct {
	publishers []ports.EventPublisher
}

func NewMultiPublisher(publishers ...ports.EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

// Add appends a publisher. It must not be called concurrently with Publish.
func (m *MultiPublisher) Add(p ports.EventPublisher) {
	m.publishers = append(m.publishers, p)
}

func (m *MultiPublisher) Publish(ctx context.Context, events ...parcel.DomainEvent) error {
	var errList []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, events...); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
