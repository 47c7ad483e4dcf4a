package events

import (
	"context"
	"log/slog"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// Dispatcher drains the recorded events of saved aggregates and publishes
// them. The changes are already committed when it runs, so publish failures
// are logged and never returned.
type Dispatcher struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewDispatcher accepts a nil publisher, which makes Dispatch only clear events.
func NewDispatcher(publisher ports.EventPublisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{publisher: publisher, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, packages ...*parcel.Package) {
	var batch []parcel.DomainEvent
	for _, p := range packages {
		batch = append(batch, p.DomainEvents()...)
		p.ClearDomainEvents()
	}
	if d == nil || d.publisher == nil || len(batch) == 0 {
		return
	}

	// ctx may already be canceled once the request that committed has ended.
	if err := d.publisher.Publish(context.WithoutCancel(ctx), batch...); err != nil {
		d.logger.WarnContext(ctx, "failed to publish package events",
			"error", err,
			"count", len(batch),
		)
	}
}
