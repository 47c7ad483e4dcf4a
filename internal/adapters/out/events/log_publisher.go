package events

import (
	"context"
	"log/slog"

	"tracking/internal/core/domain/model/parcel"
)

// LogPublisher writes one structured log line per event.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...parcel.DomainEvent) error {
	for _, e := range events {
		env := NewEnvelope(e)
		p.logger.InfoContext(ctx, "package event",
			"event", env.Name,
			"package_id", env.PackageID,
			"tracking_number", env.TrackingNumber,
			"from", env.From,
			"to", env.To,
		)
	}
	return nil
}
