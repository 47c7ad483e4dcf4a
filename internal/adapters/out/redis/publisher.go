package redis

import (
	"context"
	"encoding/json"
	"errors"

	"tracking/internal/adapters/out/events"
	"tracking/internal/core/domain/model/parcel"

	"github.com/redis/go-redis/v9"
)

// Publisher sends every event as a JSON events.Envelope to a pub/sub channel.
type Publisher struct {
	client  redis.UniversalClient
	channel string
}

func NewPublisher(client redis.UniversalClient, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, evs ...parcel.DomainEvent) error {
	var errList []error
	for _, e := range evs {
		payload, err := json.Marshal(events.NewEnvelope(e))
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if err = p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
