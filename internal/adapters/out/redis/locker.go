package redis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockPollInterval = 25 * time.Millisecond

// releaseScript deletes the key only while it still holds the caller's token,
// so an expired lock taken over by another writer is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a ports.PackageLocker shared by every instance connected to the
// same Redis. A lock expires after ttl even if its holder never releases it.
type Locker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

func NewLocker(client redis.UniversalClient, cfg Config, wait time.Duration, logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locker{
		client: client,
		prefix: cfg.LockPrefix,
		ttl:    cfg.LockTTL,
		wait:   wait,
		logger: logger.With("component", "redis-locker"),
	}
}

func (l *Locker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	key := l.prefix + id.String()
	token := uuid.NewString()

	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return l.unlockFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ports.ErrPackageLocked
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may be gone by the time it unlocks
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release package lock", "key", key, "error", err)
			}
		})
	}
}
