package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tracking/internal/adapters/out/events"
	redisadapter "tracking/internal/adapters/out/redis"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) redisadapter.Config {
	return redisadapter.Config{
		URL:            url,
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
		LockTTL:        time.Minute,
		LockPrefix:     "test:lock:",
		EventsChannel:  "test.events",
	}
}

func connect(t *testing.T) (*miniredis.Miniredis, *redis.Client, redisadapter.Config) {
	t.Helper()
	srv := miniredis.RunT(t)
	cfg := testConfig("redis://" + srv.Addr() + "/0")

	client, err := redisadapter.Connect(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return srv, client, cfg
}

func TestConnect(t *testing.T) {
	t.Run("healthy server", func(t *testing.T) {
		_, client, _ := connect(t)
		assert.NoError(t, redisadapter.Healthcheck(client)(t.Context()))
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := redisadapter.Connect(t.Context(), testConfig("not a url"))
		require.ErrorIs(t, err, redisadapter.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		_, err := redisadapter.Connect(t.Context(), testConfig("redis://"+addr+"/0"))
		require.ErrorIs(t, err, redisadapter.ErrRedisNotReady)
	})

	t.Run("healthcheck fails after the server stops", func(t *testing.T) {
		srv, client, _ := connect(t)
		srv.Close()
		require.ErrorIs(t, redisadapter.Healthcheck(client)(t.Context()), redisadapter.ErrHealthcheckFailed)
	})
}

func TestLocker(t *testing.T) {
	t.Run("lock is exclusive until released", func(t *testing.T) {
		srv, client, cfg := connect(t)
		locker := redisadapter.NewLocker(client, cfg, 100*time.Millisecond, nil)
		id := kernel.NewUUID()

		unlock, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		assert.True(t, srv.Exists("test:lock:"+id.String()))

		_, err = locker.Lock(t.Context(), id)
		require.ErrorIs(t, err, ports.ErrPackageLocked)

		unlock()
		unlock()
		assert.False(t, srv.Exists("test:lock:"+id.String()))

		again, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		again()
	})

	t.Run("lock carries the ttl", func(t *testing.T) {
		srv, client, cfg := connect(t)
		locker := redisadapter.NewLocker(client, cfg, 100*time.Millisecond, nil)
		id := kernel.NewUUID()

		_, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, srv.TTL("test:lock:"+id.String()))

		srv.FastForward(2 * time.Minute)
		next, err := locker.Lock(t.Context(), id)
		require.NoError(t, err, "an expired lock can be taken over")
		next()
	})

	t.Run("stale unlock leaves a newer holder alone", func(t *testing.T) {
		srv, client, cfg := connect(t)
		locker := redisadapter.NewLocker(client, cfg, 100*time.Millisecond, nil)
		id := kernel.NewUUID()

		stale, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		srv.FastForward(2 * time.Minute)

		current, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		defer current()

		stale()
		assert.True(t, srv.Exists("test:lock:"+id.String()))
	})

	t.Run("context cancellation stops waiting", func(t *testing.T) {
		_, client, cfg := connect(t)
		locker := redisadapter.NewLocker(client, cfg, time.Second, nil)
		id := kernel.NewUUID()

		unlock, err := locker.Lock(t.Context(), id)
		require.NoError(t, err)
		defer unlock()

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrPackageLocked)
	})
}

func TestPublisher_Publish(t *testing.T) {
	_, client, cfg := connect(t)

	sub := client.Subscribe(t.Context(), cfg.EventsChannel)
	defer sub.Close()
	_, err := sub.Receive(t.Context())
	require.NoError(t, err)

	sender, _ := kernel.NewContact("Alice", "1 Main St", "555")
	recipient, _ := kernel.NewContact("Bob", "2 Oak Ave", "556")
	at := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	p, err := parcel.NewPackage(kernel.GenerateTrackingNumber(at), sender, recipient, at)
	require.NoError(t, err)
	require.NoError(t, p.AssignID(kernel.NewUUID()))

	err = redisadapter.NewPublisher(client, cfg.EventsChannel).Publish(t.Context(), p.DomainEvents()...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var env events.Envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, parcel.PackageCreatedEventName, env.Name)
	assert.Equal(t, p.ID().String(), env.PackageID)
	assert.Equal(t, p.TrackingNumber().String(), env.TrackingNumber)
	assert.Equal(t, "Created", env.To)
}
