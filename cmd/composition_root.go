package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/in/seed"
	"tracking/internal/adapters/out/clock"
	"tracking/internal/adapters/out/events"
	"tracking/internal/adapters/out/memory"
	"tracking/internal/adapters/out/postgres"
	prom "tracking/internal/adapters/out/prometheus"
	redisadapter "tracking/internal/adapters/out/redis"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/jobs"
	"tracking/internal/pkg/logger"
	"tracking/internal/pkg/ratelimiter"
	"tracking/internal/pkg/requestid"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// CompositionRoot owns the long-lived adapters and builds the use case
// handlers and entry points on top of them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	metrics    *prom.Metrics
	publisher  *events.MultiPublisher
	dispatcher *events.Dispatcher
	clock      ports.Clock

	uowFactory ports.UnitOfWorkFactory
	reader     queries.PackageReader
	locker     ports.PackageLocker

	probes  map[string]httpadapter.Probe
	closers []func() error
}

// NewCompositionRoot connects the configured store and, when REDIS_URL is
// set, Redis. Call Close when done.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:     cfg,
		logger:  logger,
		metrics: prom.NewMetrics(),
		clock:   clock.System{},
		probes:  make(map[string]httpadapter.Probe),
	}

	c.publisher = events.NewMultiPublisher(events.NewLogPublisher(logger), c.metrics)
	c.dispatcher = events.NewDispatcher(c.publisher, logger)

	if err := c.connectRedis(ctx); err != nil {
		return nil, err
	}

	if err := c.connectStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) connectRedis(ctx context.Context) error {
	if !c.cfg.Redis.Enabled() {
		c.locker = memory.NewLocker(c.cfg.LockWaitTimeout)
		return nil
	}

	client, err := redisadapter.Connect(ctx, c.cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)

	c.locker = redisadapter.NewLocker(client, c.cfg.Redis, c.cfg.LockWaitTimeout, c.logger)
	c.publisher.Add(redisadapter.NewPublisher(client, c.cfg.Redis.EventsChannel))
	c.probes["redis"] = redisadapter.Healthcheck(client)

	c.logger.InfoContext(ctx, "redis connected", "channel", c.cfg.Redis.EventsChannel)
	return nil
}

func (c *CompositionRoot) connectStore(ctx context.Context) error {
	switch c.cfg.StorageDriver {
	case StorageDriverMemory:
		store, err := memory.NewStore(c.dispatcher)
		if err != nil {
			return fmt.Errorf("create memory store: %w", err)
		}
		c.uowFactory = store
		c.reader = store.Reader()
		c.probes["store"] = func(context.Context) error { return store.Healthcheck() }

	case StorageDriverPostgres:
		db, err := postgres.Connect(ctx, c.cfg.DB, c.logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)

		if err = postgres.Migrate(ctx, db, c.logger); err != nil {
			return err
		}

		factory := postgres.NewGormUnitOfWorkFactory(db, c.dispatcher)
		c.uowFactory = factory
		c.reader = factory.Reader()
		c.probes["store"] = postgres.Healthcheck(db)

	default:
		return fmt.Errorf("unknown storage driver %q", c.cfg.StorageDriver)
	}

	c.logger.InfoContext(ctx, "store ready", "driver", c.cfg.StorageDriver)
	return nil
}

// Close releases connections in reverse order of acquisition.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) packageUoWFactory() commands.PackageUoWFactory {
	return FuncPackageUoWFactory(func() commands.PackageUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreatePackageCommandHandler() commands.CreatePackageCommandHandler {
	return commands.NewCreatePackageCommandHandler(c.packageUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdatePackageStatusCommandHandler() commands.UpdatePackageStatusCommandHandler {
	return commands.NewUpdatePackageStatusCommandHandler(c.packageUoWFactory(), c.locker, c.clock)
}

func (c *CompositionRoot) CreateGetPackageQueryHandler() queries.GetPackageQueryHandler {
	return queries.NewGetPackageQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetPackageByTrackingNumberQueryHandler() queries.GetPackageByTrackingNumberQueryHandler {
	return queries.NewGetPackageByTrackingNumberQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListPackagesQueryHandler() queries.ListPackagesQueryHandler {
	return queries.NewListPackagesQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetValidTransitionsQueryHandler() queries.GetValidTransitionsQueryHandler {
	return queries.NewGetValidTransitionsQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateCountPackagesByStatusQueryHandler() queries.CountPackagesByStatusQueryHandler {
	return queries.NewCountPackagesByStatusQueryHandler(c.reader)
}

// CreateEcho builds the HTTP entry point.
func (c *CompositionRoot) CreateEcho() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateCreatePackageCommandHandler(),
		c.CreateUpdatePackageStatusCommandHandler(),
		c.CreateGetPackageQueryHandler(),
		c.CreateGetPackageByTrackingNumberQueryHandler(),
		c.CreateListPackagesQueryHandler(),
		c.CreateGetValidTransitionsQueryHandler(),
	)

	e, err := httpadapter.NewEcho(server, httpadapter.Options{
		Logger:  c.logger,
		Metrics: c.metrics,
		Limiter: ratelimiter.New(c.cfg.RateLimitRPS, c.cfg.RateLimitBurst, 0),
		Probes:  c.probes,
	})
	if err != nil {
		return nil, err
	}

	e.Logger.SetLevel(gommonLevel(c.cfg.LogLevel))
	return e, nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewStatusSnapshotJob(
			c.CreateCountPackagesByStatusQueryHandler(),
			c.metrics,
			c.cfg.StatusSnapshotSchedule,
			c.logger,
		),
	)
}

// Seed loads SEED_PATH when it is set.
func (c *CompositionRoot) Seed(ctx context.Context) error {
	if c.cfg.SeedPath == "" {
		return nil
	}

	loader := seed.NewLoader(
		c.CreateCreatePackageCommandHandler(),
		c.CreateUpdatePackageStatusCommandHandler(),
		c.logger,
	)
	_, err := loader.LoadFile(ctx, c.cfg.SeedPath)
	return err
}

// NewLogger builds the application logger from LOG_LEVEL and LOG_FORMAT.
// Config.Validate has already rejected bad values.
func NewLogger(cfg Config) *slog.Logger {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	format, _ := logger.ParseFormat(cfg.LogFormat)

	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(os.Stdout),
		logger.WithAttr(slog.String("service", "tracking")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

func gommonLevel(level string) log.Lvl {
	parsed, _ := logger.ParseLevel(level)
	switch {
	case parsed <= slog.LevelDebug:
		return log.DEBUG
	case parsed <= slog.LevelInfo:
		return log.INFO
	case parsed <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}

type FuncPackageUoWFactory func() commands.PackageUoW

func (f FuncPackageUoWFactory) Create() commands.PackageUoW {
	return f()
}
