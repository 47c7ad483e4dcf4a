package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/redis"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config is read from the environment, optionally preloaded from .env files.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// LockWaitTimeout bounds how long a status update waits for a package
	// held by another update.
	LockWaitTimeout time.Duration `env:"LOCK_WAIT_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Requests per second and burst per client IP. Zero disables the limit.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	StatusSnapshotSchedule string        `env:"STATUS_SNAPSHOT_SCHEDULE" envDefault:"*/30 * * * * *"`
	SeedPath               string        `env:"SEED_PATH"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DB    postgres.Config
	Redis redis.Config
}

// LoadConfig loads the given .env files (".env" when none are given) without
// overriding variables already set, then parses the environment. Missing
// files are skipped.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error

	if c.HTTPPort == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("STORAGE_DRIVER",
			fmt.Errorf("%q is neither %q nor %q", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err))
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("LOG_FORMAT", err))
	}
	if c.LockWaitTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("LOCK_WAIT_TIMEOUT",
			fmt.Errorf("must be positive, got %s", c.LockWaitTimeout)))
	}
	if c.ShutdownTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("SHUTDOWN_TIMEOUT",
			fmt.Errorf("must be positive, got %s", c.ShutdownTimeout)))
	}

	return errors.Join(errList...)
}
