package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database and verifies it with a ping. A failed attempt is
// retried after a growing pause: RetryInterval, then twice that, and so on.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(newPrintfAdapter(log), gormlogger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		db, err := open(ctx, cfg, gormCfg)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if log != nil {
			log.WarnContext(ctx, "database is not reachable",
				"attempt", i+1,
				"error", err,
			)
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

func open(ctx context.Context, cfg Config, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Healthcheck returns a probe for the health endpoint.
func Healthcheck(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err = sqlDB.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
