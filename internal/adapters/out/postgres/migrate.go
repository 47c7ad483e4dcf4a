package postgres

import (
	"context"
	"embed"
	"errors"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded goose migrations. Applied versions are skipped,
// so it runs on every start.
func Migrate(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(newPrintfAdapter(log))
	if err = goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err = goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}
