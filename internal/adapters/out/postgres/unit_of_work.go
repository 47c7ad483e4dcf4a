// Package postgres stores packages in PostgreSQL through GORM.
//
// It owns the connection (Connect, Healthcheck), the schema (Migrate, with
// embedded goose migrations) and the Unit of Work that the commands use as
// their transaction boundary. Row mapping lives in packagerepo.
//
// Usage:
//
//	db, err := postgres.Connect(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	if err := postgres.Migrate(ctx, db, logger); err != nil {
//	    return err
//	}
//	factory := postgres.NewGormUnitOfWorkFactory(db, dispatcher)
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	pkg, err := uow.PackageRepository().GetForUpdate(ctx, id)
//	...
//	return uow.Commit(ctx)
//
// Domain events of the packages saved through a unit of work are handed to
// the dispatcher only after Commit succeeds. Without Begin the repository
// writes directly and dispatches after each write.
package postgres

import (
	"context"

	"tracking/internal/adapters/out/events"
	"tracking/internal/adapters/out/postgres/packagerepo"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	dispatcher *events.Dispatcher
}

// NewGormUnitOfWorkFactory accepts a nil dispatcher, which drops events.
func NewGormUnitOfWorkFactory(db *gorm.DB, dispatcher *events.Dispatcher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, dispatcher: dispatcher}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:         f.db,
		dispatcher: f.dispatcher,
	}
}

// Reader returns a repository outside any transaction, for the queries.
func (f *GormUnitOfWorkFactory) Reader() ports.PackageRepository {
	return f.Create().PackageRepository()
}

// GormUnitOfWork coordinates one database transaction and collects the
// packages saved in it.
type GormUnitOfWork struct {
	db         *gorm.DB
	tx         *gorm.DB
	dispatcher *events.Dispatcher
	tracked    []*parcel.Package
}

// Begin starts a transaction. Multiple calls on the same instance do not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit makes the changes permanent and dispatches the collected events.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil

	tracked := uow.tracked
	uow.tracked = nil
	if err != nil {
		return err
	}

	uow.dispatcher.Dispatch(ctx, tracked...)
	return nil
}

// Rollback discards the changes and the collected events. Returns
// gorm.ErrInvalidTransaction if no transaction is active, so it can be
// deferred right after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// PackageRepository is bound to the active transaction, if any.
func (uow *GormUnitOfWork) PackageRepository() ports.PackageRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return packagerepo.NewGormPackageRepository(db, uow)
}

// TrackAggregate is called by the repository for every saved package.
func (uow *GormUnitOfWork) TrackAggregate(ctx context.Context, aggregate *parcel.Package) {
	if uow.tx == nil {
		uow.dispatcher.Dispatch(ctx, aggregate)
		return
	}

	for _, p := range uow.tracked {
		if p == aggregate {
			return
		}
	}
	uow.tracked = append(uow.tracked, aggregate)
}
