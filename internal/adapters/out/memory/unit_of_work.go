package memory

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"

	"github.com/hashicorp/go-memdb"
)

// UnitOfWork wraps one memdb write transaction.
//
// Begin blocks while another unit of work of the same store is active and
// does not observe ctx cancellation while waiting.
type UnitOfWork struct {
	store   *Store
	txn     *memdb.Txn
	tracked []*parcel.Package
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.txn != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.txn = u.store.db.Txn(true)
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.txn == nil {
		return ErrNoActiveTransaction
	}

	u.txn.Commit()
	u.txn = nil

	tracked := u.tracked
	u.tracked = nil
	u.store.dispatcher.Dispatch(ctx, tracked...)
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.txn == nil {
		return ErrNoActiveTransaction
	}

	u.txn.Abort()
	u.txn = nil
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) PackageRepository() ports.PackageRepository {
	return &PackageRepository{uow: u}
}

func (u *UnitOfWork) track(aggregate *parcel.Package) {
	for _, p := range u.tracked {
		if p == aggregate {
			return
		}
	}
	u.tracked = append(u.tracked, aggregate)
}
