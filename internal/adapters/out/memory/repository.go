package memory

import (
	"context"
	"fmt"
	"strings"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/hashicorp/go-memdb"
)

// PackageRepository implements ports.PackageRepository on the store. It uses
// the transaction of its unit of work when one is active.
type PackageRepository struct {
	uow *UnitOfWork
}

func (r *PackageRepository) Add(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.ID().IsZero() {
		return fmt.Errorf("package %s is already stored", aggregate.ID())
	}

	return r.write(ctx, aggregate, func(txn *memdb.Txn) error {
		tn := aggregate.TrackingNumber().String()
		existing, err := txn.First(packagesTable, indexTrackingNumber, tn)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ports.ErrTrackingNumberTaken, tn)
		}

		id := kernel.NewUUID()
		rec := &packageRecord{
			ID:             id.String(),
			TrackingNumber: tn,
			Status:         int(aggregate.CurrentStatus()),
			Seq:            r.uow.store.seq.Add(1),
			Version:        1,
			Sender:         newContactRecord(aggregate.Sender()),
			Recipient:      newContactRecord(aggregate.Recipient()),
			History:        newEventRecords(aggregate.History()),
		}
		if err = txn.Insert(packagesTable, rec); err != nil {
			return err
		}

		if err = aggregate.AssignID(id); err != nil {
			return err
		}
		aggregate.MarkSaved(rec.Version)
		return nil
	})
}

func (r *PackageRepository) Update(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}
	if len(aggregate.UnsavedHistory()) == 0 {
		return nil
	}

	return r.write(ctx, aggregate, func(txn *memdb.Txn) error {
		rec, err := first(txn, indexID, aggregate.ID().String())
		if err != nil {
			return err
		}
		if rec == nil {
			return errs.NewObjectNotFoundError("packageID", aggregate.ID().String())
		}
		if rec.Version != aggregate.Version() {
			return errs.NewVersionIsInvalidErrorWithCause("version",
				fmt.Errorf("package %s: expected %d, stored %d", rec.ID, aggregate.Version(), rec.Version))
		}

		next := rec.withUnsaved(aggregate)
		if err = txn.Insert(packagesTable, next); err != nil {
			return err
		}

		aggregate.MarkSaved(next.Version)
		return nil
	})
}

func (r *PackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.getBy(ctx, indexID, "packageID", id.String())
}

// GetForUpdate equals Get: a unit of work already holds the store's write lock.
func (r *PackageRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	return r.Get(ctx, id)
}

func (r *PackageRepository) GetByTrackingNumber(
	ctx context.Context,
	trackingNumber kernel.TrackingNumber,
) (*parcel.Package, error) {
	if err := trackingNumber.Validate(); err != nil {
		return nil, err
	}
	return r.getBy(ctx, indexTrackingNumber, "trackingNumber", trackingNumber.String())
}

func (r *PackageRepository) ExistsByTrackingNumber(
	ctx context.Context,
	trackingNumber kernel.TrackingNumber,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rec, err := first(r.read(), indexTrackingNumber, trackingNumber.String())
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

func (r *PackageRepository) List(ctx context.Context, filter ports.PackageFilter) ([]*parcel.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	it, err := r.read().Get(packagesTable, indexSequence)
	if err != nil {
		return nil, err
	}

	fragment := strings.ToUpper(strings.TrimSpace(filter.TrackingNumber))
	result := make([]*parcel.Package, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*packageRecord)
		if filter.Status != nil && rec.Status != int(*filter.Status) {
			continue
		}
		if fragment != "" && !strings.Contains(rec.TrackingNumber, fragment) {
			continue
		}
		p, restoreErr := rec.toDomain()
		if restoreErr != nil {
			return nil, restoreErr
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *PackageRepository) CountByStatus(ctx context.Context) (map[parcel.Status]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.read()
	counts := make(map[parcel.Status]int64)
	for _, s := range parcel.Statuses() {
		it, err := txn.Get(packagesTable, indexStatus, int(s))
		if err != nil {
			return nil, err
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			counts[s]++
		}
	}
	return counts, nil
}

func (r *PackageRepository) getBy(ctx context.Context, index, param, value string) (*parcel.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := first(r.read(), index, value)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.NewObjectNotFoundError(param, value)
	}
	return rec.toDomain()
}

func (r *PackageRepository) read() *memdb.Txn {
	if r.uow.txn != nil {
		return r.uow.txn
	}
	return r.uow.store.db.Txn(false)
}

// write runs fn in the active transaction, or in a transaction of its own
// that is committed, and its events dispatched, right away.
func (r *PackageRepository) write(ctx context.Context, aggregate *parcel.Package, fn func(txn *memdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.uow.txn != nil {
		if err := fn(r.uow.txn); err != nil {
			return err
		}
		r.uow.track(aggregate)
		return nil
	}

	txn := r.uow.store.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	r.uow.store.dispatcher.Dispatch(ctx, aggregate)
	return nil
}

func first(txn *memdb.Txn, index, value string) (*packageRecord, error) {
	raw, err := txn.First(packagesTable, index, value)
	if err != nil || raw == nil {
		return nil, err
	}
	return raw.(*packageRecord), nil
}
