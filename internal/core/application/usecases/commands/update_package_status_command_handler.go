package commands

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// UpdatePackageStatusCommandHandler applies a status transition.
//
// The read, the policy check and the write happen while the package is held
// by the PackageLocker and inside one unit of work that reads the row for
// update; the repository's version check rejects anything that slipped past
// both. Two concurrent updates of one package therefore behave as if run one
// after the other, and the loser of e.g. Sent->Accepted vs Sent->Returned
// sees an InvalidTransitionError computed against the winner's status.
//
// Example:
//
//	cmd, _ := NewUpdatePackageStatusCommand(id, parcel.Sent, "picked up")
//	pkg, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, parcel.ErrInvalidTransition):
//	    // rejected by the transition policy, nothing was written
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // no such package
//	}
type UpdatePackageStatusCommandHandler struct {
	uowFactory PackageUoWFactory
	locker     ports.PackageLocker
	clock      ports.Clock
}

func NewUpdatePackageStatusCommandHandler(
	uowFactory PackageUoWFactory,
	locker ports.PackageLocker,
	clock ports.Clock,
) UpdatePackageStatusCommandHandler {
	return UpdatePackageStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
	}
}

// Handle returns the package after the transition has been committed.
func (h UpdatePackageStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdatePackageStatusCommand,
) (*parcel.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, cmd.PackageID())
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PackageRepository()

	pkg, err := repo.GetForUpdate(ctx, cmd.PackageID())
	if err != nil {
		return nil, err
	}

	if err = pkg.ChangeStatus(cmd.Status(), cmd.Notes(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, pkg); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pkg, nil
}
