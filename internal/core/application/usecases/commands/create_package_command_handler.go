package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// DefaultTrackingNumberAttempts is how many tracking number candidates Handle
// tries before giving up.
const DefaultTrackingNumberAttempts = 5

// CreatePackageCommandHandler registers packages with a fresh tracking number.
//
// A tracking number candidate carries only four random digits per day, so it
// is checked against the store before the insert, and a collision reported by
// the insert itself (a concurrent writer won the race) triggers a retry with a
// new candidate in a new unit of work.
//
// Example:
//
//	handler := NewCreatePackageCommandHandler(uowFactory, clock)
//	pkg, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("create package: %w", err)
//	}
//	fmt.Println(pkg.TrackingNumber())
type CreatePackageCommandHandler struct {
	uowFactory  PackageUoWFactory
	clock       ports.Clock
	maxAttempts int
}

func NewCreatePackageCommandHandler(uowFactory PackageUoWFactory, clock ports.Clock) CreatePackageCommandHandler {
	return CreatePackageCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		maxAttempts: DefaultTrackingNumberAttempts,
	}
}

// WithMaxAttempts returns a copy of the handler trying at most n candidates.
func (h CreatePackageCommandHandler) WithMaxAttempts(n int) CreatePackageCommandHandler {
	if n > 0 {
		h.maxAttempts = n
	}
	return h
}

// Handle creates the package and returns it as stored, with identifier and
// version assigned.
func (h CreatePackageCommandHandler) Handle(ctx context.Context, cmd CreatePackageCommand) (*parcel.Package, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	var lastErr error
	for range h.maxAttempts {
		pkg, err := h.create(ctx, cmd, kernel.GenerateTrackingNumber(now), now)
		if errors.Is(err, ports.ErrTrackingNumberTaken) {
			lastErr = err
			continue
		}
		return pkg, err
	}

	return nil, fmt.Errorf("no free tracking number after %d attempts: %w", h.maxAttempts, lastErr)
}

func (h CreatePackageCommandHandler) create(
	ctx context.Context,
	cmd CreatePackageCommand,
	trackingNumber kernel.TrackingNumber,
	now time.Time,
) (*parcel.Package, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PackageRepository()

	taken, err := repo.ExistsByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ports.ErrTrackingNumberTaken
	}

	pkg, err := parcel.NewPackage(trackingNumber, cmd.Sender(), cmd.Recipient(), now)
	if err != nil {
		return nil, err
	}

	if err = repo.Add(ctx, pkg); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pkg, nil
}
