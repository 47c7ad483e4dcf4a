package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/pkg/guard"
)

var ErrUpdatePackageStatusCommandIsNotConstructed = errors.New(
	"UpdatePackageStatusCommand must be created via NewUpdatePackageStatusCommand constructor",
)

// UpdatePackageStatusCommand moves a package to a new status with optional notes.
// Whether the move is allowed is decided by the handler against the stored
// package, not here.
type UpdatePackageStatusCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	status    parcel.Status
	notes     string

	guard guard.ConstructorGuard
}

func NewUpdatePackageStatusCommand(
	packageID kernel.UUID,
	status parcel.Status,
	notes string,
) (UpdatePackageStatusCommand, error) {
	cmd := UpdatePackageStatusCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setStatus(status),
	); err != nil {
		return UpdatePackageStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdatePackageStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePackageStatusCommandIsNotConstructed)
}

func (c UpdatePackageStatusCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c UpdatePackageStatusCommand) Status() parcel.Status {
	return c.status
}

func (c UpdatePackageStatusCommand) Notes() string {
	return c.notes
}

func (c *UpdatePackageStatusCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *UpdatePackageStatusCommand) setStatus(status parcel.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
