package ports

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
)

// ErrTrackingNumberTaken is returned by PackageRepository.Add when another
// package already holds the tracking number.
var ErrTrackingNumberTaken = errors.New("tracking number is already taken")

// PackageFilter narrows List. Zero fields do not filter.
type PackageFilter struct {
	// TrackingNumber matches as a case-insensitive substring.
	TrackingNumber string

	// Status matches exactly when set.
	Status *parcel.Status
}

// PackageRepository defines the persistence contract for package aggregates.
// Every method that returns a package returns it whole: identity, parties,
// the full ordered history and the stored version.
type PackageRepository interface {
	// Add stores a new package, assigns its identifier and marks it saved at
	// version 1. Returns ErrTrackingNumberTaken on a tracking number collision.
	Add(ctx context.Context, aggregate *parcel.Package) error

	// Update writes the unsaved history of a loaded package. It succeeds only
	// if the stored version still equals aggregate.Version(); otherwise it
	// returns errs.VersionIsInvalidError and writes nothing.
	Update(ctx context.Context, aggregate *parcel.Package) error

	// Get returns errs.ObjectNotFoundError when no package has the id.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error)

	// GetForUpdate is Get that also locks the stored row until the
	// surrounding unit of work ends, where the store supports it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Package, error)

	// GetByTrackingNumber returns errs.ObjectNotFoundError when absent.
	GetByTrackingNumber(ctx context.Context, trackingNumber kernel.TrackingNumber) (*parcel.Package, error)

	ExistsByTrackingNumber(ctx context.Context, trackingNumber kernel.TrackingNumber) (bool, error)

	// List returns matching packages in creation order.
	List(ctx context.Context, filter PackageFilter) ([]*parcel.Package, error)

	// CountByStatus returns the number of packages per current status.
	// Statuses without packages may be absent from the map.
	CountByStatus(ctx context.Context) (map[parcel.Status]int64, error)
}
