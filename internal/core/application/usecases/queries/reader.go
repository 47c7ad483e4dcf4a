// Package queries contains the read-only use cases. Handlers read through
// PackageReader and return domain objects; presentation is left to adapters.
package queries

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// PackageReader is the read side of ports.PackageRepository used by queries.
type PackageReader interface {
	Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber kernel.TrackingNumber) (*parcel.Package, error)
	List(ctx context.Context, filter ports.PackageFilter) ([]*parcel.Package, error)
	CountByStatus(ctx context.Context) (map[parcel.Status]int64, error)
}
