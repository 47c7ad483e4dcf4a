package queries

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
)

// ListPackagesQueryHandler returns whole packages matching the query in
// creation order; no match yields an empty, non-nil slice.
type ListPackagesQueryHandler struct {
	reader PackageReader
}

func NewListPackagesQueryHandler(reader PackageReader) ListPackagesQueryHandler {
	return ListPackagesQueryHandler{reader: reader}
}

func (h ListPackagesQueryHandler) Handle(ctx context.Context, query ListPackagesQuery) ([]*parcel.Package, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.PackageFilter{TrackingNumber: query.TrackingNumber()}
	if status, ok := query.Status(); ok {
		filter.Status = &status
	}

	packages, err := h.reader.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if packages == nil {
		packages = make([]*parcel.Package, 0)
	}
	return packages, nil
}
