package queries

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
)

// GetPackageQueryHandler returns errs.ObjectNotFoundError for unknown ids.
//
// Example:
//
//	q, _ := NewGetPackageQuery(id)
//	pkg, err := handler.Handle(ctx, q)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetPackageQueryHandler struct {
	reader PackageReader
}

func NewGetPackageQueryHandler(reader PackageReader) GetPackageQueryHandler {
	return GetPackageQueryHandler{reader: reader}
}

func (h GetPackageQueryHandler) Handle(ctx context.Context, query GetPackageQuery) (*parcel.Package, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.Get(ctx, query.PackageID())
}
