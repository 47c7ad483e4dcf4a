package queries

import (
	"context"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/pkg/errs"
)

type GetPackageByTrackingNumberQueryHandler struct {
	reader PackageReader
}

func NewGetPackageByTrackingNumberQueryHandler(reader PackageReader) GetPackageByTrackingNumberQueryHandler {
	return GetPackageByTrackingNumberQueryHandler{reader: reader}
}

// Handle returns errs.ObjectNotFoundError both for unknown and for malformed
// tracking numbers, since no package can carry a malformed one.
func (h GetPackageByTrackingNumberQueryHandler) Handle(
	ctx context.Context,
	query GetPackageByTrackingNumberQuery,
) (*parcel.Package, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tn, err := kernel.ParseTrackingNumber(query.TrackingNumber())
	if err != nil {
		return nil, errs.NewObjectNotFoundErrorWithCause("trackingNumber", query.TrackingNumber(), err)
	}

	return h.reader.GetByTrackingNumber(ctx, tn)
}
