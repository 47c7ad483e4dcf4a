package queries

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
)

// GetValidTransitionsQueryHandler answers from the transition policy for the
// package's current status. Terminal packages yield an empty slice.
type GetValidTransitionsQueryHandler struct {
	reader PackageReader
}

func NewGetValidTransitionsQueryHandler(reader PackageReader) GetValidTransitionsQueryHandler {
	return GetValidTransitionsQueryHandler{reader: reader}
}

func (h GetValidTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetValidTransitionsQuery,
) ([]parcel.Status, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pkg, err := h.reader.Get(ctx, query.PackageID())
	if err != nil {
		return nil, err
	}

	return pkg.ValidTransitions(), nil
}
