package queries

import (
	"context"

	"tracking/internal/core/domain/model/parcel"
)

// CountPackagesByStatusQueryHandler returns a count for every valid status,
// zero included.
type CountPackagesByStatusQueryHandler struct {
	reader PackageReader
}

func NewCountPackagesByStatusQueryHandler(reader PackageReader) CountPackagesByStatusQueryHandler {
	return CountPackagesByStatusQueryHandler{reader: reader}
}

func (h CountPackagesByStatusQueryHandler) Handle(
	ctx context.Context,
	query CountPackagesByStatusQuery,
) (map[parcel.Status]int64, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	counts, err := h.reader.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[parcel.Status]int64, len(parcel.Statuses()))
	for _, s := range parcel.Statuses() {
		result[s] = counts[s]
	}
	return result, nil
}
