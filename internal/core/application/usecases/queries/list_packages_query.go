package queries

import (
	"errors"
	"strings"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/pkg/guard"
)

var ErrListPackagesQueryIsNotConstructed = errors.New(
	"ListPackagesQuery must be created via NewListPackagesQuery constructor",
)

// ListPackagesQuery searches packages. An empty tracking number fragment and
// a nil status both mean "any".
//
// Example:
//
//	sent := parcel.Sent
//	q, _ := NewListPackagesQuery("PKG2024", &sent)
type ListPackagesQuery struct {
	trackingNumber string
	status         *parcel.Status
	guard          guard.ConstructorGuard
}

func NewListPackagesQuery(trackingNumber string, status *parcel.Status) (ListPackagesQuery, error) {
	q := ListPackagesQuery{
		trackingNumber: strings.TrimSpace(trackingNumber),
		guard:          guard.NewConstructorGuard(),
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListPackagesQuery{}, err
		}
		s := *status
		q.status = &s
	}
	return q, nil
}

func (q ListPackagesQuery) Validate() error {
	return q.guard.Validate(ErrListPackagesQueryIsNotConstructed)
}

func (q ListPackagesQuery) TrackingNumber() string {
	return q.trackingNumber
}

// Status returns the status filter and whether one is set.
func (q ListPackagesQuery) Status() (parcel.Status, bool) {
	if q.status == nil {
		return parcel.Unknown, false
	}
	return *q.status, true
}
