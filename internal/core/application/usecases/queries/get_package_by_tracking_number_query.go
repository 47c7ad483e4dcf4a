package queries

import (
	"errors"
	"strings"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrGetPackageByTrackingNumberQueryIsNotConstructed = errors.New(
	"GetPackageByTrackingNumberQuery must be created via NewGetPackageByTrackingNumberQuery constructor",
)

// GetPackageByTrackingNumberQuery looks a package up by its public reference.
// The reference is kept as typed by the caller; a malformed one simply
// matches nothing.
type GetPackageByTrackingNumberQuery struct {
	trackingNumber string
	guard          guard.ConstructorGuard
}

func NewGetPackageByTrackingNumberQuery(trackingNumber string) (GetPackageByTrackingNumberQuery, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return GetPackageByTrackingNumberQuery{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	return GetPackageByTrackingNumberQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetPackageByTrackingNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageByTrackingNumberQueryIsNotConstructed)
}

func (q GetPackageByTrackingNumberQuery) TrackingNumber() string {
	return q.trackingNumber
}
