package queries

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrGetPackageQueryIsNotConstructed = errors.New(
	"GetPackageQuery must be created via NewGetPackageQuery constructor",
)

// GetPackageQuery fetches one package with its full history by identifier.
type GetPackageQuery struct {
	packageID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetPackageQuery(packageID kernel.UUID) (GetPackageQuery, error) {
	if err := packageID.Validate(); err != nil {
		return GetPackageQuery{}, err
	}
	return GetPackageQuery{packageID: packageID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPackageQuery) Validate() error {
	return q.guard.Validate(ErrGetPackageQueryIsNotConstructed)
}

func (q GetPackageQuery) PackageID() kernel.UUID {
	return q.packageID
}
