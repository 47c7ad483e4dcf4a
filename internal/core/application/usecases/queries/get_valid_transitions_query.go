package queries

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/guard"
)

var ErrGetValidTransitionsQueryIsNotConstructed = errors.New(
	"GetValidTransitionsQuery must be created via NewGetValidTransitionsQuery constructor",
)

// GetValidTransitionsQuery asks which statuses a package may move to next.
type GetValidTransitionsQuery struct {
	packageID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetValidTransitionsQuery(packageID kernel.UUID) (GetValidTransitionsQuery, error) {
	if err := packageID.Validate(); err != nil {
		return GetValidTransitionsQuery{}, err
	}
	return GetValidTransitionsQuery{packageID: packageID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetValidTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetValidTransitionsQueryIsNotConstructed)
}

func (q GetValidTransitionsQuery) PackageID() kernel.UUID {
	return q.packageID
}
