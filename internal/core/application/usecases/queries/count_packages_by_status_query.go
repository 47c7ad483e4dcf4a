package queries

import (
	"errors"

	"tracking/internal/pkg/guard"
)

var ErrCountPackagesByStatusQueryIsNotConstructed = errors.New(
	"CountPackagesByStatusQuery must be created via NewCountPackagesByStatusQuery constructor",
)

// CountPackagesByStatusQuery is a parameterless query used by the status
// snapshot job.
type CountPackagesByStatusQuery struct {
	guard guard.ConstructorGuard
}

func NewCountPackagesByStatusQuery() CountPackagesByStatusQuery {
	return CountPackagesByStatusQuery{guard: guard.NewConstructorGuard()}
}

func (q CountPackagesByStatusQuery) Validate() error {
	return q.guard.Validate(ErrCountPackagesByStatusQueryIsNotConstructed)
}
