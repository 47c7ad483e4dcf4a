package ports

import (
	"context"
	"errors"

	"tracking/internal/core/domain/model/kernel"
)

// ErrPackageLocked is returned when a package stays locked by another writer
// longer than the locker is willing to wait.
var ErrPackageLocked = errors.New("package is locked by another update")

// PackageLocker serializes writers of the same package. Writers of different
// packages never block each other.
type PackageLocker interface {
	// Lock blocks until the package is locked, the wait limit elapses
	// (ErrPackageLocked) or ctx is done. The returned func releases the lock
	// and is safe to call more than once.
	Lock(ctx context.Context, id kernel.UUID) (unlock func(), err error)
}
