package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of a command. Writes made through
// its repository become visible to other readers all at once on Commit, or
// not at all. Domain events of the aggregates it saved are published after a
// successful Commit.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active, which makes it
	// safe to defer after Commit.
	Rollback(ctx context.Context) error

	// PackageRepository is bound to the active transaction, or reads and
	// writes directly when none was begun.
	PackageRepository() PackageRepository
}
