// Package commands contains the use cases that change package state.
// Every command follows the same pattern: a guarded command value built by its
// constructor, and a handler that runs it inside a unit of work.
package commands

import (
	"context"

	"tracking/internal/core/ports"
)

// Unit of work interfaces as seen by the command handlers. The composition
// root adapts ports.UnitOfWorkFactory to PackageUoWFactory.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PackageRepoFactory provides the package repository bound to the transaction.
	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	// PackageUoW manages transactions for package operations.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   pkg, err := uow.PackageRepository().GetForUpdate(ctx, id)
	//   // ... change pkg, Update it
	//
	//   return uow.Commit(ctx)
	PackageUoW interface {
		TxManager
		PackageRepoFactory
	}

	// PackageUoWFactory creates a unit of work per command execution.
	PackageUoWFactory interface {
		Create() PackageUoW
	}
)
