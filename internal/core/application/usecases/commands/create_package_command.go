package commands

import (
	"errors"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

var ErrCreatePackageCommandIsNotConstructed = errors.New(
	"CreatePackageCommand must be created via NewCreatePackageCommand constructor",
)

// CreatePackageCommand registers a new package between two parties.
//
// Example:
//
//	sender, _ := kernel.NewContact("Alice", "1 Main St", "555-0100")
//	recipient, _ := kernel.NewContact("Bob", "2 Oak Ave", "555-0199")
//	cmd, err := NewCreatePackageCommand(sender, recipient)
//	if err != nil {
//	    return err
//	}
//	pkg, err := handler.Handle(ctx, cmd)
type CreatePackageCommand struct { //nolint:recvcheck //using for validation
	sender    kernel.Contact
	recipient kernel.Contact

	guard guard.ConstructorGuard
}

// NewCreatePackageCommand requires both contacts to be constructed.
func NewCreatePackageCommand(sender, recipient kernel.Contact) (CreatePackageCommand, error) {
	cmd := CreatePackageCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setSender(sender),
		cmd.setRecipient(recipient),
	); err != nil {
		return CreatePackageCommand{}, err
	}

	return cmd, nil
}

func (c CreatePackageCommand) Validate() error {
	return c.guard.Validate(ErrCreatePackageCommandIsNotConstructed)
}

func (c CreatePackageCommand) Sender() kernel.Contact {
	return c.sender
}

func (c CreatePackageCommand) Recipient() kernel.Contact {
	return c.recipient
}

func (c *CreatePackageCommand) setSender(sender kernel.Contact) error {
	if err := sender.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sender", err)
	}
	c.sender = sender
	return nil
}

func (c *CreatePackageCommand) setRecipient(recipient kernel.Contact) error {
	if err := recipient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipient", err)
	}
	c.recipient = recipient
	return nil
}
