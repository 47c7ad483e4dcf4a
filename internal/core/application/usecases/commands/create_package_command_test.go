package commands_test

import (
	"testing"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatePackageCommand_ValidInput(t *testing.T) {
	sender, recipient := mustContact("Alice"), mustContact("Bob")

	cmd, err := commands.NewCreatePackageCommand(sender, recipient)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.True(t, cmd.Sender().IsEqual(sender))
	assert.True(t, cmd.Recipient().IsEqual(recipient))
}

func TestNewCreatePackageCommand_MissingContacts(t *testing.T) {
	_, err := commands.NewCreatePackageCommand(kernel.Contact{}, kernel.Contact{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "sender")
	assert.Contains(t, err.Error(), "recipient")
}

func TestCreatePackageCommand_ZeroValue(t *testing.T) {
	var cmd commands.CreatePackageCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreatePackageCommandIsNotConstructed)
}
