package commands_test

import (
	"testing"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdatePackageStatusCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewUpdatePackageStatusCommand(id, parcel.Returned, "wrong address")

	require.NoError(t, err)
	assert.True(t, cmd.PackageID().IsEqual(id))
	assert.Equal(t, parcel.Returned, cmd.Status())
	assert.Equal(t, "wrong address", cmd.Notes())
}

func TestNewUpdatePackageStatusCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewUpdatePackageStatusCommand(kernel.UUID{}, parcel.Unknown, "")

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestUpdatePackageStatusCommand_ZeroValue(t *testing.T) {
	var cmd commands.UpdatePackageStatusCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrUpdatePackageStatusCommandIsNotConstructed)
}
