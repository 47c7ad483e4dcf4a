package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("unknown tracking number", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("trackingNumber", "PKG202405141234")

		assert.Equal(t, "trackingNumber", err.ParamName)
		assert.Equal(t, "PKG202405141234", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: PKG202405141234", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("malformed tracking number keeps the parse error", func(t *testing.T) {
		cause := errors.New("does not match PKGyyyyMMddNNNN")
		err := errs.NewObjectNotFoundErrorWithCause("trackingNumber", "PKG-1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: trackingNumber, ID is: PKG-1 (cause: does not match PKGyyyyMMddNNNN)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("stringer id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("packageID", packageID("0b6f3c0e"))
		assert.Equal(t, "object not found: pkg-0b6f3c0e", err.Error())
	})
}

type packageID string

func (id packageID) String() string { return "pkg-" + string(id) }

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("STORAGE_DRIVER", errors.New(`unknown driver "sqlite"`))

		assert.Equal(t, `value is invalid: STORAGE_DRIVER (cause: unknown driver "sqlite")`, err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("notes length", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes length", 501, 0, 500)

		assert.Equal(t, 501, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 500, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 501 is notes length, min value is 0, max value is 500", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("suffix must have four digits")
		err := errs.NewValueIsOutOfRangeErrorWithCause("tracking suffix", 12345, 1000, 9999, cause)

		assert.Equal(t,
			"value is invalid: 12345 is tracking suffix, min value is 1000, max value is 9999 "+
				"(cause: suffix must have four digits)",
			err.Error())
	})

	t.Run("values stay on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("sender.name", "Alice\r\nSmith\nJr", 1, 10)

		assert.Contains(t, err.Error(), "Alice Smith Jr")
		assert.NotContains(t, err.Error(), "\n")
		assert.NotContains(t, err.Error(), "\r")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("recipient.phone")
	assert.Equal(t, "value is required: recipient.phone", err.Error())
	require.NoError(t, err.Cause)

	withCause := errs.NewValueIsRequiredErrorWithCause("timestamp", errors.New("zero time"))
	assert.Equal(t, "value is required: timestamp (cause: zero time)", withCause.Error())
	assert.Equal(t, errs.ErrValueIsRequired, withCause.Unwrap())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("version")
	assert.Equal(t, "version is invalid: version", err.Error())

	stale := errs.NewVersionIsInvalidErrorWithCause("version", errors.New("expected 2, found 3"))
	assert.Equal(t, "version is invalid: version (cause: expected 2, found 3)", stale.Error())
	assert.Equal(t, errs.ErrVersionIsInvalid, stale.Unwrap())
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", errs.NewObjectNotFoundError("packageID", "x"), errs.ErrObjectNotFound, "object not found"},
		{"invalid", errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid, "value is invalid"},
		{
			"out of range", errs.NewValueIsOutOfRangeError("notes length", 600, 0, 500),
			errs.ErrValueIsOutOfRange, "value is out of range",
		},
		{"required", errs.NewValueIsRequiredError("sender.name"), errs.ErrValueIsRequired, "value is required"},
		{"version", errs.NewVersionIsInvalidError("version"), errs.ErrVersionIsInvalid, "version is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.sentinel.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("update status: %w", tt.err), tt.sentinel)

			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					assert.NotErrorIs(t, tt.err, other.sentinel)
				}
			}
		})
	}
}

func TestErrorsThroughWrapChains(t *testing.T) {
	t.Run("errors.As finds the typed error", func(t *testing.T) {
		wrapped := fmt.Errorf("load package: %w", errs.NewObjectNotFoundError("trackingNumber", "PKG202401011234"))

		var notFound *errs.ObjectNotFoundError
		require.ErrorAs(t, wrapped, &notFound)
		assert.Equal(t, "trackingNumber", notFound.ParamName)
	})

	t.Run("joined contact errors keep every sentinel", func(t *testing.T) {
		joined := errors.Join(
			fmt.Errorf("sender: %w", errs.NewValueIsRequiredError("name")),
			fmt.Errorf("recipient: %w", errs.NewValueIsOutOfRangeError("phone length", 300, 1, 50)),
		)

		assert.ErrorIs(t, joined, errs.ErrValueIsRequired)
		assert.ErrorIs(t, joined, errs.ErrValueIsOutOfRange)
		assert.NotErrorIs(t, joined, errs.ErrObjectNotFound)
	})
}
