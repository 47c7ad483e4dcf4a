package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tracking/internal/pkg/errs"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.LockWaitTimeout)
	assert.Equal(t, "*/30 * * * * *", cfg.StatusSnapshotSchedule)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 3, cfg.DB.RetryAttempts)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	keys := []string{"STORAGE_DRIVER", "LOCK_WAIT_TIMEOUT", "REDIS_URL", "DB_NAME"}
	for _, k := range keys {
		_, set := os.LookupEnv(k)
		require.False(t, set, "%s must not be set for this test", k)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"STORAGE_DRIVER=memory\nLOCK_WAIT_TIMEOUT=250ms\nREDIS_URL=redis://localhost:6379/0\nDB_NAME=parcels\n",
	), 0o600))

	t.Setenv("DB_NAME", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.LockWaitTimeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "from-env", cfg.DB.Name, "variables already set win over the file")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		HTTPPort:        "8080",
		StorageDriver:   StorageDriverMemory,
		LockWaitTimeout: time.Second,
		LogLevel:        "debug",
		LogFormat:       "text",
		ShutdownTimeout: time.Second,
	}
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.StorageDriver = "sqlite"
	invalid.LogFormat = "xml"
	invalid.LockWaitTimeout = 0

	err := invalid.Validate()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "LOCK_WAIT_TIMEOUT")

	missingPort := valid
	missingPort.HTTPPort = ""
	require.ErrorIs(t, missingPort.Validate(), errs.ErrValueIsRequired)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGommonLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, gommonLevel("debug"))
	assert.Equal(t, log.INFO, gommonLevel("info"))
	assert.Equal(t, log.WARN, gommonLevel("warn"))
	assert.Equal(t, log.ERROR, gommonLevel("error"))
}
