package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cowork", cfg.App.Name)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, 60, cfg.JWT.AccessExpireMin)
	assert.Equal(t, "disable", cfg.DB.Postgres.Write.SSLMode)
	assert.Equal(t, "cowork.bookings", cfg.Kafka.Topics.Booking)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SERVER_PORT=9090\nAPP_APP_NAME=from-file\n"), 0o600))

	t.Setenv("SERVER_ENV", "development")
	t.Setenv("SERVER_PORT", "7070")
	// registers the restore before the dotenv file sets it
	t.Setenv("APP_APP_NAME", "")
	require.NoError(t, os.Unsetenv("APP_APP_NAME"))

	cfg, err := config.Load(file, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.App.Name)
}

func TestLoad_ProductionNeedsSecrets(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	_, err = config.Load()
	require.Error(t, err)

	t.Setenv("JWT_REFRESH_SECRET", "different")

	_, err = config.Load()
	assert.NoError(t, err)
}
