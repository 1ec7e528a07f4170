package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/config"
)

// unset clears a variable for the duration of the test. t.Setenv restores
// the previous value on cleanup.
func unset(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_LISTEN_ADDR", "STORE_DRIVER", "SQLITE_PATH", "CORS_ALLOWED_ORIGINS", "CURRENCY_SYMBOL"} {
		unset(t, k)
	}

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HttpListenAddr)
	assert.Equal(t, config.StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "ledger.db", cfg.SqlitePath)
	assert.Equal(t, "Rs.", cfg.CurrencySymbol)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins())
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 5*time.Second, cfg.CommitRetryTimeout())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DATABASE", "3")
	t.Setenv("HTTP_SERVER_WRITE_TIMEOUT", "42")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.StoreRedis, cfg.StoreDriver)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDatabase)
	assert.Equal(t, 42*time.Second, cfg.WriteTimeout())
}

func TestLoad_DotEnvFile(t *testing.T) {
	unset(t, "STORE_DRIVER")
	unset(t, "SQLITE_PATH")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nSQLITE_PATH=/tmp/other.db\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "/tmp/other.db", cfg.SqlitePath)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StorePostgres, HttpListenAddr: ":8080"}
	assert.Error(t, cfg.Validate(), "postgres needs a DSN")

	cfg.PostgresDSN = "postgres://localhost/ledger?sslmode=disable"
	assert.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	assert.Error(t, cfg.Validate())
}
