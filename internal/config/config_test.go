package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, 24*7, cfg.JWTTTLHours)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("db_driver: postgres\ndb_port: \"5432\"\njwt_ttl_hours: 2\ncors_origins:\n  - http://localhost:3000\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "6543", cfg.DBPort)
	require.Equal(t, 2, cfg.JWTTTLHours)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " a , ,b")
	require.Equal(t, []string{"a", "b"}, getEnvList("TEST_LIST", nil))
}
