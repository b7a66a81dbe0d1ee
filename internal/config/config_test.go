package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "storage:\n  dsn: postgres://file\nlog:\n  mode: development\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://file", cfg.Storage.DSN)
	require.Equal(t, "development", cfg.Log.Mode)
	require.NoError(t, cfg.Validate())

	t.Setenv("CURIO_DSN", "postgres://env")
	t.Setenv("CURIO_METRICS_ADDR", ":9090")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://env", cfg.Storage.DSN, "env overrides file")
	require.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_DefaultsAndValidate(t *testing.T) {
	t.Setenv("CURIO_DSN", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Log.Mode)
	require.Error(t, cfg.Validate(), "DSN is required")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
