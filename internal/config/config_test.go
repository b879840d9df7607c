package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "tally.db", cfg.Database.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 2.0, cfg.Reconciliation.Threshold)
	require.True(t, cfg.Sweep.Enabled)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  host: 127.0.0.1
  port: "9090"
database:
  path: /var/lib/tally/tally.db
log:
  level: debug
reconciliation:
  threshold: 5
sweep:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("TALLY_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.Equal(t, "/var/lib/tally/tally.db", cfg.Database.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 5.0, cfg.Reconciliation.Threshold)
	require.False(t, cfg.Sweep.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o644))
	t.Setenv("TALLY_CONFIG_PATH", path)
	t.Setenv("TALLY_PORT", "7070")
	t.Setenv("TALLY_RECONCILIATION_THRESHOLD", "1.5")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, 1.5, cfg.Reconciliation.Threshold)
}

func TestValidate(t *testing.T) {
	t.Setenv("TALLY_RECONCILIATION_THRESHOLD", "-1")
	_, err := Load("")
	require.Error(t, err)
}
