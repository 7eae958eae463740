package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "inventory", cfg.Storage.Bucket)
	assert.Equal(t, "snapshots", cfg.Inventory.SnapshotPrefix)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("INVENTORY_STORE_UUID", "store-1")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nDATABASE_PORT=3307\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("DATABASE_PORT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, "store-1", cfg.Inventory.StoreUUID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3307, cfg.Database.Port)
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }, "invalid server port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "unsupported database driver"},
		{"negative journal", func(c *Config) { c.Inventory.JournalLimit = -1 }, "journal limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}
