package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", c.ServerURL)
	assert.Equal(t, "gophtasks.db", c.DBPath)
	assert.Equal(t, 2*time.Second, c.SyncWindow)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":  "https://json.example",
		"sync_window": "3s",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "https://flag.example"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "https://flag.example", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.SyncWindow)
	assert.Equal(t, "gophtasks.db", cfg.DBPath)
}
