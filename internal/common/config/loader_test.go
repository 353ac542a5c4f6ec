// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
app:
  name: shopscout
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Sources.PriceSite.Timeout)
	assert.Equal(t, 12, cfg.Sources.PriceSite.MaxItems)
	assert.Equal(t, 8, cfg.Sources.UserTarget.MaxTargets)
	assert.Equal(t, 1200, cfg.Sources.UserTarget.MinContentBytes)
	assert.Equal(t, 20, cfg.Cache.TTLMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_TimeoutBoundsEnforced(t *testing.T) {
	path := writeConfig(t, `
sources:
  price_site:
    timeout: 500
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1000 and 25000")
}

func TestLoadFromFile_TargetCapEnforced(t *testing.T) {
	path := writeConfig(t, `
sources:
  user_target:
    max_targets: 20
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_targets")
}

func TestLoadFromFile_ExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
cache:
  ttl_minutes: 5
sources:
  resale_site:
    timeout: 4000
    max_items: 6
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Cache.TTLMinutes)
	assert.Equal(t, 4000, cfg.Sources.ResaleSite.Timeout)
	assert.Equal(t, 6, cfg.Sources.ResaleSite.MaxItems)
}
