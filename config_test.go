package vizh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vizh.yml")

	cfg := DefaultConfig()
	cfg.CC = "clang"
	cfg.Workers = 4
	cfg.DebugParser = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
