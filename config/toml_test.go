package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ensureFiles(t *testing.T, rootDir string, files ...string) {
	for _, f := range files {
		p := rootify(f, rootDir)
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestEnsureRoot(t *testing.T) {
	tmpDir := t.TempDir()

	// create root dir
	require.NoError(t, EnsureRoot(tmpDir))
	written, err := WriteConfigFileIfNone(tmpDir, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, written)

	// make sure config is set properly
	data, err := os.ReadFile(filepath.Join(tmpDir, defaultConfigFilePath))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), configHeader))
	assert.Contains(t, string(data), `client-id = "parlia-0"`)
	assert.Contains(t, string(data), "[instrumentation]")

	ensureFiles(t, tmpDir, "data", "config")
}

func TestWriteConfigFileIfNoneKeepsExisting(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureRoot(tmpDir))

	cfg := DefaultConfig()
	cfg.ClientID = "custom"
	require.NoError(t, WriteConfigFile(tmpDir, cfg))
	written, err := WriteConfigFileIfNone(tmpDir, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, written)

	loaded, err := LoadConfigFile(ConfigFilePath(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, "custom", loaded.ClientID)
}

func TestConfigFileRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureRoot(tmpDir))

	cfg := TestConfig()
	cfg.Instrumentation.Prometheus = true
	cfg.Instrumentation.Namespace = "relayer"
	require.NoError(t, WriteConfigFile(tmpDir, cfg))

	loaded, err := LoadConfigFile(ConfigFilePath(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("client-id = ["), 0600))

	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}
