package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Equal(t, "auto", config.Server.APIKey)
	assert.Equal(t, 30*time.Second, config.Server.PerfInterval)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, uint64(1), config.Generator.Seed)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64)

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestSaveLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	expected := DefaultConfig()
	expected.DataDir = "/custom/data"
	expected.Server.Port = 9000
	expected.Server.APIKey = "test-api-key"
	expected.Server.PerfInterval = 5 * time.Second
	expected.Logging.Level = "debug"
	expected.Generator.Users = 7

	require.NoError(t, SaveConfig(expected, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, expected, loaded)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9200\n  perf_interval: 1m\n"), 0600))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9200, loaded.Server.Port)
	assert.Equal(t, time.Minute, loaded.Server.PerfInterval)
	assert.Equal(t, "./data", loaded.DataDir)
	assert.Equal(t, 100, loaded.Generator.Cards)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 70000\n"), 0600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "negative perf interval", mutate: func(c *Config) { c.Server.PerfInterval = -time.Second }},
		{name: "negative count", mutate: func(c *Config) { c.Generator.Merchants = -1 }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "chatty" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config, err := BootstrapConfig(configPath, "/tmp/datagen")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/datagen", config.DataDir)
	assert.Len(t, config.Server.APIKey, 64)
	assert.True(t, ConfigExists(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var onDisk Config
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, config.Server.APIKey, onDisk.Server.APIKey)
}

func TestPaths(t *testing.T) {
	config := DefaultConfig()
	config.DataDir = "/var/lib/datagen"

	assert.Equal(t, "/var/lib/datagen/records.log", config.RecordLogPath())
	assert.Equal(t, "/var/lib/datagen/records.db", config.StoragePath())
	assert.NotEmpty(t, GetDefaultConfigPath())
	assert.False(t, ConfigExists("/definitely/not/here.yaml"))
}
