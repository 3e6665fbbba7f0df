package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config represents the datagen configuration
type Config struct {
	DataDir   string     `yaml:"data_dir"`
	Server    Server     `yaml:"server"`
	Logging   log.Config `yaml:"logging"`
	Generator Generator  `yaml:"generator"`
}

// Server contains HTTP API configuration
type Server struct {
	Port   int    `yaml:"port"`
	Bind   string `yaml:"bind"`
	APIKey string `yaml:"api_key"`
	// PerfInterval is how often access and error counts are logged
	PerfInterval time.Duration `yaml:"perf_interval"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Generator contains defaults for the generate command
type Generator struct {
	Seed      uint64 `yaml:"seed"`
	Users     int    `yaml:"users"`
	Cards     int    `yaml:"cards"`
	Merchants int    `yaml:"merchants"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Server: Server{
			Port:            8080,
			Bind:            "127.0.0.1",
			APIKey:          "auto",
			PerfInterval:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: log.DefaultConfig(),
		Generator: Generator{
			Seed:      1,
			Users:     100,
			Cards:     100,
			Merchants: 100,
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Newf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.PerfInterval < 0 {
		return errors.New("server.perf_interval must not be negative")
	}
	if c.Generator.Users < 0 || c.Generator.Cards < 0 || c.Generator.Merchants < 0 {
		return errors.New("generator counts must not be negative")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing from
// the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// 0600: the file holds the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "failed to generate secure key")
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a new configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate API key")
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, errors.Wrap(err, "failed to save bootstrap config")
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./datagen.yaml"
	}

	// ~/.config/datagen/config.yaml
	return filepath.Join(homeDir, ".config", "datagen", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

// RecordLogPath is the record log location inside the data directory
func (c *Config) RecordLogPath() string {
	return filepath.Join(c.DataDir, "records.log")
}

// StoragePath is the pebble directory inside the data directory
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "records.db")
}
