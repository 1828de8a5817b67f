// Package config loads and persists the application configuration from a
// YAML file in the user config directory, filling missing fields from
// constant defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sharegate/internal/constants"
	"sharegate/internal/logger"
)

// AuthConfig holds client authentication settings.
// When Required is false the engine still verifies ownership against the
// registry, but callers do not present credentials (matches the legacy
// deployment this service replaces).
type AuthConfig struct {
	Required bool `yaml:"required"`
}

// AuditConfig holds audit log retention settings.
type AuditConfig struct {
	MaxLogSizeBytes int64 `yaml:"max_log_size_bytes"`
	PurgePercentage int   `yaml:"purge_percentage"`
}

// Config holds all application configuration.
type Config struct {
	DataDirectory string      `yaml:"data_directory"`
	Port          int         `yaml:"port"`
	LogLevel      string      `yaml:"log_level"`
	Auth          AuthConfig  `yaml:"auth"`
	Audit         AuditConfig `yaml:"audit"`
}

// ApplyDefaults fills zero-valued fields with constant defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.DataDirectory == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDirectory = filepath.Join(home, constants.DefaultDataDir)
		}
	}
	if cfg.Port == 0 {
		cfg.Port = constants.DefaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = constants.DefaultLogLevel
	}
	if cfg.Audit.MaxLogSizeBytes == 0 {
		cfg.Audit.MaxLogSizeBytes = constants.AuditMaxLogSizeBytes
	}
	if cfg.Audit.PurgePercentage == 0 {
		cfg.Audit.PurgePercentage = constants.AuditPurgePercentage
	}
}

// validate checks that all configurable values are within acceptable ranges.
func (cfg *Config) validate() error {
	var errs []string

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}
	if cfg.Audit.MaxLogSizeBytes < 1048576 {
		errs = append(errs, "audit.max_log_size_bytes must be >= 1048576 (1MB)")
	}
	if cfg.Audit.PurgePercentage < 1 || cfg.Audit.PurgePercentage > 100 {
		errs = append(errs, "audit.purge_percentage must be between 1 and 100")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogEffectiveValues logs all effective configuration values at startup.
func (cfg *Config) LogEffectiveValues(log *logger.Logger) {
	log.Info("config: data_directory=%s", cfg.DataDirectory)
	log.Info("config: port=%d", cfg.Port)
	log.Info("config: log_level=%s", cfg.LogLevel)
	log.Info("config: auth.required=%t", cfg.Auth.Required)
	log.Info("config: audit.max_log_size_bytes=%d", cfg.Audit.MaxLogSizeBytes)
	log.Info("config: audit.purge_percentage=%d", cfg.Audit.PurgePercentage)
}

func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.ConfigDir)
}

func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), constants.ConfigFile)
}

func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), constants.DirPermissions)
}

// LoadConfig reads the config file from the user config directory, creating
// it with defaults on first run.
func LoadConfig() (*Config, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}
	return LoadConfigFromPath(GetConfigPath())
}

// LoadConfigFromPath reads a config file from an explicit path, creating it
// with defaults if it does not exist.
func LoadConfigFromPath(path string) (*Config, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		cfg := &Config{}
		cfg.ApplyDefaults()
		if err := SaveConfigToPath(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the config to the default path.
func SaveConfig(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return SaveConfigToPath(cfg, GetConfigPath())
}

// SaveConfigToPath marshals the config to YAML at the given path.
func SaveConfigToPath(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, constants.FilePermissions)
}

// InitializeDataDirectory creates the data directory and its internal
// subdirectory if they do not exist, and verifies writability.
func InitializeDataDirectory(dir string) error {
	if dir == "" {
		return fmt.Errorf("data directory not set")
	}
	internal := filepath.Join(dir, constants.InternalDir)
	if err := os.MkdirAll(internal, constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	// Probe writability so misconfiguration fails at startup, not mid-request.
	probe := filepath.Join(internal, ".write_probe")
	if err := os.WriteFile(probe, []byte("ok"), constants.FilePermissions); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// LedgerDBPath returns the path of the SQLite database inside the data directory.
func LedgerDBPath(dataDir string) string {
	return filepath.Join(dataDir, constants.InternalDir, constants.LedgerDB)
}
