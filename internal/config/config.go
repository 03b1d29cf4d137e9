package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the runtime configuration
type Config struct {
	System   SystemConfig   `mapstructure:"system"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SystemConfig controls how many devices are brought up and how each is sized
type SystemConfig struct {
	DeviceCount int   `mapstructure:"device_count"`
	HostBytes   int64 `mapstructure:"host_bytes"`   // per-device host arena capacity, 0 = unbounded
	DeviceBytes int64 `mapstructure:"device_bytes"` // per-device VRAM arena capacity, 0 = unbounded
	QueueDepth  int   `mapstructure:"queue_depth"`  // timeline submission queue depth
}

type SnapshotConfig struct {
	Compress bool `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	shortfinDir := filepath.Join(home, ".shortfin")

	return &Config{
		System: SystemConfig{
			DeviceCount: 1,
			HostBytes:   0,
			DeviceBytes: 1 << 30, // 1 GiB of simulated device memory
			QueueDepth:  256,
		},
		Snapshot: SnapshotConfig{
			Compress: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    filepath.Join(shortfinDir, "shortfin.log"),
			Console: true,
		},
	}
}

// Load loads configuration from file, environment, and defaults
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	// Config file setup
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".shortfin"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// Environment variables
	v.SetEnvPrefix("SHORTFIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is okay, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ExpandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.System.DeviceCount < 1 || c.System.DeviceCount > 64 {
		return errors.New("system.device_count must be between 1 and 64")
	}

	if c.System.HostBytes < 0 {
		return errors.New("system.host_bytes must not be negative")
	}

	if c.System.DeviceBytes < 0 {
		return errors.New("system.device_bytes must not be negative")
	}

	if c.System.QueueDepth < 1 {
		return errors.New("system.queue_depth must be at least 1")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// ExpandPaths expands ~ and environment variables in paths
func (c *Config) ExpandPaths() {
	c.Logging.File = expandPath(c.Logging.File)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("system.device_count", cfg.System.DeviceCount)
	v.SetDefault("system.host_bytes", cfg.System.HostBytes)
	v.SetDefault("system.device_bytes", cfg.System.DeviceBytes)
	v.SetDefault("system.queue_depth", cfg.System.QueueDepth)

	v.SetDefault("snapshot.compress", cfg.Snapshot.Compress)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
