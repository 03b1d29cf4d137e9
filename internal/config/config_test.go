package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.System.DeviceCount != 1 {
		t.Errorf("expected 1 default device, got %d", cfg.System.DeviceCount)
	}
	if cfg.System.QueueDepth != 256 {
		t.Errorf("expected queue depth 256, got %d", cfg.System.QueueDepth)
	}
	if cfg.System.DeviceBytes != 1<<30 {
		t.Errorf("expected 1 GiB device arena, got %d", cfg.System.DeviceBytes)
	}
	if !cfg.Snapshot.Compress {
		t.Error("expected snapshot compression on by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero devices",
			mutate:  func(c *Config) { c.System.DeviceCount = 0 },
			wantErr: "device_count",
		},
		{
			name:    "too many devices",
			mutate:  func(c *Config) { c.System.DeviceCount = 65 },
			wantErr: "device_count",
		},
		{
			name:    "negative host bytes",
			mutate:  func(c *Config) { c.System.HostBytes = -1 },
			wantErr: "host_bytes",
		},
		{
			name:    "negative device bytes",
			mutate:  func(c *Config) { c.System.DeviceBytes = -1 },
			wantErr: "device_bytes",
		},
		{
			name:    "zero queue depth",
			mutate:  func(c *Config) { c.System.QueueDepth = 0 },
			wantErr: "queue_depth",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	content := `system:
  device_count: 3
  queue_depth: 16
  device_bytes: 1048576
snapshot:
  compress: false
logging:
  level: debug
  file: ""
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.System.DeviceCount != 3 {
		t.Errorf("expected 3 devices, got %d", cfg.System.DeviceCount)
	}
	if cfg.System.QueueDepth != 16 {
		t.Errorf("expected queue depth 16, got %d", cfg.System.QueueDepth)
	}
	if cfg.System.DeviceBytes != 1048576 {
		t.Errorf("expected 1 MiB device arena, got %d", cfg.System.DeviceBytes)
	}
	if cfg.Snapshot.Compress {
		t.Error("expected compression disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
	// Unset keys keep their defaults
	if cfg.System.HostBytes != 0 {
		t.Errorf("expected unbounded host arena, got %d", cfg.System.HostBytes)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.System.DeviceCount != 1 {
		t.Errorf("expected default device count, got %d", cfg.System.DeviceCount)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	content := `system:
  device_count: 0
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(cfgFile); err == nil {
		t.Error("expected validation error for zero devices")
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHORTFIN_SYSTEM_DEVICE_COUNT", "4")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.System.DeviceCount != 4 {
		t.Errorf("expected env override to 4 devices, got %d", cfg.System.DeviceCount)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "tilde expansion",
			path:     "~/logs/shortfin.log",
			expected: filepath.Join(home, "logs/shortfin.log"),
		},
		{
			name:     "absolute path untouched",
			path:     "/var/log/shortfin.log",
			expected: "/var/log/shortfin.log",
		},
		{
			name:     "empty path untouched",
			path:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.path)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
