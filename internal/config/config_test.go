package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"endpoint": "ws://10.0.0.5:9000",
		"device_pixel_ratio": 2.0,
		"heartbeat_timeout": "45s",
		"backoff": {"base": "250ms", "max": "10s"},
		"metrics_addr": ":9100"
	}`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Endpoint != "ws://10.0.0.5:9000" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.DevicePixelRatio != 2.0 {
		t.Errorf("DevicePixelRatio = %v, want 2.0", cfg.DevicePixelRatio)
	}
	if cfg.HeartbeatTimeout != "45s" {
		t.Errorf("HeartbeatTimeout = %q, want 45s", cfg.HeartbeatTimeout)
	}
	if cfg.Backoff.Base != "250ms" {
		t.Errorf("Backoff.Base = %q, want 250ms", cfg.Backoff.Base)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want default fill-in", cfg.OutputDir)
	}
}

func TestLoadFromRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `{"heartbeat_timeout": "not-a-duration"}`)
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want duration parse error")
	}
}

func TestLoadFromRejectsNegativeDPR(t *testing.T) {
	path := writeConfig(t, `{"device_pixel_ratio": -1}`)
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want validation error")
	}
}

func TestLoadFromRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, `{"endpoint": `)
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("", 5*time.Second); got != 5*time.Second {
		t.Errorf("Duration(empty) = %v, want fallback", got)
	}
	if got := Duration("2s", 5*time.Second); got != 2*time.Second {
		t.Errorf("Duration(2s) = %v, want 2s", got)
	}
}
