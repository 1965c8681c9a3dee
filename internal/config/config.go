package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cursorstream.json"

	// DefaultEndpoint is the agent's default WebSocket address.
	DefaultEndpoint = "ws://127.0.0.1:9000"

	// DefaultOutputDir is where the watch command stores cursor frames.
	DefaultOutputDir = "frames"
)

// Config represents the complete cursorstream.json configuration.
type Config struct {
	// Endpoint is the WebSocket URL of the cursor stream server.
	Endpoint string `json:"endpoint,omitempty"`

	// DevicePixelRatio is announced to the server after connecting;
	// 0 disables the announcement.
	DevicePixelRatio float64 `json:"device_pixel_ratio,omitempty"`

	// HeartbeatTimeout is a Go duration string, e.g. "90s".
	HeartbeatTimeout string `json:"heartbeat_timeout,omitempty"`

	// Backoff tunes the reconnect schedule.
	Backoff BackoffConfig `json:"backoff,omitempty"`

	// OutputDir is where received cursor frames are written.
	OutputDir string `json:"output_dir,omitempty"`

	// MetricsAddr, when set, serves Prometheus metrics (e.g. ":9100").
	MetricsAddr string `json:"metrics_addr,omitempty"`
}

// BackoffConfig holds the reconnect backoff durations as Go duration
// strings.
type BackoffConfig struct {
	Base       string `json:"base,omitempty"`
	Max        string `json:"max,omitempty"`
	ResetAfter string `json:"reset_after,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Endpoint:  DefaultEndpoint,
		OutputDir: DefaultOutputDir,
	}
}

// Load reads ConfigFileName from the current directory. A missing file is
// not an error; defaults are returned.
func Load() (*Config, error) {
	return LoadFrom(ConfigFileName)
}

// LoadFrom reads the configuration from the given path, filling defaults
// for absent fields.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every duration field parses.
func (c *Config) Validate() error {
	for _, field := range []struct {
		name, value string
	}{
		{"heartbeat_timeout", c.HeartbeatTimeout},
		{"backoff.base", c.Backoff.Base},
		{"backoff.max", c.Backoff.Max},
		{"backoff.reset_after", c.Backoff.ResetAfter},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	if c.DevicePixelRatio < 0 {
		return fmt.Errorf("device_pixel_ratio: must not be negative")
	}
	return nil
}

// Duration parses a validated duration field, returning fallback when the
// field is empty.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
