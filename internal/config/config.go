// Package config loads pixelproof configuration from an optional JSON file
// with environment variable overrides. A missing file yields defaults; a
// malformed file is an error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"pixelproof/internal/visual"
)

// Config holds all pixelproof configuration.
type Config struct {
	// StorageDir is where baselines and diff artifacts live.
	StorageDir string `json:"storage_dir"`
	// DefaultSensitivity is the core-level tolerance in [0,1].
	DefaultSensitivity float64 `json:"default_sensitivity"`
	// AgentSensitivity maps agent names to agent-level defaults in [0,1].
	AgentSensitivity map[string]float64 `json:"agent_sensitivity,omitempty"`

	Logging LoggingConfig `json:"logging"`
	Capture CaptureConfig `json:"capture"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Dir   string `json:"dir"`
	Level string `json:"level"` // debug, info, warn, error
}

// CaptureConfig configures the browser capture producer.
type CaptureConfig struct {
	Headless            bool `json:"headless"`
	ViewportWidth       int  `json:"viewport_width"`
	ViewportHeight      int  `json:"viewport_height"`
	SampleWidth         int  `json:"sample_width"`
	SampleHeight        int  `json:"sample_height"`
	NavigationTimeoutMs int  `json:"navigation_timeout_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StorageDir:         "visual_artifacts",
		DefaultSensitivity: 0.05,
		Logging: LoggingConfig{
			Dir:   "logs",
			Level: "info",
		},
		Capture: CaptureConfig{
			Headless:            true,
			ViewportWidth:       1280,
			ViewportHeight:      800,
			SampleWidth:         64,
			SampleHeight:        40,
			NavigationTimeoutMs: 30000,
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file is absent, then applies env overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Env override keys. Values beat both the file and the defaults.
const (
	envStorageDir  = "PIXELPROOF_STORAGE_DIR"
	envSensitivity = "PIXELPROOF_SENSITIVITY"
	envLogDir      = "PIXELPROOF_LOG_DIR"
	envLogLevel    = "PIXELPROOF_LOG_LEVEL"
)

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envStorageDir); v != "" {
		c.StorageDir = v
	}
	if v := os.Getenv(envSensitivity); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.DefaultSensitivity = f
		}
	}
	if v := os.Getenv(envLogDir); v != "" {
		c.Logging.Dir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks every configured sensitivity at configuration time so
// invalid values surface before any comparison runs.
func (c Config) Validate() error {
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir must not be empty")
	}
	if err := visual.ValidateSensitivity(c.DefaultSensitivity, "core default"); err != nil {
		return err
	}
	for name, v := range c.AgentSensitivity {
		if err := visual.ValidateSensitivity(v, "agent default"); err != nil {
			return fmt.Errorf("agent %q: %w", name, err)
		}
	}
	return nil
}

// AgentDefault returns the configured agent-level sensitivity for an agent
// name, or nil when unset.
func (c Config) AgentDefault(name string) *float64 {
	if v, ok := c.AgentSensitivity[name]; ok {
		return &v
	}
	return nil
}
