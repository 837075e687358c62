// Package config handles this module's process-wide defaults via
// environment variables, plus an optional YAML overlay file.
//
// Configuration is loaded from environment variables using LoadFromEnv()
// and can be validated with Validate() before use.
//
// Environment Variables:
//
//	AFFINITY_CAPABILITY_OVERRIDE — comma-separated capability names (see
//	  package capability) that force the detector result, e.g. "serial" to
//	  disable vectorized tiers for reproducible benchmarking.
//	AFFINITY_DEFAULT_CPU_CORES   — cpu_cores(n) to use when a caller asks
//	  for a device scope without specifying n (0 = all cores).
//	AFFINITY_DEFAULT_GPU_DEVICE  — gpu_device(id) to use when a caller asks
//	  for the default GPU without specifying an id.
//	AFFINITY_LOG_LEVEL           — one of debug, info, warn, error.
//
// LoadFromEnv only reads these values into a Config. No other package in
// this module reads a Config or an Overlay, so setting these variables does
// not by itself change capability detection, scope construction, or the
// logging threshold.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide defaults for this module.
type Config struct {
	CapabilityOverride string
	DefaultCPUCores    int
	DefaultGPUDevice   int
	LogLevel           string
}

// Overlay is the shape of an optional YAML file holding cost presets and
// fingerprint window widths that are awkward to express as env vars. It is
// returned separately from Config; nothing merges the two.
type Overlay struct {
	WindowWidths []int `yaml:"window_widths"`
	CostPresets  map[string]struct {
		Match       int8 `yaml:"match"`
		Mismatch    int8 `yaml:"mismatch"`
		GapOpen     int8 `yaml:"gap_open"`
		GapExtend   int8 `yaml:"gap_extend"`
	} `yaml:"cost_presets"`
}

// LoadFromEnv builds a Config from environment variables, applying
// documented defaults for anything unset.
func LoadFromEnv() Config {
	cfg := Config{
		CapabilityOverride: os.Getenv("AFFINITY_CAPABILITY_OVERRIDE"),
		DefaultCPUCores:    0,
		DefaultGPUDevice:   0,
		LogLevel:           "info",
	}
	if v := os.Getenv("AFFINITY_DEFAULT_CPU_CORES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultCPUCores = n
		}
	}
	if v := os.Getenv("AFFINITY_DEFAULT_GPU_DEVICE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultGPUDevice = n
		}
	}
	if v := os.Getenv("AFFINITY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg
}

// Validate checks internal consistency of the configuration.
func (c Config) Validate() error {
	if c.DefaultCPUCores < 0 {
		return fmt.Errorf("config: AFFINITY_DEFAULT_CPU_CORES must be >= 0, got %d", c.DefaultCPUCores)
	}
	if c.DefaultGPUDevice < 0 {
		return fmt.Errorf("config: AFFINITY_DEFAULT_GPU_DEVICE must be >= 0, got %d", c.DefaultGPUDevice)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unrecognized AFFINITY_LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// LoadOverlayFile reads an optional YAML overlay from path. A missing file
// returns the os.ReadFile error unchanged, so callers that treat the
// overlay as optional can check it with os.IsNotExist and ignore it.
func LoadOverlayFile(path string) (Overlay, error) {
	var o Overlay
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("config: parsing overlay %s: %w", path, err)
	}
	return o, nil
}
