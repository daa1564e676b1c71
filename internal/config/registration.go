package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical registration defaults file.
const DefaultConfigPath = "config/registration.defaults.json"

// Built-in defaults used when a field is absent from the loaded file.
const (
	DefaultOverlapThreshold = 12
	DefaultMaxIdlePasses    = 1
	DefaultWorkers          = 1
)

// RegistrationConfig holds the knobs of scanner registration. Every field
// is optional; the Get* methods fall back to the built-in defaults, so a
// partial file is safe. The same keys are used for JSON and YAML files.
type RegistrationConfig struct {
	// OverlapThreshold is the number of coinciding beacons needed to
	// accept an alignment.
	OverlapThreshold *int `json:"overlap_threshold,omitempty" yaml:"overlap_threshold,omitempty"`
	// MaxIdlePasses is how many consecutive worklist passes without a
	// registration are tolerated before giving up.
	MaxIdlePasses *int `json:"max_idle_passes,omitempty" yaml:"max_idle_passes,omitempty"`
	// Workers > 1 evaluates the candidates of a round concurrently.
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`
	// BootstrapScanner is the ID of the scanner whose frame becomes the
	// global frame. Unset means the first scanner in the report.
	BootstrapScanner *int `json:"bootstrap_scanner,omitempty" yaml:"bootstrap_scanner,omitempty"`
}

func ptrInt(v int) *int { return &v }

// EmptyRegistrationConfig returns a RegistrationConfig with all fields unset.
func EmptyRegistrationConfig() *RegistrationConfig {
	return &RegistrationConfig{}
}

// DefaultRegistrationConfig returns a config with every field set to its
// built-in default (BootstrapScanner stays unset).
func DefaultRegistrationConfig() *RegistrationConfig {
	return &RegistrationConfig{
		OverlapThreshold: ptrInt(DefaultOverlapThreshold),
		MaxIdlePasses:    ptrInt(DefaultMaxIdlePasses),
		Workers:          ptrInt(DefaultWorkers),
	}
}

// LoadRegistrationConfig loads a RegistrationConfig from a .json, .yaml or
// .yml file no larger than 1MB, then validates it.
func LoadRegistrationConfig(path string) (*RegistrationConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRegistrationConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *RegistrationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from cmd/tools/gen-scanners/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadRegistrationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the set fields hold usable values.
func (c *RegistrationConfig) Validate() error {
	if c.OverlapThreshold != nil && *c.OverlapThreshold < 1 {
		return fmt.Errorf("overlap_threshold must be at least 1, got %d", *c.OverlapThreshold)
	}
	if c.MaxIdlePasses != nil && *c.MaxIdlePasses < 1 {
		return fmt.Errorf("max_idle_passes must be at least 1, got %d", *c.MaxIdlePasses)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// GetOverlapThreshold returns overlap_threshold or the default.
func (c *RegistrationConfig) GetOverlapThreshold() int {
	if c.OverlapThreshold == nil {
		return DefaultOverlapThreshold
	}
	return *c.OverlapThreshold
}

// GetMaxIdlePasses returns max_idle_passes or the default.
func (c *RegistrationConfig) GetMaxIdlePasses() int {
	if c.MaxIdlePasses == nil {
		return DefaultMaxIdlePasses
	}
	return *c.MaxIdlePasses
}

// GetWorkers returns workers or the default.
func (c *RegistrationConfig) GetWorkers() int {
	if c.Workers == nil {
		return DefaultWorkers
	}
	return *c.Workers
}

// GetBootstrapScanner returns the bootstrap scanner ID and whether one is set.
func (c *RegistrationConfig) GetBootstrapScanner() (int, bool) {
	if c.BootstrapScanner == nil {
		return 0, false
	}
	return *c.BootstrapScanner, true
}

// SetOverlapThreshold overrides overlap_threshold, e.g. from a CLI flag.
func (c *RegistrationConfig) SetOverlapThreshold(v int) { c.OverlapThreshold = ptrInt(v) }

// SetWorkers overrides workers.
func (c *RegistrationConfig) SetWorkers(v int) { c.Workers = ptrInt(v) }
