package headless

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a scripted session.
type Config struct {
	// Name identifies the script in artifacts
	Name string `yaml:"name" json:"name"`

	// StartURL, if set, is opened before the first step
	StartURL string `yaml:"start_url" json:"start_url"`

	Steps []Step `yaml:"steps" json:"steps"`

	// StopOnFailure ends the run at the first step that does not complete
	StopOnFailure bool `yaml:"stop_on_failure" json:"stop_on_failure"`

	// Timeout bounds the whole run
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
}

// Step is one scripted command.
type Step struct {
	Command string `yaml:"command" json:"command"`

	// Choose answers a disambiguation prompt with this one-based option.
	// Zero leaves any prompt unanswered, which fails the step.
	Choose int `yaml:"choose,omitempty" json:"choose,omitempty"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Steps) == 0 {
		return errors.New("script has no steps")
	}
	for i, s := range c.Steps {
		if s.Command == "" {
			return fmt.Errorf("step %d: command is required", i+1)
		}
		if s.Choose < 0 {
			return fmt.Errorf("step %d: choose cannot be negative", i+1)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts.output_dir is required when artifacts are enabled")
	}
	return nil
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		StopOnFailure: true,
		Timeout:       10 * time.Minute,
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".voicenav/artifacts",
		},
	}
}

// LoadConfig reads a script over DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return cfg, nil
}
