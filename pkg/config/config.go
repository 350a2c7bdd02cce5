// Package config loads and validates the voicenav YAML configuration.
//
// The file lives at ~/.voicenav/config.yaml unless a path is given. A missing
// file is not an error: DefaultConfig is used. Environment variables fill
// credentials the file leaves unset and CLI flags override both; the caller
// applies them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete assistant configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" json:"llm"`
	Browser    BrowserConfig    `yaml:"browser" json:"browser"`
	Resolver   ResolverConfig   `yaml:"resolver" json:"resolver"`
	Timing     TimingConfig     `yaml:"timing" json:"timing"`
	Speech     SpeechConfig     `yaml:"speech" json:"speech"`
	Session    SessionConfig    `yaml:"session" json:"session"`
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`
	Debug      DebugConfig      `yaml:"debug" json:"debug"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// LLMConfig configures the completion service.
type LLMConfig struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`

	// DescribeModel is optional; if empty, summarize/extract use Model.
	DescribeModel string `yaml:"describe_model" json:"describe_model"`

	SelectorMaxTokens int `yaml:"selector_max_tokens" json:"selector_max_tokens"`
	PlanMaxTokens     int `yaml:"plan_max_tokens" json:"plan_max_tokens"`
	SummaryMaxTokens  int `yaml:"summary_max_tokens" json:"summary_max_tokens"`
	ExtractMaxTokens  int `yaml:"extract_max_tokens" json:"extract_max_tokens"`

	// SnapshotChars caps the page markup embedded in every prompt.
	SnapshotChars int `yaml:"snapshot_chars" json:"snapshot_chars"`

	// PromptTokenWarning logs a warning when a prompt exceeds this many tokens.
	PromptTokenWarning int `yaml:"prompt_token_warning" json:"prompt_token_warning"`

	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// BrowserConfig configures the Playwright session.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" json:"headless"`
	ViewportWidth  int    `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height" json:"viewport_height"`
	StartURL       string `yaml:"start_url" json:"start_url"`

	// DefaultTimeout bounds every driver action that does not carry its own timeout.
	DefaultTimeout time.Duration `yaml:"default_timeout" json:"default_timeout"`

	// SkipInstall skips the Playwright driver/browser download at startup.
	SkipInstall bool `yaml:"skip_install" json:"skip_install"`
}

// ResolverConfig configures candidate resolution.
type ResolverConfig struct {
	// LenientThreshold is the single-best fuzzy cutoff used by the click fallback.
	LenientThreshold float64 `yaml:"lenient_threshold" json:"lenient_threshold"`
	// StrictThreshold is the cutoff used when listing options to choose from.
	StrictThreshold float64 `yaml:"strict_threshold" json:"strict_threshold"`

	MaxChoices      int `yaml:"max_choices" json:"max_choices"`
	SuggestionLimit int `yaml:"suggestion_limit" json:"suggestion_limit"`
	ResultListing   int `yaml:"result_listing" json:"result_listing"`
	ScrollOffset    int `yaml:"scroll_offset" json:"scroll_offset"`
}

// TimingConfig holds the fixed delays and per-probe timeouts.
type TimingConfig struct {
	ProbeTimeout    time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
	SelectorTimeout time.Duration `yaml:"selector_timeout" json:"selector_timeout"`
	FrameTimeout    time.Duration `yaml:"frame_timeout" json:"frame_timeout"`
	StepDelay       time.Duration `yaml:"step_delay" json:"step_delay"`
	Cooldown        time.Duration `yaml:"cooldown" json:"cooldown"`
}

// ListenerKind selects the speech-to-text implementation.
type ListenerKind string

// SpeakerKind selects the text-to-speech implementation.
type SpeakerKind string

const (
	ListenerConsole ListenerKind = "console" // ListenerConsole reads typed commands from stdin.
	ListenerWhisper ListenerKind = "whisper" // ListenerWhisper records audio and transcribes it remotely.

	SpeakerConsole SpeakerKind = "console" // SpeakerConsole prints what would be spoken.
	SpeakerCommand SpeakerKind = "command" // SpeakerCommand runs an external TTS program.
)

// SpeechConfig configures the speech collaborators.
type SpeechConfig struct {
	Listener ListenerKind `yaml:"listener" json:"listener"`
	Speaker  SpeakerKind  `yaml:"speaker" json:"speaker"`

	// RecordCommand records one utterance into the file named by the
	// {file} placeholder, e.g. ["rec", "-q", "-c", "1", "-r", "16000", "{file}", "silence", "1", "0.1", "1%", "1", "1.5", "1%"].
	RecordCommand []string `yaml:"record_command,omitempty" json:"record_command,omitempty"`

	// SpeakCommand receives the text as its final argument, e.g. ["espeak"].
	SpeakCommand []string `yaml:"speak_command,omitempty" json:"speak_command,omitempty"`

	TranscriptionModel string `yaml:"transcription_model" json:"transcription_model"`
	Language           string `yaml:"language" json:"language"`
}

// SessionConfig configures the voice loop.
type SessionConfig struct {
	ExitPhrases []string `yaml:"exit_phrases" json:"exit_phrases"`
}

// NavigationConfig restricts where "open" may navigate. Patterns are host globs.
type NavigationConfig struct {
	AllowedHosts []string `yaml:"allowed_hosts,omitempty" json:"allowed_hosts,omitempty"`
	DeniedHosts  []string `yaml:"denied_hosts,omitempty" json:"denied_hosts,omitempty"`
}

// DebugConfig controls failure snapshots.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`

	// CopyExtracts copies extract results to the system clipboard.
	CopyExtracts bool `yaml:"copy_extracts" json:"copy_extracts"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// Dir overrides ~/.voicenav/logs.
	Dir string `yaml:"dir" json:"dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:              "gpt-4o-mini",
			SelectorMaxTokens:  100,
			PlanMaxTokens:      300,
			SummaryMaxTokens:   150,
			ExtractMaxTokens:   200,
			SnapshotChars:      3000,
			PromptTokenWarning: 2000,
			Timeout:            30 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:       false,
			ViewportWidth:  1280,
			ViewportHeight: 720,
			DefaultTimeout: 5 * time.Second,
		},
		Resolver: ResolverConfig{
			LenientThreshold: 0.4,
			StrictThreshold:  0.5,
			MaxChoices:       3,
			SuggestionLimit:  10,
			ResultListing:    5,
			ScrollOffset:     500,
		},
		Timing: TimingConfig{
			ProbeTimeout:    2 * time.Second,
			SelectorTimeout: 5 * time.Second,
			FrameTimeout:    2 * time.Second,
			StepDelay:       4 * time.Second,
			Cooldown:        2 * time.Second,
		},
		Speech: SpeechConfig{
			Listener:           ListenerConsole,
			Speaker:            SpeakerConsole,
			TranscriptionModel: "whisper-1",
			Language:           "en",
		},
		Session: SessionConfig{
			ExitPhrases: []string{"exit", "quit", "stop", "bye"},
		},
		Debug: DebugConfig{
			Enabled: true,
			Dir:     ".",
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// DefaultPath returns ~/.voicenav/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".voicenav", "config.yaml"), nil
}

// Load reads the YAML file at path over DefaultConfig. An empty path means
// DefaultPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv fills unset LLM credentials from OPENAI_API_KEY and OPENAI_BASE_URL.
func (c *Config) ApplyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("API key is required. Set OPENAI_API_KEY environment variable or use --api-key flag")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.SnapshotChars <= 0 {
		return fmt.Errorf("llm.snapshot_chars must be positive")
	}
	for name, v := range map[string]int{
		"selector_max_tokens": c.LLM.SelectorMaxTokens,
		"plan_max_tokens":     c.LLM.PlanMaxTokens,
		"summary_max_tokens":  c.LLM.SummaryMaxTokens,
		"extract_max_tokens":  c.LLM.ExtractMaxTokens,
	} {
		if v <= 0 {
			return fmt.Errorf("llm.%s must be positive", name)
		}
	}

	if err := validThreshold("resolver.lenient_threshold", c.Resolver.LenientThreshold); err != nil {
		return err
	}
	if err := validThreshold("resolver.strict_threshold", c.Resolver.StrictThreshold); err != nil {
		return err
	}
	if c.Resolver.MaxChoices < 1 {
		return fmt.Errorf("resolver.max_choices must be at least 1")
	}

	for name, d := range map[string]time.Duration{
		"probe_timeout":    c.Timing.ProbeTimeout,
		"selector_timeout": c.Timing.SelectorTimeout,
		"frame_timeout":    c.Timing.FrameTimeout,
		"step_delay":       c.Timing.StepDelay,
		"cooldown":         c.Timing.Cooldown,
	} {
		if d < 0 {
			return fmt.Errorf("timing.%s cannot be negative", name)
		}
	}

	switch c.Speech.Listener {
	case ListenerConsole:
	case ListenerWhisper:
		if len(c.Speech.RecordCommand) == 0 {
			return fmt.Errorf("speech.record_command is required for the whisper listener")
		}
	default:
		return fmt.Errorf("invalid speech.listener: %s (must be 'console' or 'whisper')", c.Speech.Listener)
	}

	switch c.Speech.Speaker {
	case SpeakerConsole:
	case SpeakerCommand:
		if len(c.Speech.SpeakCommand) == 0 {
			return fmt.Errorf("speech.speak_command is required for the command speaker")
		}
	default:
		return fmt.Errorf("invalid speech.speaker: %s (must be 'console' or 'command')", c.Speech.Speaker)
	}

	if len(c.Session.ExitPhrases) == 0 {
		return fmt.Errorf("session.exit_phrases cannot be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Logging.Level)
	}

	return nil
}

func validThreshold(name string, v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
	}
	return nil
}
