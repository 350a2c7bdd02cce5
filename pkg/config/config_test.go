package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	return cfg
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3000, cfg.LLM.SnapshotChars)
	assert.Equal(t, 100, cfg.LLM.SelectorMaxTokens)
	assert.Equal(t, 300, cfg.LLM.PlanMaxTokens)
	assert.Equal(t, 0.4, cfg.Resolver.LenientThreshold)
	assert.Equal(t, 0.5, cfg.Resolver.StrictThreshold)
	assert.Equal(t, 4*time.Second, cfg.Timing.StepDelay)
	assert.Equal(t, 2*time.Second, cfg.Timing.Cooldown)
	assert.Equal(t, []string{"exit", "quit", "stop", "bye"}, cfg.Session.ExitPhrases)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  model: mistralai/Mixtral-8x7B-Instruct-v0.1
  base_url: https://api.together.xyz/v1
timing:
  step_delay: 1500ms
resolver:
  strict_threshold: 0.6
navigation:
  denied_hosts: ["*.internal"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mistralai/Mixtral-8x7B-Instruct-v0.1", cfg.LLM.Model)
	assert.Equal(t, "https://api.together.xyz/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.StepDelay)
	assert.Equal(t, 0.6, cfg.Resolver.StrictThreshold)
	assert.Equal(t, 0.4, cfg.Resolver.LenientThreshold, "untouched fields keep defaults")
	assert.Equal(t, []string{"*.internal"}, cfg.Navigation.DeniedHosts)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := validConfig()
	cfg.Navigation.AllowedHosts = []string{"*.example.com"}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.LLM.BaseURL)

	cfg = DefaultConfig()
	cfg.LLM.APIKey = "sk-file"
	cfg.ApplyEnv()
	assert.Equal(t, "sk-file", cfg.LLM.APIKey, "explicit values win over env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.LLM.APIKey = "" }, wantErr: "API key is required"},
		{name: "zero snapshot", mutate: func(c *Config) { c.LLM.SnapshotChars = 0 }, wantErr: "snapshot_chars"},
		{name: "bad threshold", mutate: func(c *Config) { c.Resolver.StrictThreshold = 1.5 }, wantErr: "strict_threshold"},
		{name: "negative delay", mutate: func(c *Config) { c.Timing.StepDelay = -time.Second }, wantErr: "step_delay"},
		{name: "whisper without recorder", mutate: func(c *Config) { c.Speech.Listener = ListenerWhisper }, wantErr: "record_command"},
		{name: "unknown speaker", mutate: func(c *Config) { c.Speech.Speaker = "robot" }, wantErr: "invalid speech.speaker"},
		{name: "no exit phrases", mutate: func(c *Config) { c.Session.ExitPhrases = nil }, wantErr: "exit_phrases"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid logging level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
