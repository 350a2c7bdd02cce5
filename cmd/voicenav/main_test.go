package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/speech"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "voicenav v"+version+"\n", out.String())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = writeDefaultConfig(path, false)
	assert.ErrorContains(t, err, "already exists")
	_, err = writeDefaultConfig(path, true)
	assert.NoError(t, err)
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	file := config.DefaultConfig()
	file.LLM.APIKey = "from-file"
	file.LLM.Model = "file-model"
	require.NoError(t, file.Save(path))

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("OPENAI_BASE_URL", "https://env.example/v1")

	cfg, err := loadConfig(&options{
		configPath: path,
		model:      "flag-model",
		headless:   true,
		startURL:   "https://example.com",
		text:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, "https://env.example/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "flag-model", cfg.LLM.Model)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "https://example.com", cfg.Browser.StartURL)
	assert.Equal(t, config.ListenerConsole, cfg.Speech.Listener)
}

func TestLoadConfigRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := loadConfig(&options{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "API key is required")
}

func TestPrintlnWriter(t *testing.T) {
	var lines []string
	w := printlnWriter(func(s string) { lines = append(lines, s) })
	n, err := w.Write([]byte("🔊 Opened youtube.com\n"))
	require.NoError(t, err)
	assert.Equal(t, len("🔊 Opened youtube.com\n"), n)
	assert.Equal(t, []string{"🔊 Opened youtube.com"}, lines)
}

type silentListener struct{}

func (silentListener) Listen(context.Context) (string, error) { return "", io.EOF }

func TestNewPrompterSharesConsoleInput(t *testing.T) {
	console := speech.NewConsoleListener(strings.NewReader("login\nalice\nsecret\n"), nil)
	prompter := newPrompter(console, io.Discard)
	assert.NotEqual(t, "*speech.TerminalPrompter", typeName(prompter))

	ctx := context.Background()
	command, err := console.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "login", command)

	username, password, err := prompter.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "secret", password)

	_, err = console.Listen(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewPrompterUsesTerminalForOtherListeners(t *testing.T) {
	_, ok := newPrompter(silentListener{}, io.Discard).(*speech.TerminalPrompter)
	assert.True(t, ok)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
