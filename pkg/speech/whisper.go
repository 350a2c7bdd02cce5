package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"

	"github.com/entrhq/voicenav/pkg/logging"
)

// FilePlaceholder in a record command is replaced by the output audio path.
const FilePlaceholder = "{file}"

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio *os.File) (string, error)
}

// OpenAITranscriber transcribes through the OpenAI audio API.
type OpenAITranscriber struct {
	client   openai.Client
	model    string
	language string
}

// NewOpenAITranscriber creates a transcriber on an SDK client.
func NewOpenAITranscriber(client openai.Client, model, language string) *OpenAITranscriber {
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	return &OpenAITranscriber{client: client, model: model, language: language}
}

// Transcribe uploads audio and returns the recognized text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio *os.File) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  audio,
		Model: openai.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = openai.String(t.language)
	}
	res, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// WhisperListener records one utterance with an external recorder and
// transcribes it.
type WhisperListener struct {
	record      []string
	transcriber Transcriber
	tempDir     string
	logger      *logging.Logger
	prompt      func(string)
}

// NewWhisperListener creates a listener. record is the recorder argv and
// must contain FilePlaceholder.
func NewWhisperListener(record []string, transcriber Transcriber, logger *logging.Logger, prompt func(string)) (*WhisperListener, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("record command is empty")
	}
	found := false
	for _, arg := range record {
		if strings.Contains(arg, FilePlaceholder) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("record command must contain %s", FilePlaceholder)
	}
	return &WhisperListener{
		record:      append([]string(nil), record...),
		transcriber: transcriber,
		logger:      logger,
		prompt:      prompt,
	}, nil
}

// Listen records, transcribes and cleans up the audio file.
func (l *WhisperListener) Listen(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp(l.tempDir, "voicenav-*")
	if err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "utterance.wav")

	if l.prompt != nil {
		l.prompt("🎤 Listening for your command...")
	}
	if err := l.capture(ctx, path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: no audio recorded: %v", ErrUnintelligible, err)
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return "", ErrUnintelligible
	}

	text, err := l.transcriber.Transcribe(ctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.logger.Warnf("transcription failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnintelligible
	}
	l.logger.Infof("transcribed: %q", text)
	return text, nil
}

func (l *WhisperListener) capture(ctx context.Context, path string) error {
	args := make([]string, len(l.record))
	for i, arg := range l.record {
		args[i] = strings.ReplaceAll(arg, FilePlaceholder, path)
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = io.Discard
	output := &strings.Builder{}
	cmd.Stderr = output
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			l.logger.Warnf("recorder exited with %d: %s", exitErr.ExitCode(), strings.TrimSpace(output.String()))
		}
		return fmt.Errorf("%w: recorder failed: %v", ErrServiceUnavailable, err)
	}
	return nil
}
