// Package speech holds the voice collaborators: listeners turn one utterance
// into text, speakers voice feedback, and the credential prompter collects a
// login without speaking it aloud.
package speech

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnintelligible means audio was captured but no words were recognized.
	ErrUnintelligible = errors.New("speech was not understood")
	// ErrServiceUnavailable means the recognition service could not be reached.
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)

// Listener captures one utterance and returns its transcription. It blocks
// until the user has finished speaking or ctx is done.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker voices text. Speak returns once the text has been spoken; failures
// are the speaker's own concern.
type Speaker interface {
	Speak(text string)
}

// CredentialPrompter collects a username and password.
type CredentialPrompter interface {
	Credentials(ctx context.Context) (username, password string, err error)
}

// SpeakerFunc adapts a function to Speaker.
type SpeakerFunc func(text string)

// Speak calls f.
func (f SpeakerFunc) Speak(text string) { f(text) }

// Mute is a Speaker that says nothing.
var Mute Speaker = SpeakerFunc(func(string) {})

// utteranceTrim is the whitespace and sentence punctuation a transcription
// service may wrap around an utterance.
const utteranceTrim = " \t\r\n.,!?;:"

// Normalize strips surrounding whitespace and sentence punctuation from a
// transcript, so "Scroll down." reads as "Scroll down".
func Normalize(text string) string {
	return strings.Trim(text, utteranceTrim)
}
