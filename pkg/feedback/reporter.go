// Package feedback reports every outcome on two channels: the console and
// the speaker. A hands-free user hears the spoken half; the console keeps
// the detail that is too long to read aloud.
package feedback

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/entrhq/voicenav/pkg/speech"
)

// Reporter writes feedback to the console and voices it.
type Reporter struct {
	mu      sync.Mutex
	out     func(string)
	speaker speech.Speaker
	plain   bool
}

// New creates a reporter printing to w and speaking through speaker.
// A nil speaker is mute.
func New(w io.Writer, speaker speech.Speaker) *Reporter {
	if speaker == nil {
		speaker = speech.Mute
	}
	return &Reporter{
		out:     func(s string) { fmt.Fprintln(w, s) },
		speaker: speaker,
	}
}

// SetOutput redirects console lines, e.g. to a program that owns the
// terminal.
func (r *Reporter) SetOutput(out func(string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = out
}

// SetPlain disables styling. Tests and non-terminal output use it.
func (r *Reporter) SetPlain(plain bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plain = plain
}

// Say prints and speaks a confirmation.
func (r *Reporter) Say(format string, args ...any) {
	text := sprintf(format, args...)
	r.println(sayStyle, text)
	r.speaker.Speak(text)
}

// Fail prints and speaks a failure.
func (r *Reporter) Fail(format string, args ...any) {
	text := sprintf(format, args...)
	r.println(failStyle, text)
	r.speaker.Speak(text)
}

// Print writes to the console only.
func (r *Reporter) Print(format string, args ...any) {
	r.println(printStyle, sprintf(format, args...))
}

// Speak voices text without printing it.
func (r *Reporter) Speak(text string) {
	r.speaker.Speak(text)
}

func (r *Reporter) println(style interface{ Render(...string) string }, text string) {
	r.mu.Lock()
	out, plain := r.out, r.plain
	r.mu.Unlock()
	if !plain {
		text = style.Render(text)
	}
	out(text)
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return strings.TrimSpace(format)
	}
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
