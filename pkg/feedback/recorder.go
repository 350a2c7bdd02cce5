package feedback

import (
	"io"
	"strings"
	"sync"
)

// Recorder captures what a Reporter printed and spoke. It is used by tests
// of the packages that report through feedback.
type Recorder struct {
	mu      sync.Mutex
	printed []string
	spoken  []string
}

// NewRecorder returns a plain Reporter wired to a fresh Recorder.
func NewRecorder() (*Reporter, *Recorder) {
	rec := &Recorder{}
	r := New(io.Discard, rec)
	r.SetPlain(true)
	r.SetOutput(rec.print)
	return r, rec
}

// Speak records spoken text.
func (r *Recorder) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *Recorder) print(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printed = append(r.printed, text)
}

// Spoken returns everything spoken so far.
func (r *Recorder) Spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.spoken...)
}

// Printed returns every console line so far.
func (r *Recorder) Printed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.printed...)
}

// LastSpoken returns the most recent spoken text, or "".
func (r *Recorder) LastSpoken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.spoken) == 0 {
		return ""
	}
	return r.spoken[len(r.spoken)-1]
}

// Heard reports whether any spoken text contains substr.
func (r *Recorder) Heard(substr string) bool {
	for _, s := range r.Spoken() {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printed = nil
	r.spoken = nil
}
