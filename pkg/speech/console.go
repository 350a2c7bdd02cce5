package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleListener reads typed commands, one per line. It stands in for a
// microphone during development and in text mode.
type ConsoleListener struct {
	lines  chan lineResult
	once   sync.Once
	reader *bufio.Reader
	prompt func(string)
}

type lineResult struct {
	text string
	raw  string
	err  error
}

// NewConsoleListener reads lines from r. prompt, if set, is called with the
// prompt text before each read.
func NewConsoleListener(r io.Reader, prompt func(string)) *ConsoleListener {
	return &ConsoleListener{
		lines:  make(chan lineResult),
		reader: bufio.NewReader(r),
		prompt: prompt,
	}
}

// Listen returns the next non-empty line. A blank line is unintelligible;
// end of input is returned as io.EOF.
func (l *ConsoleListener) Listen(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.readLoop() })
	if l.prompt != nil {
		l.prompt("Type your command:")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		if res.text == "" {
			return "", ErrUnintelligible
		}
		return res.text, nil
	}
}

// ReadLine returns the next line of input with only its line ending removed.
// It draws from the same lines as Listen, so reads never race each other for
// the underlying reader.
func (l *ConsoleListener) ReadLine(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.readLoop() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.raw, res.err
	}
}

// Prompter returns a credential prompter that reads from the listener's
// input. Use it instead of a TerminalPrompter on the same reader. The
// password is echoed as typed.
func (l *ConsoleListener) Prompter(out io.Writer) CredentialPrompter {
	return &consolePrompter{lines: l, out: out}
}

type consolePrompter struct {
	lines *ConsoleListener
	out   io.Writer
}

func (p *consolePrompter) Credentials(ctx context.Context) (string, string, error) {
	fmt.Fprint(p.out, "Enter username: ")
	username, err := p.lines.ReadLine(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}
	fmt.Fprint(p.out, "Enter password: ")
	password, err := p.lines.ReadLine(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(username), password, nil
}

// readLoop owns the reader so a cancelled Listen never loses a line.
func (l *ConsoleListener) readLoop() {
	defer close(l.lines)
	for {
		line, err := l.reader.ReadString('\n')
		text := strings.TrimSpace(line)
		raw := strings.TrimRight(line, "\r\n")
		if err != nil {
			if text != "" {
				l.lines <- lineResult{text: text, raw: raw}
			}
			if err != io.EOF {
				l.lines <- lineResult{err: fmt.Errorf("failed to read command: %w", err)}
			}
			return
		}
		l.lines <- lineResult{text: text, raw: raw}
	}
}

// ConsoleSpeaker writes what would be spoken.
type ConsoleSpeaker struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSpeaker writes spoken text to w.
func NewConsoleSpeaker(w io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{out: w}
}

// Speak prints text prefixed with a speaker marker.
func (s *ConsoleSpeaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "🔊 %s\n", text)
}
