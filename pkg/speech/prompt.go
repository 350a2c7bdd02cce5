package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompter asks for credentials on the terminal. The password is
// read without echo when input is a terminal.
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPrompter prompts on out and reads from in.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// Credentials reads a username line and a password.
func (p *TerminalPrompter) Credentials(ctx context.Context) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	reader := bufio.NewReader(p.in)

	fmt.Fprint(p.out, "Enter username: ")
	username, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && username != "") {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}

	fmt.Fprint(p.out, "Enter password: ")
	password, err := p.readPassword(reader)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(username), strings.TrimRight(password, "\r\n"), nil
}

func (p *TerminalPrompter) readPassword(reader *bufio.Reader) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) && reader.Buffered() == 0 {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}
