package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/entrhq/voicenav/pkg/logging"
)

// CommandSpeaker voices text through an external program such as espeak or
// say. The text is passed as the final argument.
type CommandSpeaker struct {
	argv    []string
	timeout time.Duration
	logger  *logging.Logger
}

// NewCommandSpeaker creates a speaker running argv. A zero timeout means
// one minute.
func NewCommandSpeaker(argv []string, timeout time.Duration, logger *logging.Logger) (*CommandSpeaker, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("speak command is empty")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("speak command %q not found: %w", argv[0], err)
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CommandSpeaker{argv: append([]string(nil), argv...), timeout: timeout, logger: logger}, nil
}

// Speak runs the command and waits for it to finish.
func (s *CommandSpeaker) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	args := append(append([]string(nil), s.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		s.logger.Warnf("speak command failed: %v: %s", err, strings.TrimSpace(string(output)))
	}
}
