// Package dictation obtains a spoken city name from an external speech to
// text program. The program prints the recognized text on stdout.
package dictation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"weatherdash/manager"
)

const DefaultTimeout = 5 * time.Second

type Command struct {
	argv      []string
	timeout   time.Duration
	available bool
}

// New resolves once whether argv[0] can be run. An empty argv gives a
// Command that is never available.
func New(argv []string, timeout time.Duration, log *zap.Logger) *Command {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Command{argv: argv, timeout: timeout}
	if len(argv) == 0 {
		log.Info("dictation disabled: no command configured")
		return c
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		log.Warn("dictation disabled", zap.String("command", argv[0]), zap.Error(err))
		return c
	}

	c.available = true
	return c
}

func (c *Command) Available() bool {
	return c.available
}

// Listen runs the command and returns its trimmed output.
func (c *Command) Listen(ctx context.Context) (string, error) {
	if !c.available {
		return "", manager.ErrDictationUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no speech within %s", manager.ErrDictationFailed, c.timeout)
		}
		return "", fmt.Errorf("%w: %v: %s", manager.ErrDictationFailed, err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", fmt.Errorf("%w: nothing recognized", manager.ErrDictationFailed)
	}

	return text, nil
}
