// Package execx wraps external process execution behind a small typed
// interface so collaborator packages never build shell command strings and
// tests can substitute a scripted fake.
package execx

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Command describes a single external process invocation.
type Command struct {
	Name  string    // binary name or path
	Args  []string  // arguments, already split
	Dir   string    // working directory, empty for inherited
	Stdin io.Reader // optional stdin
}

// Runner executes external commands and returns their stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec, capturing stderr into the
// returned error so operators see the tool's own diagnostics.
type ExecRunner struct{}

// New creates a new ExecRunner.
func New() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("name", cmd.Name).Strs("args", cmd.Args).Msg("running command")

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return stdout.Bytes(), errors.Errorf("running %s: %s: %w", cmd.Name, msg, err)
		}
		return stdout.Bytes(), errors.Errorf("running %s: %w", cmd.Name, err)
	}

	return stdout.Bytes(), nil
}
