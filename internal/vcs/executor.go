package vcs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// Executor runs a built command in a working directory and returns stdout.
// Implementations must be safe for concurrent use.
type Executor interface {
	// Output returns stdout as a single string.
	Output(ctx context.Context, dir string, cmd *Command) (string, error)
	// Lines returns stdout split into lines. The empty element produced by a
	// trailing newline is dropped; blank lines inside the output are kept.
	Lines(ctx context.Context, dir string, cmd *Command) ([]string, error)
	// Stream copies stdout into w as it is produced.
	Stream(ctx context.Context, dir string, cmd *Command, w io.Writer) error
}

// CommandExecutor runs commands as child processes, one process per call.
// Create it with NewCommandExecutor.
type CommandExecutor struct {
	// Program is the path or name of the tool executable.
	Program string
	// Env is appended to the current environment.
	Env []string
	// Timeout bounds every invocation when positive.
	Timeout time.Duration

	log logze.Logger
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor returns an executor for program.
func NewCommandExecutor(program string, timeout time.Duration, env ...string) *CommandExecutor {
	return &CommandExecutor{
		Program: program,
		Env:     env,
		Timeout: timeout,
		log:     logze.With("component", "executor"),
	}
}

func (e *CommandExecutor) Output(ctx context.Context, dir string, cmd *Command) (string, error) {
	var out bytes.Buffer
	if err := e.run(ctx, dir, cmd, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (e *CommandExecutor) Lines(ctx context.Context, dir string, cmd *Command) ([]string, error) {
	out, err := e.Output(ctx, dir, cmd)
	if err != nil {
		return nil, err
	}
	return SplitLines(out), nil
}

func (e *CommandExecutor) Stream(ctx context.Context, dir string, cmd *Command, w io.Writer) error {
	return e.run(ctx, dir, cmd, w)
}

func (e *CommandExecutor) run(ctx context.Context, dir string, cmd *Command, stdout io.Writer) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	program := lang.Check(e.Program, "hg")
	argv := cmd.Argv()
	log := e.log.WithFields("query_id", uuid.New().String()[:8], "verb", cmd.Verb())
	log.Debug("running command", "program", program, "args", argv, "dir", dir)
	timer := abstract.StartTimer()

	var stderr bytes.Buffer
	c := exec.CommandContext(ctx, program, argv...)
	c.Dir = dir
	c.Env = append(os.Environ(), e.Env...)
	c.Stdout = stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		log.Debug("command failed", "error", err, "stderr", msg, "elapsed_time", timer.ElapsedTime().String())

		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			err = ctx.Err()
		case errors.As(err, &exitErr):
			err = &ExitError{Code: exitErr.ExitCode(), Stderr: msg}
		}
		return E(ToolError, program+" "+cmd.Verb(), errm.Wrap(err, "run command", "dir", dir))
	}

	log.Debug("command finished", "elapsed_time", timer.ElapsedTime().String())
	return nil
}

// SplitLines splits tool output into lines, stripping carriage returns and
// the empty element left by a trailing newline.
func SplitLines(out string) []string {
	lines := SplitRawLines(out)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// SplitRawLines is SplitLines keeping carriage returns, for output that
// carries file content such as diff bodies.
func SplitRawLines(out string) []string {
	if out == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}
