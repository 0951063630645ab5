// Package bash runs shell snippets inside an mvdan.cc/sh interpreter so that
// external utilities and completion functions execute the same way a user's
// shell would run them.
package bash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ExecMiddleware wraps an ExecHandlerFunc to intercept commands.
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// NewRunner creates a reset, non-interactive runner over env. Output of
// commands run directly in the runner goes to stdout and stderr.
func NewRunner(env expand.Environ, stdout, stderr io.Writer, middlewares ...ExecMiddleware) (*interp.Runner, error) {
	if env == nil {
		env = expand.ListEnviron(os.Environ()...)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := []interp.RunnerOption{
		interp.Env(env),
		interp.StdIO(nil, stdout, stderr),
	}
	if len(middlewares) > 0 {
		opts = append(opts, interp.ExecHandlers(middlewares...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell runner: %w", err)
	}
	runner.Reset()

	return runner, nil
}

// RunBashScriptFromReader parses and runs a bash script from an io.Reader.
// The script is executed in the provided runner (not a subshell).
func RunBashScriptFromReader(ctx context.Context, runner *interp.Runner, reader io.Reader, name string) error {
	prog, err := syntax.NewParser().Parse(reader, name)
	if err != nil {
		return err
	}
	return runner.Run(ctx, prog)
}

// RunInSubShell runs a single command in a subshell and captures stdout/stderr.
// A non-zero exit code is NOT treated as an error - check the exit code separately.
func RunInSubShell(ctx context.Context, runner *interp.Runner, command string) (string, string, int, error) {
	subShell := runner.Subshell()

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, outBuf, errBuf)(subShell) //nolint:errcheck

	var prog *syntax.Stmt
	err := syntax.NewParser().Stmts(strings.NewReader(command), func(stmt *syntax.Stmt) bool {
		prog = stmt
		return false
	})
	if err != nil {
		return "", "", 1, fmt.Errorf("failed to parse bash command: %w", err)
	}

	if prog == nil {
		return "", "", 0, nil
	}

	err = subShell.Run(ctx, prog)

	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return outBuf.String(), errBuf.String(), int(exitStatus), nil
		}
		return outBuf.String(), errBuf.String(), 1, err
	}

	return outBuf.String(), errBuf.String(), 0, nil
}

// threadSafeBuffer is an io.Writer the interpreter may write to from
// multiple goroutines (pipelines, command substitutions).
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}
