package devices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinylittleshell/diskcomplete/internal/bash"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DiskutilLister runs `diskutil list -plist` in a subshell of runner.
type DiskutilLister struct {
	runner  *interp.Runner
	path    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewDiskutilLister creates a lister invoking the utility at path.
// A zero timeout lets the utility run until it exits. When path is a wrapper
// script it should exec the real utility: a child left running keeps stdout
// open and the call only returns once that child exits, timeout or not.
func NewDiskutilLister(runner *interp.Runner, path string, timeout time.Duration, logger *zap.Logger) *DiskutilLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskutilLister{
		runner:  runner,
		path:    path,
		timeout: timeout,
		logger:  logger,
	}
}

func (l *DiskutilLister) ListDevices(ctx context.Context) (Listing, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	command, err := l.command()
	if err != nil {
		return Listing{}, err
	}

	l.logger.Debug("querying disks", zap.String("command", command))

	stdout, stderr, exitCode, err := bash.RunInSubShell(ctx, l.runner, command)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to run %s: %w", l.path, err)
	}
	if exitCode != 0 {
		return Listing{}, fmt.Errorf("%s exited with status %d: %s", l.path, exitCode, strings.TrimSpace(stderr))
	}

	return ParseListing([]byte(stdout))
}

func (l *DiskutilLister) command() (string, error) {
	quoted, err := syntax.Quote(l.path, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("cannot quote diskutil path %q: %w", l.path, err)
	}
	return quoted + " list -plist", nil
}
