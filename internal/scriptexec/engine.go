// Package scriptexec runs a skill's bundled scripts as subprocesses under a
// wall-clock timeout and captures their exit code and output.
package scriptexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bartekus/skilltest/internal/logger"
)

// DefaultTimeout bounds a single script run when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// waitDelay is how long Wait keeps reading pipes after the process group was
// killed, so orphaned grandchildren holding stdout cannot block the caller.
const waitDelay = 2 * time.Second

// Failure classifies a run that did not produce an exit code.
type Failure string

const (
	FailureNone     Failure = ""
	FailureNotFound Failure = "not_found"
	FailureTimeout  Failure = "timeout"
	FailureSpawn    Failure = "spawn"
)

// Outcome is what one script run produced.
type Outcome struct {
	Path     string
	Args     []string
	ExitCode int
	// Stdout is trimmed of leading and trailing whitespace.
	Stdout   string
	Stderr   string
	Duration time.Duration
	Failure  Failure
	Err      error
}

// OK reports whether the script ran to completion, whatever its exit code.
func (o Outcome) OK() bool { return o.Failure == FailureNone }

// Message is the user-facing description of a failed run.
func (o Outcome) Message() string {
	switch o.Failure {
	case FailureNotFound:
		return fmt.Sprintf("Script not found: %s", o.Path)
	case FailureTimeout:
		return "Script execution timed out"
	case FailureSpawn:
		return fmt.Sprintf("Script execution failed: %v", o.Err)
	default:
		return ""
	}
}

// Engine resolves script identifiers against a skill root and runs them.
type Engine struct {
	root    string
	timeout time.Duration
}

// New returns an Engine. An empty root means script identifiers are used as
// literal paths. A non-positive timeout selects DefaultTimeout.
func New(root string, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{root: root, timeout: timeout}
}

// Timeout returns the default per-run bound.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Resolve maps a script identifier to a filesystem path.
func (e *Engine) Resolve(script string) string {
	if e.root == "" {
		return script
	}
	return filepath.Join(e.root, "scripts", script)
}

// Run executes script with args and waits for it up to timeout (or the
// engine default when timeout is zero). No process outlives the call.
func (e *Engine) Run(ctx context.Context, script string, args []string, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = e.timeout
	}

	path := e.Resolve(script)
	out := Outcome{Path: path, Args: args}

	if _, err := os.Stat(path); err != nil {
		out.Failure = FailureNotFound
		out.Err = err
		return out
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, path, args...)
	setSysProcAttr(cmd)
	setCancelFunc(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logger.G(ctx).WithField("script", path)
	log.WithField("args", args).Debug("running script")

	start := time.Now()
	err := cmd.Run()
	out.Duration = time.Since(start)
	out.Stdout = strings.TrimSpace(stdout.String())
	out.Stderr = stderr.String()

	switch {
	case errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		out.Failure = FailureTimeout
		out.ExitCode = -1
		out.Err = errors.Errorf("timed out after %v", timeout)
	case err == nil:
		out.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.Failure = FailureSpawn
			out.ExitCode = -1
			out.Err = err
		}
	}

	log.WithFields(logrus.Fields{
		"exit_code": out.ExitCode,
		"duration":  out.Duration,
		"failure":   string(out.Failure),
	}).Debug("script finished")

	return out
}
