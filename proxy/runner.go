// Package proxy drives the external susops CLI and reconciles its state.
// This file contains the Runner, the single component that spawns
// subprocesses.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TimedOutMessage is the output reported when a command exceeds its budget.
const TimedOutMessage = "Command timed out"

// Result is the outcome of one CLI invocation. It is produced exactly once
// per invocation and handed to a single callback; it is never shared.
type Result struct {
	Output   string
	ExitCode int
}

// Runner executes susops CLI commands. The executable is resolved once at
// construction; every invocation is bounded by its own timeout.
type Runner struct {
	executable string
}

// cliSearchPaths lists the known install locations of the susops entry
// script, checked in order before falling back to PATH lookup.
func cliSearchPaths() []string {
	paths := []string{
		"/usr/lib/susops/susops.sh",
		"/app/share/susops/susops.sh",
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".local", "share", "susops", "susops.sh"))
	}
	return paths
}

// NewRunner creates a Runner, resolving the susops executable from the
// known install locations or, failing that, the PATH. The executable may
// turn out missing; Run reports that as a Result, never as a panic.
func NewRunner() *Runner {
	for _, p := range cliSearchPaths() {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return &Runner{executable: resolved}
		}
	}
	return &Runner{executable: "susops"}
}

// NewRunnerWithExecutable creates a Runner for a specific executable.
// Used by tests and by callers that already resolved the CLI path.
func NewRunnerWithExecutable(executable string) *Runner {
	return &Runner{executable: executable}
}

// Executable returns the resolved susops command.
func (r *Runner) Executable() string {
	return r.executable
}

// Available reports whether the susops CLI can actually be invoked.
func (r *Runner) Available() bool {
	if strings.ContainsRune(r.executable, os.PathSeparator) {
		return fileIsExecutable(r.executable)
	}
	_, err := exec.LookPath(r.executable)
	return err == nil
}

func fileIsExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0111 != 0
}

// Run executes the susops CLI with the given arguments and waits up to
// timeout. Output prefers stdout and falls back to stderr so diagnostics
// are never silently dropped. Every failure mode is converted into a
// Result, including timeouts and launch errors.
func (r *Runner) Run(args []string, timeout time.Duration) Result {
	return Capture(r.executable, args, timeout)
}

// pipeGrace bounds how long a finished or killed command may keep its
// output pipes open. susops is a shell script whose backgrounded ssh
// children inherit stdout; without the grace, Wait would block on those
// grandchildren until they exit.
const pipeGrace = 500 * time.Millisecond

// Capture executes an arbitrary command with a timeout and captures its
// output under the same contract as Run. The config store reuses it for yq
// queries and the theme probe reuses it for gsettings.
func Capture(name string, args []string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = pipeGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// The deadline check must stay ahead of the exit-status handling: a
	// killed command reports exit code -1 and possibly partial output,
	// which must never masquerade as a real CLI result.
	if ctx.Err() == context.DeadlineExceeded {
		return Result{Output: TimedOutMessage, ExitCode: 1}
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		out = strings.TrimSpace(stderr.String())
	}

	if err != nil {
		// The command itself exited within the timeout but a descendant
		// still held the pipes past the grace. Its exit status stands.
		if errors.Is(err, exec.ErrWaitDelay) {
			return Result{Output: out, ExitCode: cmd.ProcessState.ExitCode()}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Output: out, ExitCode: exitErr.ExitCode()}
		}
		// Launch failure: executable missing, permission denied, ...
		return Result{Output: err.Error(), ExitCode: 1}
	}

	return Result{Output: out, ExitCode: 0}
}
