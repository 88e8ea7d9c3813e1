// Package worker spawns one out-of-process MLIP computation per call.
// Each backend lives in an environment whose dependencies conflict with
// every other backend's, so the process boundary is the isolation
// primitive: the launcher only starts the worker, waits, and captures
// whatever text came back.
package worker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/manuelarcer/mlip-platform/internal/bench/spec"
)

// State classifies how an invocation ended from the launcher's point of
// view. Whether a completed worker actually produced a usable result is
// the extractor's business.
type State int

const (
	// Completed means the process ran to exit, with any exit code.
	Completed State = iota
	// TimedOut means the process was killed after exceeding its budget.
	TimedOut
	// StartFailed means the process image could not be created at all.
	StartFailed
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed-out"
	case StartFailed:
		return "start-failed"
	default:
		return "unknown"
	}
}

// Invocation is one finished (or failed-to-start) worker run. It is
// created and filled by Launch and read-only afterwards.
type Invocation struct {
	Backend    spec.Backend
	InputPath  string
	StartedAt  time.Time
	FinishedAt time.Time
	Stdout     string
	Stderr     string
	ExitCode   int
	State      State
	StartErr   error
}

// Elapsed is the orchestrator-measured wall clock for the whole
// invocation, process startup included.
func (inv *Invocation) Elapsed() time.Duration {
	return inv.FinishedAt.Sub(inv.StartedAt)
}

// StderrTail returns the end of the captured stderr, bounded, for
// diagnostics. The tail is kept rather than the head because tracebacks
// and loader errors land last.
func (inv *Invocation) StderrTail() string {
	const max = 2048
	s := inv.Stderr
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

// Launcher spawns workers. It holds no per-invocation state and may be
// shared across goroutines.
type Launcher struct {
	// Timeout bounds one invocation. Zero means spec.DefaultTimeout.
	Timeout time.Duration
	// WaitDelay is how long to wait for output pipes to drain after the
	// process is killed. Zero means a small default.
	WaitDelay time.Duration
}

// Launch runs `<exec> <structure-path> [<model>]` and blocks until the
// worker exits, the timeout fires, or ctx is cancelled. It never returns
// an error: a worker that cannot start, dies, or overruns its budget is
// a recorded outcome, not a failure of the call.
func (l Launcher) Launch(ctx context.Context, b spec.Backend, inputPath string) *Invocation {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = spec.DefaultTimeout
	}
	waitDelay := l.WaitDelay
	if waitDelay <= 0 {
		waitDelay = 3 * time.Second
	}

	args := []string{inputPath}
	if b.Model != "" {
		args = append(args, b.Model)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, b.Exec, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	inv := &Invocation{
		Backend:   b,
		InputPath: inputPath,
		StartedAt: time.Now(),
	}

	if err := cmd.Start(); err != nil {
		inv.FinishedAt = time.Now()
		inv.State = StartFailed
		inv.StartErr = err
		inv.ExitCode = -1
		return inv
	}

	waitErr := cmd.Wait()
	inv.FinishedAt = time.Now()
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		inv.State = TimedOut
		inv.ExitCode = -1
	case waitErr != nil:
		inv.State = Completed
		inv.ExitCode = exitCode(waitErr)
	default:
		inv.State = Completed
		inv.ExitCode = 0
	}
	return inv
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
