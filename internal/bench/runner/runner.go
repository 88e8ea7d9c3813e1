// Package runner drives one benchmark run: every requested backend is
// launched out of process against the same structure file, each outcome
// is folded into a Result, and the aggregate preserves request order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manuelarcer/mlip-platform/internal/bench/protocol"
	"github.com/manuelarcer/mlip-platform/internal/bench/spec"
	"github.com/manuelarcer/mlip-platform/internal/bench/worker"
)

// ErrNoBackends is returned when a run is requested with an empty
// backend list. Run-level policy: this is a caller error, not an empty
// report.
var ErrNoBackends = errors.New("no backends requested")

type Config struct {
	// Timeout bounds each backend's invocation independently; one slow
	// backend never shortens another's budget.
	Timeout time.Duration
	// Parallel is the number of backends in flight at once. Workers
	// share nothing mutable, so anything >= 1 is safe; 1 reproduces
	// strictly sequential runs.
	Parallel int
}

type launchFunc func(ctx context.Context, b spec.Backend, inputPath string) *worker.Invocation

type Runner struct {
	cfg    Config
	launch launchFunc
}

func New(cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = spec.DefaultTimeout
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = spec.DefaultParallel
	}
	l := worker.Launcher{Timeout: cfg.Timeout}
	return &Runner{cfg: cfg, launch: l.Launch}
}

func FromPlan(p *spec.Plan) *Runner {
	return New(Config{Timeout: p.Timeout.Std(), Parallel: p.Parallel})
}

// Run benchmarks every backend against structurePath and returns one
// result per backend, in request order regardless of completion order.
// Individual backend failures never fail the run; Run errors only when
// the backend list is empty, the structure file is unreadable, or ctx
// is cancelled. On cancellation all child processes are killed before
// Run returns.
func (r *Runner) Run(ctx context.Context, backends []spec.Backend, structurePath string) (*BenchmarkResult, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	if _, err := os.Stat(structurePath); err != nil {
		return nil, fmt.Errorf("structure file: %w", err)
	}

	results := make([]Result, len(backends))

	sem := make(chan struct{}, r.cfg.Parallel)
	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(i int, b spec.Backend) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.runBackend(ctx, b, structurePath)
		}(i, b)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("benchmark aborted: %w", err)
	}

	return &BenchmarkResult{
		RunID:       uuid.New(),
		InputPath:   structurePath,
		GeneratedAt: time.Now(),
		Results:     results,
	}, nil
}

// runBackend is the per-backend composition of launcher and extractor.
// It always returns a Result; a panic anywhere inside one backend's
// invocation is contained here so it cannot abort the other backends.
func (r *Runner) runBackend(ctx context.Context, b spec.Backend, structurePath string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("backend runner panic", "backend", b.Name, "panic", p)
			res = Result{
				Name:   b.Name,
				Status: StatusLaunchFailed,
				Detail: fmt.Sprintf("internal panic: %v", p),
			}
		}
	}()

	slog.Info("running backend", "backend", b.Name, "exec", b.Exec, "structure", structurePath)
	inv := r.launch(ctx, b, structurePath)

	switch inv.State {
	case worker.StartFailed:
		slog.Warn("backend failed to launch", "backend", b.Name, "error", inv.StartErr)
		return Result{
			Name:   b.Name,
			Status: StatusLaunchFailed,
			Detail: inv.StartErr.Error(),
		}
	case worker.TimedOut:
		slog.Warn("backend timed out", "backend", b.Name, "timeout", r.cfg.Timeout)
		detail := fmt.Sprintf("no result within %s", r.cfg.Timeout)
		if out := protocol.TruncateDetail(inv.Stdout); out != "" {
			detail += "; partial output: " + out
		}
		return Result{
			Name:   b.Name,
			Status: StatusTimeout,
			Detail: detail,
		}
	}

	rec, err := protocol.Extract(inv.Stdout)
	if err != nil {
		slog.Warn("backend produced no protocol record", "backend", b.Name, "exit_code", inv.ExitCode)
		return Result{
			Name:    b.Name,
			Status:  StatusMalformedOutput,
			Elapsed: inv.Elapsed(),
			Detail:  malformedDetail(inv),
		}
	}

	if rec.Failed() {
		slog.Warn("backend reported computation error", "backend", b.Name, "error", *rec.Error)
		return Result{
			Name:    b.Name,
			Status:  StatusComputationFailed,
			Elapsed: inv.Elapsed(),
			Detail:  *rec.Error,
		}
	}

	if !rec.NumbersValid() {
		slog.Warn("backend record has unusable numerics", "backend", b.Name)
		return Result{
			Name:    b.Name,
			Status:  StatusMalformedOutput,
			Elapsed: inv.Elapsed(),
			Detail:  "protocol record lacks finite energy/time: " + protocol.TruncateDetail(inv.Stdout),
		}
	}

	return Result{
		Name:          b.Name,
		Status:        StatusSuccess,
		Energy:        rec.Energy,
		Elapsed:       inv.Elapsed(),
		WorkerSeconds: rec.Time,
	}
}

func malformedDetail(inv *worker.Invocation) string {
	detail := protocol.TruncateDetail(inv.Stdout)
	if detail == "" {
		detail = protocol.TruncateDetail(inv.StderrTail())
	}
	return fmt.Sprintf("exit status %d, no protocol record; output: %s", inv.ExitCode, detail)
}
