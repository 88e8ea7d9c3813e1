package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
	"github.com/manuelarcer/mlip-platform/internal/bench/runner"
	"github.com/manuelarcer/mlip-platform/internal/storage/pg"
)

func main() {
	cfg := parseFlags()

	plan, err := cfg.loadPlan()
	if err != nil {
		slog.Error("Invalid benchmark plan", "error", err)
		os.Exit(1)
	}

	// Interrupt kills all still-running workers before we exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("Starting benchmark",
		"structure", plan.Structure,
		"backends", len(plan.Backends),
		"timeout", plan.Timeout.Std(),
		"parallel", plan.Parallel,
	)

	br, err := runner.FromPlan(plan).Run(ctx, plan.Backends, plan.Structure)
	if err != nil {
		slog.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}

	rep := report.Build(br)
	report.WriteTable(rep, os.Stdout)

	if cfg.Output != "" {
		if err := report.WriteJSON(rep, cfg.Output); err != nil {
			slog.Error("Failed to write JSON report", "path", cfg.Output, "error", err)
			os.Exit(1)
		}
		slog.Info("Wrote JSON report", "path", cfg.Output)
	}

	if cfg.CSV != "" {
		if err := report.WriteCSV(rep, cfg.CSV); err != nil {
			slog.Error("Failed to write CSV report", "path", cfg.CSV, "error", err)
			os.Exit(1)
		}
		slog.Info("Wrote CSV report", "path", cfg.CSV)
	}

	if cfg.StoreConn != "" {
		if err := persistReport(ctx, cfg.StoreConn, rep); err != nil {
			slog.Error("Failed to store report", "error", err)
			os.Exit(1)
		}
		slog.Info("Stored report", "run_id", rep.Meta.RunID)
	}
}

func persistReport(ctx context.Context, connStr string, rep *report.Report) error {
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: connStr})
	if err != nil {
		return err
	}
	defer pool.Close()

	store := pg.NewReportStore(pool)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return store.Save(ctx, rep)
}
