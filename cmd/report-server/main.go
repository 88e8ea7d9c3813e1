package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/manuelarcer/mlip-platform/internal/router"
	"github.com/manuelarcer/mlip-platform/internal/server"
	"github.com/manuelarcer/mlip-platform/internal/storage/pg"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pg.NewReportStore(pool)
	if err := store.Migrate(ctx); err != nil {
		slog.Error("Failed to migrate report store", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	srv := server.NewServer(e, cfg)

	router.NewReportRouter(e, store).Bind()

	slog.Info("Starting report server", "port", cfg.Port)
	if err := srv.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
