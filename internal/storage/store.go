// Package storage persists finished benchmark reports so runs can be
// compared across time, not just within one invocation.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
)

var ErrNotFound = errors.New("report not found")

// ReportStore is the persistence boundary for benchmark reports.
type ReportStore interface {
	Save(ctx context.Context, r *report.Report) error
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, runID uuid.UUID) (*report.Report, error)
}

// Summary is the listing view of one stored run.
type Summary struct {
	RunID       uuid.UUID `json:"run_id"`
	Input       string    `json:"input_path"`
	GeneratedAt time.Time `json:"generated_at"`
	Backends    int       `json:"backends"`
	Succeeded   int       `json:"succeeded"`
}
