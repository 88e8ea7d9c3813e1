package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
	"github.com/manuelarcer/mlip-platform/internal/storage"
)

// ReportStore keeps benchmark reports in Postgres. Per-backend results
// and environment metadata go into JSONB so the schema does not chase
// the report shape.
type ReportStore struct {
	pool *ConnectionPool
}

func NewReportStore(pool *ConnectionPool) *ReportStore {
	return &ReportStore{pool: pool}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS benchmark_report (
	run_id       UUID PRIMARY KEY,
	input_path   TEXT NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL,
	backends     INT NOT NULL,
	succeeded    INT NOT NULL,
	environment  JSONB NOT NULL DEFAULT '{}'::jsonb,
	results      JSONB NOT NULL
)`

// Migrate creates the report table if it does not exist yet.
func (s *ReportStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.GetConn().Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create benchmark_report table: %w", err)
	}
	return nil
}

func (s *ReportStore) Save(ctx context.Context, r *report.Report) error {
	results, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	env, err := json.Marshal(r.Meta.Environment)
	if err != nil {
		return fmt.Errorf("marshal environment: %w", err)
	}

	const q = `
		INSERT INTO benchmark_report
			(run_id, input_path, generated_at, backends, succeeded, environment, results)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.pool.GetConn().Exec(ctx, q,
		r.Meta.RunID,
		r.Input,
		r.Meta.Timestamp,
		len(r.Results),
		r.SuccessCount(),
		env,
		results,
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", r.Meta.RunID, err)
	}
	return nil
}

func (s *ReportStore) List(ctx context.Context) ([]storage.Summary, error) {
	const q = `
		SELECT run_id, input_path, generated_at, backends, succeeded
		FROM benchmark_report
		ORDER BY generated_at DESC`

	rows, err := s.pool.GetConn().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var summaries []storage.Summary
	for rows.Next() {
		var sm storage.Summary
		if err := rows.Scan(&sm.RunID, &sm.Input, &sm.GeneratedAt, &sm.Backends, &sm.Succeeded); err != nil {
			return nil, fmt.Errorf("scan report summary: %w", err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

func (s *ReportStore) Get(ctx context.Context, runID uuid.UUID) (*report.Report, error) {
	const q = `
		SELECT run_id, input_path, generated_at, environment, results
		FROM benchmark_report
		WHERE run_id = $1`

	var (
		r          report.Report
		envRaw     []byte
		resultsRaw []byte
	)
	err := s.pool.GetConn().QueryRow(ctx, q, runID).Scan(
		&r.Meta.RunID, &r.Input, &r.Meta.Timestamp, &envRaw, &resultsRaw,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", runID, err)
	}

	if err := json.Unmarshal(envRaw, &r.Meta.Environment); err != nil {
		return nil, fmt.Errorf("decode environment for %s: %w", runID, err)
	}
	if err := json.Unmarshal(resultsRaw, &r.Results); err != nil {
		return nil, fmt.Errorf("decode results for %s: %w", runID, err)
	}
	return &r, nil
}

var _ storage.ReportStore = (*ReportStore)(nil)
