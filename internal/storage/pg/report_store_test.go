package pg

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
	"github.com/manuelarcer/mlip-platform/internal/bench/runner"
	"github.com/manuelarcer/mlip-platform/internal/storage"
	pkgtesting "github.com/manuelarcer/mlip-platform/pkg/testing"
)

var (
	pgSetup   sync.Once
	pgSkipMsg string
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *ReportStore
)

// setupReportStore starts one shared Postgres container for the package
// and migrates the report schema into it. Tests skip when no container
// runtime is available; the reaper removes the container on exit.
func setupReportStore(t *testing.T) *ReportStore {
	t.Helper()

	pgSetup.Do(func() {
		testCtx = context.Background()

		pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
			Database: "mlip_test_db",
			Username: "test",
			Password: "test",
		})
		if err != nil {
			pgSkipMsg = fmt.Sprintf("postgres container unavailable: %v", err)
			return
		}

		testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
		if err != nil {
			pgSkipMsg = fmt.Sprintf("failed to connect to test postgres: %v", err)
			return
		}

		testStore = NewReportStore(testPool)
		if err := testStore.Migrate(testCtx); err != nil {
			pgSkipMsg = fmt.Sprintf("failed to migrate report schema: %v", err)
		}
	})

	if pgSkipMsg != "" {
		t.Skip(pgSkipMsg)
	}

	truncateReports(t)
	return testStore
}

func truncateReports(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE benchmark_report")
	if err != nil {
		t.Fatalf("failed to truncate table: %v", err)
	}
}

func fptr(f float64) *float64 { return &f }

func sampleReport(generatedAt time.Time) *report.Report {
	return &report.Report{
		Meta: report.Meta{
			RunID:       uuid.New(),
			Timestamp:   generatedAt,
			Environment: report.NewEnvironmentInfo(),
		},
		Input: "structures/POSCAR",
		Results: []runner.Result{
			{
				Name:          "mace",
				Status:        runner.StatusSuccess,
				Energy:        fptr(-12.875),
				Elapsed:       1500 * time.Millisecond,
				WorkerSeconds: fptr(1.03),
			},
			{
				Name:   "sevenn",
				Status: runner.StatusComputationFailed,
				Detail: "model not found",
			},
		},
	}
}

func TestReportStoreMigrateIdempotent(t *testing.T) {
	store := setupReportStore(t)

	require.NoError(t, store.Migrate(testCtx))
	require.NoError(t, store.Migrate(testCtx))
}

func TestReportStoreSaveAndGet(t *testing.T) {
	store := setupReportStore(t)

	saved := sampleReport(time.Now().UTC())
	require.NoError(t, store.Save(testCtx, saved))

	got, err := store.Get(testCtx, saved.Meta.RunID)
	require.NoError(t, err)

	assert.Equal(t, saved.Meta.RunID, got.Meta.RunID)
	assert.Equal(t, saved.Input, got.Input)
	assert.WithinDuration(t, saved.Meta.Timestamp, got.Meta.Timestamp, time.Second)
	assert.Equal(t, saved.Meta.Environment, got.Meta.Environment)

	require.Len(t, got.Results, 2)
	assert.Equal(t, "mace", got.Results[0].Name)
	assert.Equal(t, runner.StatusSuccess, got.Results[0].Status)
	require.NotNil(t, got.Results[0].Energy)
	assert.Equal(t, -12.875, *got.Results[0].Energy)
	assert.Equal(t, 1500*time.Millisecond, got.Results[0].Elapsed)
	require.NotNil(t, got.Results[0].WorkerSeconds)
	assert.Equal(t, 1.03, *got.Results[0].WorkerSeconds)

	assert.Equal(t, runner.StatusComputationFailed, got.Results[1].Status)
	assert.Equal(t, "model not found", got.Results[1].Detail)
	assert.Nil(t, got.Results[1].Energy)
}

func TestReportStoreGetNotFound(t *testing.T) {
	store := setupReportStore(t)

	_, err := store.Get(testCtx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportStoreList(t *testing.T) {
	store := setupReportStore(t)

	older := sampleReport(time.Now().UTC().Add(-time.Hour))
	newer := sampleReport(time.Now().UTC())
	require.NoError(t, store.Save(testCtx, older))
	require.NoError(t, store.Save(testCtx, newer))

	summaries, err := store.List(testCtx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, newer.Meta.RunID, summaries[0].RunID)
	assert.Equal(t, older.Meta.RunID, summaries[1].RunID)
	assert.Equal(t, "structures/POSCAR", summaries[0].Input)
	assert.Equal(t, 2, summaries[0].Backends)
	assert.Equal(t, 1, summaries[0].Succeeded)
}

func TestReportStoreListEmpty(t *testing.T) {
	store := setupReportStore(t)

	summaries, err := store.List(testCtx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestReportStoreSaveDuplicateRunID(t *testing.T) {
	store := setupReportStore(t)

	r := sampleReport(time.Now().UTC())
	require.NoError(t, store.Save(testCtx, r))
	assert.Error(t, store.Save(testCtx, r))
}
