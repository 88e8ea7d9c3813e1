package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelarcer/mlip-platform/internal/bench/report"
	"github.com/manuelarcer/mlip-platform/internal/bench/runner"
)

func storedReport(input string, ts time.Time) *report.Report {
	energy := -2.0
	return &report.Report{
		Meta:  report.Meta{RunID: uuid.New(), Timestamp: ts},
		Input: input,
		Results: []runner.Result{
			{Name: "mace", Status: runner.StatusSuccess, Energy: &energy},
			{Name: "sevenn", Status: runner.StatusLaunchFailed, Detail: "missing exec"},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := storedReport("a.vasp", time.Now().Add(-time.Hour))
	second := storedReport("b.vasp", time.Now())
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	t.Run("list newest first", func(t *testing.T) {
		summaries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, second.Meta.RunID, summaries[0].RunID)
		assert.Equal(t, 2, summaries[0].Backends)
		assert.Equal(t, 1, summaries[0].Succeeded)
	})

	t.Run("get by run id", func(t *testing.T) {
		got, err := s.Get(ctx, first.Meta.RunID)
		require.NoError(t, err)
		assert.Equal(t, "a.vasp", got.Input)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
