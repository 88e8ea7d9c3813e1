package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackends(t *testing.T) {
	t.Run("single backend", func(t *testing.T) {
		bs, err := parseBackends("mace=/envs/mace/bin/mlip-worker")
		require.NoError(t, err)
		require.Len(t, bs, 1)
		assert.Equal(t, "mace", bs[0].Name)
		assert.Equal(t, "/envs/mace/bin/mlip-worker", bs[0].Exec)
		assert.Empty(t, bs[0].Model)
	})

	t.Run("backend with model", func(t *testing.T) {
		bs, err := parseBackends("uma=/envs/uma/bin/mlip-worker:omat")
		require.NoError(t, err)
		require.Len(t, bs, 1)
		assert.Equal(t, "/envs/uma/bin/mlip-worker", bs[0].Exec)
		assert.Equal(t, "omat", bs[0].Model)
	})

	t.Run("multiple backends keep order", func(t *testing.T) {
		bs, err := parseBackends("mace=/a, sevenn=/b:7net-mf-ompa ,uma=/c")
		require.NoError(t, err)
		require.Len(t, bs, 3)
		assert.Equal(t, "mace", bs[0].Name)
		assert.Equal(t, "sevenn", bs[1].Name)
		assert.Equal(t, "7net-mf-ompa", bs[1].Model)
		assert.Equal(t, "uma", bs[2].Name)
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		_, err := parseBackends("mace=/a,mace=/b")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate backend name")
	})

	t.Run("malformed entry", func(t *testing.T) {
		_, err := parseBackends("justaname")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "want name=exec")
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := parseBackends(" , ")
		assert.Error(t, err)
	})
}

func TestLoadPlanQuickMode(t *testing.T) {
	cfg := cliConfig{Structure: "POSCAR", Backends: "mace=/bin/worker", Parallel: 2}

	p, err := cfg.loadPlan()
	require.NoError(t, err)
	assert.Equal(t, "POSCAR", p.Structure)
	assert.Equal(t, 2, p.Parallel)
	require.Len(t, p.Backends, 1)
}

func TestLoadPlanRequiresInput(t *testing.T) {
	_, err := cliConfig{}.loadPlan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quick mode requires")
}
