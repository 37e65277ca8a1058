package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/vec"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"aos", "soa"}, cfg.Layouts)
	assert.Len(t, cfg.Operations, 4)
	assert.Equal(t, []int{1000, 10000, 100000}, cfg.Counts)
	assert.Equal(t, float32(0.016), cfg.Dt)
	assert.Equal(t, vec.New(0, -9.81, 0), cfg.Gravity.Vec())
}

func TestBenchConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layouts = []string{"SoA"}
	cfg.Operations = []string{"energy", "frame"}

	bc, err := cfg.BenchConfig()
	require.NoError(t, err)

	assert.Equal(t, []layout.Kind{layout.SoA}, bc.Layouts)
	assert.Equal(t, []bench.Operation{bench.KineticEnergy, bench.FullUpdate}, bc.Operations)
	assert.Equal(t, cfg.Iterations, bc.Iterations)
	assert.Equal(t, bench.DefaultParams(), bc.Params)
}

func TestBenchConfigErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layouts = []string{"columnar"}
	_, err := cfg.BenchConfig()
	assert.ErrorIs(t, err, layout.ErrUnknownLayout)

	cfg = DefaultConfig()
	cfg.Operations = []string{"collide"}
	_, err = cfg.BenchConfig()
	assert.ErrorIs(t, err, bench.ErrUnknownOperation)

	cfg = DefaultConfig()
	cfg.Iterations = 0
	_, err = cfg.BenchConfig()
	assert.ErrorIs(t, err, bench.ErrInvalidIterations)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := []byte(`
layouts: [soa]
counts: [10, 20]
fresh: true
gravity:
  x: 1
  y: 0
  z: -1
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"soa"}, cfg.Layouts)
	assert.Equal(t, []int{10, 20}, cfg.Counts)
	assert.True(t, cfg.Fresh)
	assert.Equal(t, vec.New(1, 0, -1), cfg.Gravity.Vec())
	assert.Equal(t, DefaultIterations, cfg.Iterations, "missing keys keep defaults")
	assert.Equal(t, float32(DefaultDt), cfg.Dt)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("counts: {nope"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	cfg := GetPreset("extended")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("standard")
	require.NotNil(t, cfg)
	assert.Equal(t, []int{1000, 10000, 100000}, cfg.Counts)

	cfg = GetPreset("extended")
	require.NotNil(t, cfg)
	assert.Equal(t, []int{100000, 1000000, 10000000}, cfg.Counts)

	cfg.Counts[0] = 1
	assert.Equal(t, 100000, Presets["extended"].Counts[0], "preset must not be aliased")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"extended", "fresh", "medium", "quick", "standard"}, ListPresets())
}
