package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/metrics"
)

func testReport() *bench.Report {
	return &bench.Report{
		Started:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed:    time.Second,
		Iterations: 3,
		Params:     bench.DefaultParams(),
		Results: []bench.Result{
			{
				Case:    bench.Case{Layout: layout.AoS, Operation: bench.KineticEnergy, Count: 1000},
				Stats:   metrics.Summarize([]time.Duration{3000, 4000, 5000}),
				Samples: []time.Duration{3000, 4000, 5000},
				Energy:  12.5,
			},
			{
				Case:   bench.Case{Layout: layout.SoA, Operation: bench.KineticEnergy, Count: 1000},
				Stats:  metrics.Summarize([]time.Duration{1000, 2000, 3000}),
				Energy: 12.5,
			},
		},
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time {
		t := ts
		ts = ts.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	dir := t.TempDir()
	st := New(dir)
	st.now = fixedClock(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.Init())
	return st, dir
}

func TestStoreSaveLoad(t *testing.T) {
	st, dir := newTestStore(t)

	runID, err := st.Save(testReport())
	require.NoError(t, err)
	assert.Equal(t, "run_20261019_120000.000", runID)

	assert.FileExists(t, filepath.Join(dir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, runID, "samples.csv"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	require.NotNil(t, meta.Report)
	require.Len(t, meta.Report.Results, 2)
	assert.Equal(t, time.Duration(4000), meta.Report.Results[0].Stats.Mean)
	assert.Equal(t, float32(12.5), meta.Report.Results[1].Energy)
	assert.Equal(t, float32(0.016), meta.Report.Params.Dt)

	speedups := meta.Report.Speedups()
	require.Len(t, speedups, 1)
	assert.InDelta(t, 2.0, speedups[0].Ratio, 1e-9)
}

func TestStoreLoadSamples(t *testing.T) {
	st, _ := newTestStore(t)

	runID, err := st.Save(testReport())
	require.NoError(t, err)

	rows, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "aos", rows[0].Layout)
	assert.Equal(t, "kinetic_energy", rows[0].Operation)
	assert.Equal(t, 1000, rows[0].Count)
	assert.Equal(t, time.Duration(4000), rows[0].Mean)
	assert.Equal(t, time.Duration(1000), rows[0].StdDev)
	assert.InDelta(t, 4.0, rows[0].NsPerParticle, 1e-9)
	assert.Equal(t, float32(12.5), rows[0].Energy)
}

func TestStoreList(t *testing.T) {
	st, _ := newTestStore(t)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(testReport())
	require.NoError(t, err)
	second, err := st.Save(testReport())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "not_a_run"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreNotFound(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.Load("run_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.LoadSamples("run_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, st.ExportJSON(&bytes.Buffer{}, "run_missing"), ErrNotFound)
}

func TestStoreExportJSON(t *testing.T) {
	st, _ := newTestStore(t)
	runID, err := st.Save(testReport())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))

	var report bench.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Len(t, report.Results, 2)
	assert.Equal(t, 3, report.Iterations)
}

func TestStoreSaveNil(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Save(nil)
	assert.Error(t, err)
}

func TestStoreSaveNonFinite(t *testing.T) {
	st, _ := newTestStore(t)

	report := testReport()
	report.Params.Gravity.X = float32(math.Inf(1))
	report.Results[0].Energy = float32(math.Inf(1))
	report.Results[1].Energy = float32(math.NaN())

	runID, err := st.Save(report)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(meta.Report.Params.Gravity.X), 1))
	assert.True(t, math.IsInf(float64(meta.Report.Results[0].Energy), 1))
	assert.True(t, math.IsNaN(float64(meta.Report.Results[1].Energy)))

	rows, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, math.IsInf(float64(rows[0].Energy), 1))
	assert.True(t, math.IsNaN(float64(rows[1].Energy)))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStoreSaveFailureRemovesRun(t *testing.T) {
	st, dir := newTestStore(t)

	// samples.csv cannot be created over a directory of the same name.
	runDir := filepath.Join(dir, "run_20261019_120000.000")
	require.NoError(t, os.MkdirAll(filepath.Join(runDir, "samples.csv"), 0755))

	_, err := st.Save(testReport())
	require.Error(t, err)
	assert.NoDirExists(t, runDir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
