package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cachelayout/internal/bench"
)

var ErrNotFound = errors.New("storage: run not found")

// Store keeps one directory per benchmark run under baseDir, each holding
// metadata.json and samples.csv.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Report    *bench.Report `json:"report"`
}

var csvHeader = []string{
	"layout", "operation", "count",
	"mean_ns", "median_ns", "min_ns", "max_ns", "stddev_ns",
	"ns_per_particle", "energy",
}

// Save writes a report and returns its run id.
func (s *Store) Save(report *bench.Report) (string, error) {
	if report == nil {
		return "", errors.New("storage: nil report")
	}
	ts := s.now()
	runID := fmt.Sprintf("run_%s", ts.Format("20060102_150405.000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{ID: runID, Timestamp: ts, Report: report}
	if err := writeRun(runDir, meta); err != nil {
		// A half-written run would be skipped by List without notice.
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata) error {
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range meta.Report.Results {
		st := res.Stats
		row := []string{
			string(res.Case.Layout),
			string(res.Case.Operation),
			strconv.Itoa(res.Case.Count),
			strconv.FormatInt(st.Mean.Nanoseconds(), 10),
			strconv.FormatInt(st.Median.Nanoseconds(), 10),
			strconv.FormatInt(st.Min.Nanoseconds(), 10),
			strconv.FormatInt(st.Max.Nanoseconds(), 10),
			strconv.FormatInt(st.StdDev.Nanoseconds(), 10),
			strconv.FormatFloat(res.NsPerParticle(), 'f', 4, 64),
			strconv.FormatFloat(float64(res.Energy), 'g', -1, 32),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return csvFile.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns all readable runs, oldest first. A missing base directory
// yields an empty list.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil || meta.Report == nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

// Row is one line of samples.csv.
type Row struct {
	Layout        string
	Operation     string
	Count         int
	Mean          time.Duration
	Median        time.Duration
	Min           time.Duration
	Max           time.Duration
	StdDev        time.Duration
	NsPerParticle float64
	Energy        float32
}

// LoadSamples reads samples.csv. Rows that fail to parse are skipped.
func (s *Store) LoadSamples(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, ok := parseRow(rec)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (Row, bool) {
	if len(rec) != len(csvHeader) {
		return Row{}, false
	}
	count, err := strconv.Atoi(rec[2])
	if err != nil {
		return Row{}, false
	}

	var ns [5]int64
	for i := range ns {
		v, err := strconv.ParseInt(rec[3+i], 10, 64)
		if err != nil {
			return Row{}, false
		}
		ns[i] = v
	}

	perParticle, err := strconv.ParseFloat(rec[8], 64)
	if err != nil {
		return Row{}, false
	}
	energy, err := strconv.ParseFloat(rec[9], 32)
	if err != nil {
		return Row{}, false
	}

	return Row{
		Layout:        rec[0],
		Operation:     rec[1],
		Count:         count,
		Mean:          time.Duration(ns[0]),
		Median:        time.Duration(ns[1]),
		Min:           time.Duration(ns[2]),
		Max:           time.Duration(ns[3]),
		StdDev:        time.Duration(ns[4]),
		NsPerParticle: perParticle,
		Energy:        float32(energy),
	}, true
}

// ExportJSON writes the stored report of runID to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta.Report)
}
