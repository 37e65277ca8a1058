package bench

import (
	"sort"
	"time"

	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/metrics"
)

type Result struct {
	Case    Case            `json:"case"`
	Stats   metrics.Summary `json:"stats"`
	Samples []time.Duration `json:"samples_ns,omitempty"`
	// Energy is the kinetic energy of the system after the last sample.
	Energy float32 `json:"energy"`
}

// NsPerParticle returns the mean cost per particle of one call.
func (r Result) NsPerParticle() float64 {
	return r.Stats.PerParticle(r.Case.Count)
}

type Report struct {
	Started    time.Time     `json:"started"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Iterations int           `json:"iterations"`
	Warmup     int           `json:"warmup"`
	Fresh      bool          `json:"fresh"`
	Params     Params        `json:"params"`
	Results    []Result      `json:"results"`
}

func (r *Report) Find(kind layout.Kind, op Operation, count int) (Result, bool) {
	for _, res := range r.Results {
		if res.Case.Layout == kind && res.Case.Operation == op && res.Case.Count == count {
			return res, true
		}
	}
	return Result{}, false
}

// Counts returns the distinct particle counts in ascending order.
func (r *Report) Counts() []int {
	seen := make(map[int]bool)
	counts := make([]int, 0)
	for _, res := range r.Results {
		if !seen[res.Case.Count] {
			seen[res.Case.Count] = true
			counts = append(counts, res.Case.Count)
		}
	}
	sort.Ints(counts)
	return counts
}

// Operations returns the operations present in the report in first-seen order.
func (r *Report) Operations() []Operation {
	seen := make(map[Operation]bool)
	ops := make([]Operation, 0)
	for _, res := range r.Results {
		if !seen[res.Case.Operation] {
			seen[res.Case.Operation] = true
			ops = append(ops, res.Case.Operation)
		}
	}
	return ops
}

// Speedup compares the two layouts on one operation and count.
type Speedup struct {
	Operation Operation     `json:"operation"`
	Count     int           `json:"count"`
	AoS       time.Duration `json:"aos_mean_ns"`
	SoA       time.Duration `json:"soa_mean_ns"`
	// Ratio is AoS mean over SoA mean; above 1 means SoA was faster.
	Ratio float64 `json:"ratio"`
	// EnergyMatch is false if the two systems ended in different states.
	EnergyMatch bool `json:"energy_match"`
}

// Speedups pairs AoS and SoA results. Cases missing either layout are skipped.
func (r *Report) Speedups() []Speedup {
	out := make([]Speedup, 0)
	for _, op := range r.Operations() {
		for _, n := range r.Counts() {
			a, okA := r.Find(layout.AoS, op, n)
			s, okS := r.Find(layout.SoA, op, n)
			if !okA || !okS {
				continue
			}
			sp := Speedup{
				Operation:   op,
				Count:       n,
				AoS:         a.Stats.Mean,
				SoA:         s.Stats.Mean,
				EnergyMatch: layout.Same(a.Energy, s.Energy),
			}
			if s.Stats.Mean > 0 {
				sp.Ratio = float64(a.Stats.Mean) / float64(s.Stats.Mean)
			}
			out = append(out, sp)
		}
	}
	return out
}
