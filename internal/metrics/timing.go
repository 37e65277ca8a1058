package metrics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of timing samples.
type Summary struct {
	Samples int           `json:"samples"`
	Min     time.Duration `json:"min_ns"`
	Max     time.Duration `json:"max_ns"`
	Mean    time.Duration `json:"mean_ns"`
	Median  time.Duration `json:"median_ns"`
	StdDev  time.Duration `json:"stddev_ns"`
}

// PerParticle returns the mean cost in nanoseconds per particle.
func (s Summary) PerParticle(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(s.Mean.Nanoseconds()) / float64(n)
}

// Summarize computes order statistics and the sample standard deviation.
// For an even number of samples the median is the lower middle sample. The
// input slice is not modified.
func Summarize(samples []time.Duration) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}

	ns := make([]float64, n)
	for i, d := range samples {
		ns[i] = float64(d)
	}
	sort.Float64s(ns)

	var stddev float64
	if n > 1 {
		stddev = stat.StdDev(ns, nil)
	}

	return Summary{
		Samples: n,
		Min:     time.Duration(ns[0]),
		Max:     time.Duration(ns[n-1]),
		Mean:    nanos(stat.Mean(ns, nil)),
		Median:  nanos(stat.Quantile(0.5, stat.Empirical, ns, nil)),
		StdDev:  nanos(stddev),
	}
}

func nanos(v float64) time.Duration {
	return time.Duration(math.Round(v))
}

// Timing collects wall-clock samples for one benchmark case.
type Timing struct {
	name    string
	samples []time.Duration
}

func NewTiming(name string) *Timing {
	return &Timing{
		name:    name,
		samples: make([]time.Duration, 0, 64),
	}
}

func (t *Timing) Name() string { return t.name }

func (t *Timing) Observe(d time.Duration) {
	t.samples = append(t.samples, d)
}

// Value returns the mean sample in nanoseconds.
func (t *Timing) Value() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	return float64(t.Summary().Mean.Nanoseconds())
}

func (t *Timing) Summary() Summary {
	return Summarize(t.samples)
}

func (t *Timing) Samples() []time.Duration {
	return t.samples
}

func (t *Timing) Reset() {
	t.samples = t.samples[:0]
}
