package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/metrics"
)

// Case is one timed combination.
type Case struct {
	Layout    layout.Kind `json:"layout"`
	Operation Operation   `json:"operation"`
	Count     int         `json:"count"`
}

func (c Case) String() string {
	return fmt.Sprintf("%s/%s/%d", c.Layout, c.Operation, c.Count)
}

type Config struct {
	Layouts    []layout.Kind
	Operations []Operation
	Counts     []int
	Iterations int
	Warmup     int
	// Fresh rebuilds the system before every sample so each call sees the
	// seeded state. Otherwise one system is mutated across all samples.
	Fresh  bool
	Params Params
}

func DefaultConfig() Config {
	return Config{
		Layouts:    layout.Kinds(),
		Operations: Operations(),
		Counts:     []int{1_000, 10_000, 100_000},
		Iterations: 20,
		Warmup:     2,
		Params:     DefaultParams(),
	}
}

func (c Config) Validate() error {
	if len(c.Layouts) == 0 || len(c.Operations) == 0 || len(c.Counts) == 0 {
		return ErrNoCases
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidIterations, c.Iterations)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("%w: warmup must not be negative, got %d", ErrInvalidIterations, c.Warmup)
	}
	for _, n := range c.Counts {
		if n < 0 {
			return fmt.Errorf("%w, got %d", ErrInvalidCount, n)
		}
	}
	for _, k := range c.Layouts {
		if k != layout.AoS && k != layout.SoA {
			return fmt.Errorf("%w: %q", layout.ErrUnknownLayout, string(k))
		}
	}
	for _, op := range c.Operations {
		if !op.valid() {
			return fmt.Errorf("%w: %q", ErrUnknownOperation, string(op))
		}
	}
	return nil
}

// Cases expands the config. Layouts vary fastest so that the AoS and SoA
// runs of one operation and count are adjacent.
func (c Config) Cases() []Case {
	cases := make([]Case, 0, len(c.Operations)*len(c.Counts)*len(c.Layouts))
	for _, op := range c.Operations {
		for _, n := range c.Counts {
			for _, k := range c.Layouts {
				cases = append(cases, Case{Layout: k, Operation: op, Count: n})
			}
		}
	}
	return cases
}

type Observer interface {
	OnCase(c Case)
	OnSample(c Case, d time.Duration)
}

// sink keeps operation results live so calls are not elided.
var sink float32

type Runner struct {
	cfg       Config
	observers []Observer
}

func New(cfg Config) *Runner {
	return &Runner{
		cfg:       cfg,
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run times every case in order. On cancellation it returns the report of
// the cases finished so far together with a *CaseError.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{
		Started:    start,
		Iterations: r.cfg.Iterations,
		Warmup:     r.cfg.Warmup,
		Fresh:      r.cfg.Fresh,
		Params:     r.cfg.Params,
		Results:    make([]Result, 0, len(r.cfg.Cases())),
	}

	for _, c := range r.cfg.Cases() {
		res, err := r.runCase(ctx, c)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Results = append(report.Results, res)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) (Result, error) {
	for _, o := range r.observers {
		o.OnCase(c)
	}

	sys, err := layout.New(c.Layout, c.Count)
	if err != nil {
		return Result{}, &CaseError{Case: c, Wrapped: err}
	}
	p := r.cfg.Params

	for i := 0; i < r.cfg.Warmup; i++ {
		sink = c.Operation.apply(sys, p)
	}

	timing := metrics.NewTiming(c.String())
	for i := 0; i < r.cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return Result{}, &CaseError{Case: c, Sample: i, Wrapped: ctx.Err()}
		default:
		}

		if r.cfg.Fresh {
			if sys, err = layout.New(c.Layout, c.Count); err != nil {
				return Result{}, &CaseError{Case: c, Sample: i, Wrapped: err}
			}
		}

		t0 := time.Now()
		sink = c.Operation.apply(sys, p)
		d := time.Since(t0)

		timing.Observe(d)
		for _, o := range r.observers {
			o.OnSample(c, d)
		}
	}

	samples := make([]time.Duration, len(timing.Samples()))
	copy(samples, timing.Samples())

	return Result{
		Case:    c,
		Stats:   timing.Summary(),
		Samples: samples,
		Energy:  sys.KineticEnergy(),
	}, nil
}
