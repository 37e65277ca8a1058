// Package bench is the timing harness around the particle layouts.
//
// A [Runner] expands a [Config] into cases (layout x operation x particle
// count), builds a system per case, and times whole-operation calls with
// the wall clock:
//
//	r := bench.New(cfg)
//	report, err := r.Run(ctx)
//
// System construction and warmup calls are never timed. Timing loops are
// single-threaded; cases run one after another.
package bench
