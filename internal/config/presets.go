package config

import "sort"

// Presets are named particle-count sweeps. "standard" and "extended" are the
// two measurement sets; "medium" is the single large size used for the
// full-frame comparison.
var Presets = map[string]*Config{
	"quick": {
		Counts: []int{100, 1_000, 10_000}, Iterations: 10, Warmup: 1,
	},
	"standard": {
		Counts: []int{1_000, 10_000, 100_000}, Iterations: DefaultIterations, Warmup: DefaultWarmup,
	},
	"extended": {
		Counts: []int{100_000, 1_000_000, 10_000_000}, Iterations: 10, Warmup: 1,
	},
	"medium": {
		Counts: []int{1_000_000}, Iterations: 30, Warmup: 3,
	},
	"fresh": {
		Counts: []int{1_000, 10_000, 100_000}, Iterations: DefaultIterations, Warmup: 0, Fresh: true,
	},
}

// GetPreset returns a full config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Counts = append([]int(nil), p.Counts...)
	cfg.Iterations = p.Iterations
	cfg.Warmup = p.Warmup
	cfg.Fresh = p.Fresh
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
