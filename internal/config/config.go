package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/vec"
)

const (
	DefaultDt         = 0.016
	DefaultGravityY   = -9.81
	DefaultIterations = 20
	DefaultWarmup     = 2
)

type Config struct {
	Layouts    []string      `yaml:"layouts"`
	Operations []string      `yaml:"operations"`
	Counts     []int         `yaml:"counts"`
	Iterations int           `yaml:"iterations"`
	Warmup     int           `yaml:"warmup"`
	Fresh      bool          `yaml:"fresh"`
	Dt         float32       `yaml:"dt"`
	Gravity    GravityConfig `yaml:"gravity"`
	Save       bool          `yaml:"save"`
}

type GravityConfig struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (g GravityConfig) Vec() vec.Vec3 {
	return vec.New(g.X, g.Y, g.Z)
}

func DefaultConfig() *Config {
	return &Config{
		Layouts:    []string{string(layout.AoS), string(layout.SoA)},
		Operations: operationNames(bench.Operations()),
		Counts:     []int{1_000, 10_000, 100_000},
		Iterations: DefaultIterations,
		Warmup:     DefaultWarmup,
		Dt:         DefaultDt,
		Gravity:    GravityConfig{Y: DefaultGravityY},
	}
}

// Load reads a yaml file on top of the defaults; keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BenchConfig resolves names into a runnable bench.Config and validates it.
func (c *Config) BenchConfig() (bench.Config, error) {
	out := bench.Config{
		Counts:     append([]int(nil), c.Counts...),
		Iterations: c.Iterations,
		Warmup:     c.Warmup,
		Fresh:      c.Fresh,
		Params: bench.Params{
			Dt:      c.Dt,
			Gravity: c.Gravity.Vec(),
		},
	}

	for _, name := range c.Layouts {
		k, err := layout.ParseKind(name)
		if err != nil {
			return bench.Config{}, err
		}
		out.Layouts = append(out.Layouts, k)
	}
	for _, name := range c.Operations {
		op, err := bench.ParseOperation(name)
		if err != nil {
			return bench.Config{}, err
		}
		out.Operations = append(out.Operations, op)
	}

	if err := out.Validate(); err != nil {
		return bench.Config{}, err
	}
	return out, nil
}

func operationNames(ops []bench.Operation) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}
