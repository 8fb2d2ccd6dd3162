// Package config holds the run configuration record consumed by the
// driver and the generation core.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alma.local/smtfuzz/theory"
)

// Config is the full configuration of a fuzzing run. Load starts from
// Default, so keys missing from a file keep their default values.
type Config struct {
	Seed           uint64   `yaml:"seed"`
	Theories       []string `yaml:"theories"`
	ActionBudget   uint64   `yaml:"action_budget"`
	SimpleSymbols  bool     `yaml:"simple_symbols"`
	TraceSeeds     bool     `yaml:"trace_seeds"`
	ArithSubtyping bool     `yaml:"arith_subtyping"`
	ArithLinear    bool     `yaml:"arith_linear"`
	TraceOut       string   `yaml:"trace_out"`
	Runs           uint64   `yaml:"runs"`
	LogLevel       string   `yaml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Seed:          0,
		ActionBudget:  100,
		SimpleSymbols: true,
		Runs:          1,
		LogLevel:      "info",
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// ParsedTheories resolves the theory names. An empty list means every
// theory the backend supports.
func (c Config) ParsedTheories() ([]theory.Theory, error) {
	out := make([]theory.Theory, 0, len(c.Theories))
	for _, name := range c.Theories {
		t, err := theory.ParseTheory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
