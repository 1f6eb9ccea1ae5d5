// Package config loads tunable parameters for the interview core from YAML.
// Strategy thresholds are configuration by design: the selector tests the
// ordering of its rules, never particular cutoff values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds are the cutoffs driving strategy selection. Scores are on a
// 0-100 scale.
type Thresholds struct {
	// Completeness below this selects the clarification strategy.
	Completeness float64 `yaml:"completeness"`
	// Depth below this (once completeness passes) selects depth_focused.
	Depth float64 `yaml:"depth"`
	// Overall above this selects challenge; otherwise breadth_focused.
	ChallengeHigh float64 `yaml:"challenge_high"`
}

// StrategyConfig tunes the strategy engine.
type StrategyConfig struct {
	Thresholds Thresholds `yaml:"thresholds"`
	// MinRoundsForEvolution is how many scored rounds must accumulate before
	// weight evolution runs.
	MinRoundsForEvolution int `yaml:"min_rounds_for_evolution"`
}

// DispatchConfig tunes the agent dispatcher.
type DispatchConfig struct {
	// MaxConcurrentBroadcast bounds how many agents a broadcast runs at once.
	// Zero means one permit per registered agent.
	MaxConcurrentBroadcast int `yaml:"max_concurrent_broadcast"`
}

// BoundaryConfig tunes the intelligence boundary.
type BoundaryConfig struct {
	// TimeoutSeconds bounds every provider call; on expiry the boundary
	// follows the same degraded path as a parse failure.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config is the root configuration document.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Boundary BoundaryConfig `yaml:"boundary"`
}

// Default returns the baseline configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			Thresholds: Thresholds{
				Completeness:  70,
				Depth:         70,
				ChallengeHigh: 90,
			},
			MinRoundsForEvolution: 2,
		},
		Dispatch: DispatchConfig{MaxConcurrentBroadcast: 8},
		Boundary: BoundaryConfig{TimeoutSeconds: 60},
	}
}

// Load reads a YAML config file, layering it over Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	t := c.Strategy.Thresholds
	if t.Completeness < 0 || t.Completeness > 100 {
		return fmt.Errorf("thresholds.completeness out of range: %v", t.Completeness)
	}
	if t.Depth < 0 || t.Depth > 100 {
		return fmt.Errorf("thresholds.depth out of range: %v", t.Depth)
	}
	if t.ChallengeHigh < 0 || t.ChallengeHigh > 100 {
		return fmt.Errorf("thresholds.challenge_high out of range: %v", t.ChallengeHigh)
	}
	if c.Strategy.MinRoundsForEvolution < 1 {
		return fmt.Errorf("strategy.min_rounds_for_evolution must be >= 1")
	}
	if c.Boundary.TimeoutSeconds < 1 {
		return fmt.Errorf("boundary.timeout_seconds must be >= 1")
	}
	return nil
}
