// Package config loads analysis tunables from an optional TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all finsight configuration.
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
}

// AnalysisConfig holds the detector tunables. The zero value is replaced
// by the documented defaults on load.
type AnalysisConfig struct {
	MinOccurrences  int     `toml:"min_occurrences"`
	AmountTolerance float64 `toml:"amount_tolerance"`
	AnomalyStd      float64 `toml:"anomaly_n_std"`
	AnomalyWindow   int     `toml:"anomaly_window_days"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			MinOccurrences:  3,
			AmountTolerance: 0.05,
			AnomalyStd:      2.0,
			AnomalyWindow:   30,
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Unset fields also fall back to defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if loaded.Analysis.MinOccurrences > 0 {
		cfg.Analysis.MinOccurrences = loaded.Analysis.MinOccurrences
	}
	if loaded.Analysis.AmountTolerance > 0 {
		cfg.Analysis.AmountTolerance = loaded.Analysis.AmountTolerance
	}
	if loaded.Analysis.AnomalyStd > 0 {
		cfg.Analysis.AnomalyStd = loaded.Analysis.AnomalyStd
	}
	if loaded.Analysis.AnomalyWindow > 0 {
		cfg.Analysis.AnomalyWindow = loaded.Analysis.AnomalyWindow
	}
	return cfg, nil
}
