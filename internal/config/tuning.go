// Package config loads and validates the triage tuning file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"smole/internal/volstats"
)

// TuningConfig represents the tunable parameters for scene triage. The schema
// matches the /api/params endpoint so the same JSON can be used for both
// startup configuration and runtime updates. Fields omitted from the JSON
// retain their defaults, so partial configs are safe.
type TuningConfig struct {
	// Gap detection params
	MinGapRatio *float64 `json:"min_gap_ratio,omitempty"`
	MaxGaps     *int     `json:"max_gaps,omitempty"`

	// Statistics params
	Percentiles *[]int `json:"percentiles,omitempty"`

	// Partition params
	DestinationContainer *string `json:"destination_container,omitempty"`
	HideDestination      *bool   `json:"hide_destination,omitempty"`

	// Display params
	DisplayUnits *string `json:"display_units,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under a small size cap.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MinGapRatio != nil {
		if *c.MinGapRatio <= 1 {
			return fmt.Errorf("min_gap_ratio must be greater than 1, got %f", *c.MinGapRatio)
		}
	}

	if c.MaxGaps != nil {
		if *c.MaxGaps < 1 {
			return fmt.Errorf("max_gaps must be at least 1, got %d", *c.MaxGaps)
		}
	}

	if c.Percentiles != nil {
		for _, p := range *c.Percentiles {
			if p <= 0 || p > 100 {
				return fmt.Errorf("percentiles must be in (0, 100], got %d", p)
			}
		}
	}

	if c.DestinationContainer != nil && *c.DestinationContainer == "" {
		return fmt.Errorf("destination_container must not be empty")
	}

	if c.DisplayUnits != nil {
		switch *c.DisplayUnits {
		case "m3", "cm3", "mm3", "auto":
		default:
			return fmt.Errorf("display_units must be one of m3, cm3, mm3, auto; got %q", *c.DisplayUnits)
		}
	}

	return nil
}

// GetMinGapRatio returns the min_gap_ratio value or the default.
func (c *TuningConfig) GetMinGapRatio() float64 {
	if c.MinGapRatio == nil {
		return volstats.DefaultMinGapRatio
	}
	return *c.MinGapRatio
}

// GetMaxGaps returns the max_gaps value or the default.
func (c *TuningConfig) GetMaxGaps() int {
	if c.MaxGaps == nil {
		return volstats.DefaultMaxGaps
	}
	return *c.MaxGaps
}

// GetPercentiles returns the percentile set or the default.
func (c *TuningConfig) GetPercentiles() []int {
	if c.Percentiles == nil {
		return volstats.DefaultPercentiles
	}
	return *c.Percentiles
}

// GetDestinationContainer returns the destination container name or the default.
func (c *TuningConfig) GetDestinationContainer() string {
	if c.DestinationContainer == nil {
		return "Littles"
	}
	return *c.DestinationContainer
}

// GetHideDestination returns the hide_destination value or the default.
func (c *TuningConfig) GetHideDestination() bool {
	if c.HideDestination == nil {
		return true // newly created containers start hidden
	}
	return *c.HideDestination
}

// GetDisplayUnits returns the display_units value or the default.
func (c *TuningConfig) GetDisplayUnits() string {
	if c.DisplayUnits == nil {
		return "auto"
	}
	return *c.DisplayUnits
}

// StatsOptions converts the config into statistics-engine options.
func (c *TuningConfig) StatsOptions() volstats.Options {
	return volstats.Options{
		Percentiles: c.GetPercentiles(),
		MinGapRatio: c.GetMinGapRatio(),
		MaxGaps:     c.GetMaxGaps(),
	}
}
