package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for pipeline tuning
// parameters. Fields omitted from a JSON file fall back to the Get* defaults,
// so the same partial config can be carried from the validation run into the
// batch run.
type TuningConfig struct {
	// Sample construction cuts
	TeffMinK *float64 `json:"teff_min_k,omitempty"`
	TeffMaxK *float64 `json:"teff_max_k,omitempty"`
	LoggMin  *float64 `json:"logg_min,omitempty"`
	MaxStars *int     `json:"max_stars,omitempty"`

	// Preprocessing params
	BinHours *float64 `json:"bin_hours,omitempty"`

	// Periodogram params
	MinPeriodDays       *float64 `json:"min_period_days,omitempty"`
	MaxPeriodDays       *float64 `json:"max_period_days,omitempty"`
	Oversample          *int     `json:"oversample,omitempty"`
	FAPThreshold        *float64 `json:"fap_threshold,omitempty"`
	BootstrapIterations *int     `json:"bootstrap_iterations,omitempty"`

	// ACF params
	ACFPeakHeight     *float64 `json:"acf_peak_height,omitempty"`
	ACFPeakSeparation *int     `json:"acf_peak_separation,omitempty"`
	ACFMinLagDays     *float64 `json:"acf_min_lag_days,omitempty"`

	// Harmonic decision windows
	HarmonicRatioLow     *float64 `json:"harmonic_ratio_low,omitempty"`
	HarmonicRatioHigh    *float64 `json:"harmonic_ratio_high,omitempty"`
	SubharmonicRatioLow  *float64 `json:"subharmonic_ratio_low,omitempty"`
	SubharmonicRatioHigh *float64 `json:"subharmonic_ratio_high,omitempty"`

	// Diagnostics params
	VariabilityCut  *float64 `json:"variability_cut,omitempty"`
	MatchSampleSize *int     `json:"match_sample_size,omitempty"`
	Seed            *int64   `json:"seed,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
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

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent
// directories, so it works from the repo root, from package test dirs, and
// from the cmd binaries. Panics if the file cannot be found.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from deeper packages
		"../../../../" + DefaultConfigPath, // cmd binaries under cmd/<name>/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from the repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.TeffMinK != nil && c.TeffMaxK != nil {
		if *c.TeffMinK > *c.TeffMaxK {
			return fmt.Errorf("teff_min_k (%f) must not exceed teff_max_k (%f)", *c.TeffMinK, *c.TeffMaxK)
		}
	}

	if c.MinPeriodDays != nil {
		if *c.MinPeriodDays <= 0 {
			return fmt.Errorf("min_period_days must be positive, got %f", *c.MinPeriodDays)
		}
	}

	if c.MinPeriodDays != nil && c.MaxPeriodDays != nil {
		if *c.MinPeriodDays >= *c.MaxPeriodDays {
			return fmt.Errorf("min_period_days (%f) must be below max_period_days (%f)", *c.MinPeriodDays, *c.MaxPeriodDays)
		}
	}

	if c.FAPThreshold != nil {
		if *c.FAPThreshold <= 0 || *c.FAPThreshold >= 1 {
			return fmt.Errorf("fap_threshold must be between 0 and 1 exclusive, got %f", *c.FAPThreshold)
		}
	}

	if c.ACFPeakHeight != nil {
		if *c.ACFPeakHeight <= 0 || *c.ACFPeakHeight > 1 {
			return fmt.Errorf("acf_peak_height must be in (0, 1], got %f", *c.ACFPeakHeight)
		}
	}

	if c.BinHours != nil {
		if *c.BinHours <= 0 {
			return fmt.Errorf("bin_hours must be positive, got %f", *c.BinHours)
		}
	}

	if c.HarmonicRatioLow != nil && c.HarmonicRatioHigh != nil {
		if *c.HarmonicRatioLow >= *c.HarmonicRatioHigh {
			return fmt.Errorf("harmonic ratio window is empty: [%f, %f]", *c.HarmonicRatioLow, *c.HarmonicRatioHigh)
		}
	}

	if c.SubharmonicRatioLow != nil && c.SubharmonicRatioHigh != nil {
		if *c.SubharmonicRatioLow >= *c.SubharmonicRatioHigh {
			return fmt.Errorf("subharmonic ratio window is empty: [%f, %f]", *c.SubharmonicRatioLow, *c.SubharmonicRatioHigh)
		}
	}

	if c.MaxStars != nil {
		if *c.MaxStars < 0 {
			return fmt.Errorf("max_stars must be non-negative, got %d", *c.MaxStars)
		}
	}

	return nil
}

// GetTeffMinK returns the teff_min_k value or the default.
func (c *TuningConfig) GetTeffMinK() float64 {
	if c.TeffMinK == nil {
		return 2500
	}
	return *c.TeffMinK
}

// GetTeffMaxK returns the teff_max_k value or the default.
func (c *TuningConfig) GetTeffMaxK() float64 {
	if c.TeffMaxK == nil {
		return 4000
	}
	return *c.TeffMaxK
}

// GetLoggMin returns the logg_min value or the default.
func (c *TuningConfig) GetLoggMin() float64 {
	if c.LoggMin == nil {
		return 4.0
	}
	return *c.LoggMin
}

// GetMaxStars returns the max_stars value or the default.
func (c *TuningConfig) GetMaxStars() int {
	if c.MaxStars == nil {
		return 100
	}
	return *c.MaxStars
}

// GetBinHours returns the bin_hours value or the default.
func (c *TuningConfig) GetBinHours() float64 {
	if c.BinHours == nil {
		return 2.0
	}
	return *c.BinHours
}

// GetMinPeriodDays returns the min_period_days value or the default.
func (c *TuningConfig) GetMinPeriodDays() float64 {
	if c.MinPeriodDays == nil {
		return 0.5
	}
	return *c.MinPeriodDays
}

// GetMaxPeriodDays returns the max_period_days value or the default.
func (c *TuningConfig) GetMaxPeriodDays() float64 {
	if c.MaxPeriodDays == nil {
		return 15.0
	}
	return *c.MaxPeriodDays
}

// GetOversample returns the oversample value or the default.
func (c *TuningConfig) GetOversample() int {
	if c.Oversample == nil {
		return 5
	}
	return *c.Oversample
}

// GetFAPThreshold returns the fap_threshold value or the default.
func (c *TuningConfig) GetFAPThreshold() float64 {
	if c.FAPThreshold == nil {
		return 0.01
	}
	return *c.FAPThreshold
}

// GetBootstrapIterations returns the bootstrap_iterations value or the default.
func (c *TuningConfig) GetBootstrapIterations() int {
	if c.BootstrapIterations == nil {
		return 200
	}
	return *c.BootstrapIterations
}

// GetACFPeakHeight returns the acf_peak_height value or the default.
func (c *TuningConfig) GetACFPeakHeight() float64 {
	if c.ACFPeakHeight == nil {
		return 0.2
	}
	return *c.ACFPeakHeight
}

// GetACFPeakSeparation returns the acf_peak_separation value or the default.
func (c *TuningConfig) GetACFPeakSeparation() int {
	if c.ACFPeakSeparation == nil {
		return 10
	}
	return *c.ACFPeakSeparation
}

// GetACFMinLagDays returns the acf_min_lag_days value or the default.
func (c *TuningConfig) GetACFMinLagDays() float64 {
	if c.ACFMinLagDays == nil {
		return 0.5
	}
	return *c.ACFMinLagDays
}

// GetHarmonicRatioLow returns the harmonic_ratio_low value or the default.
func (c *TuningConfig) GetHarmonicRatioLow() float64 {
	if c.HarmonicRatioLow == nil {
		return 1.8
	}
	return *c.HarmonicRatioLow
}

// GetHarmonicRatioHigh returns the harmonic_ratio_high value or the default.
func (c *TuningConfig) GetHarmonicRatioHigh() float64 {
	if c.HarmonicRatioHigh == nil {
		return 2.2
	}
	return *c.HarmonicRatioHigh
}

// GetSubharmonicRatioLow returns the subharmonic_ratio_low value or the default.
func (c *TuningConfig) GetSubharmonicRatioLow() float64 {
	if c.SubharmonicRatioLow == nil {
		return 0.45
	}
	return *c.SubharmonicRatioLow
}

// GetSubharmonicRatioHigh returns the subharmonic_ratio_high value or the default.
func (c *TuningConfig) GetSubharmonicRatioHigh() float64 {
	if c.SubharmonicRatioHigh == nil {
		return 0.55
	}
	return *c.SubharmonicRatioHigh
}

// GetVariabilityCut returns the variability_cut value or the default.
func (c *TuningConfig) GetVariabilityCut() float64 {
	if c.VariabilityCut == nil {
		return 0.0015
	}
	return *c.VariabilityCut
}

// GetMatchSampleSize returns the match_sample_size value or the default.
func (c *TuningConfig) GetMatchSampleSize() int {
	if c.MatchSampleSize == nil {
		return 15
	}
	return *c.MatchSampleSize
}

// GetSeed returns the seed value or the default.
func (c *TuningConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 42
	}
	return *c.Seed
}
