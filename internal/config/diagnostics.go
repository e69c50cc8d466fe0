// Package config holds the global default configuration for the
// vibration-diagnostics pipeline: the tolerance windows, thresholds,
// and penalty multipliers spec'd across the scoring components. It is
// a plain value, not process-wide mutable state — callers load it once
// and thread it explicitly into the pipeline root.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DiagnosticsConfig groups every calibration constant the analysis
// core consults. Fields are pointers so a JSON overlay file can
// specify a subset and fall back to defaults for the rest, mirroring
// the TuningConfig pattern used for the LIDAR pipeline's tuning file.
type DiagnosticsConfig struct {
	// OrderMatchToleranceRel is the relative frequency tolerance for
	// matching a peak against a speed-scaled reference order (spec §4.4).
	OrderMatchToleranceRel *float64 `json:"order_match_tolerance_rel,omitempty"`

	// MinAnalysisFrequencyHz is the lowest frequency peaks are analyzed
	// at; peaks below this are dropped by the normalizer (spec §3.1).
	MinAnalysisFrequencyHz *float64 `json:"min_analysis_frequency_hz,omitempty"`
	// MaxAnalysisFrequencyHz bounds the per-bin peak-statistics sweep (spec §4.3).
	MaxAnalysisFrequencyHz *float64 `json:"max_analysis_frequency_hz,omitempty"`

	// PresenceRatioPatternedMin is the presence-ratio floor for the
	// baseline-noise/patterned classification branches (spec §4.3).
	PresenceRatioPatternedMin *float64 `json:"presence_ratio_patterned_min,omitempty"`
	// PresenceRatioTransientMax is the presence-ratio ceiling below
	// which a peak is classified transient (spec §4.3).
	PresenceRatioTransientMax *float64 `json:"presence_ratio_transient_max,omitempty"`
	// BurstinessTransientMin flags a peak as transient above this ratio (spec §4.3).
	BurstinessTransientMin *float64 `json:"burstiness_transient_min,omitempty"`
	// BurstinessPatternedMax caps burstiness for the patterned branch (spec §4.3).
	BurstinessPatternedMax *float64 `json:"burstiness_patterned_max,omitempty"`
	// SNRBaselineMax is the SNR ceiling below which a bin is baseline noise (spec §4.3).
	SNRBaselineMax *float64 `json:"snr_baseline_max,omitempty"`
	// SpatialUniformityBaselineMin flags global vibration when spatial
	// uniformity is at least this high (spec §4.3).
	SpatialUniformityBaselineMin *float64 `json:"spatial_uniformity_baseline_min,omitempty"`

	// DominanceAmbiguousMax marks two candidate locations as ambiguous
	// when their dominance ratio is below this (spec §4.5).
	DominanceAmbiguousMax *float64 `json:"dominance_ambiguous_max,omitempty"`
	// WeakSeparationThreshold2/3/4Plus scale by connected-location count (spec §4.5).
	WeakSeparationThreshold2     *float64 `json:"weak_separation_threshold_2,omitempty"`
	WeakSeparationThreshold3     *float64 `json:"weak_separation_threshold_3,omitempty"`
	WeakSeparationThreshold4Plus *float64 `json:"weak_separation_threshold_4plus,omitempty"`
	// DiffuseRateRangeMax / DiffuseAmpRangeMax gate diffuse-excitation detection (spec §4.5).
	DiffuseRateRangeMax *float64 `json:"diffuse_rate_range_max,omitempty"`
	DiffuseAmpRangeMax  *float64 `json:"diffuse_amp_range_max,omitempty"`
	DiffusePenalty      *float64 `json:"diffuse_penalty,omitempty"`

	// ConfidenceClampMin/Max bound every non-reference finding's confidence (spec §4.6).
	ConfidenceClampMin *float64 `json:"confidence_clamp_min,omitempty"`
	ConfidenceClampMax *float64 `json:"confidence_clamp_max,omitempty"`
	// ConfidenceHighThreshold/MediumThreshold set the label bands (spec §4.6).
	ConfidenceHighThreshold   *float64 `json:"confidence_high_threshold,omitempty"`
	ConfidenceMediumThreshold *float64 `json:"confidence_medium_threshold,omitempty"`

	// PhaseSlopeThresholdKmhPerS is the smoothed-derivative threshold
	// separating acceleration/cruise/deceleration (spec §4.2, §9 open question).
	PhaseSlopeThresholdKmhPerS *float64 `json:"phase_slope_threshold_kmh_per_s,omitempty"`
	// IdleSpeedThresholdKmh marks a sample idle at or below this speed (spec §4.2).
	IdleSpeedThresholdKmh *float64 `json:"idle_speed_threshold_kmh,omitempty"`
	// PhaseWindowSamples is the sliding-window size for the slope smoothing (spec §4.2).
	PhaseWindowSamples *int `json:"phase_window_samples,omitempty"`
	// PhaseMinSegmentSamples is the minimum segment length before merging
	// into the adjacent dominant phase (spec §4.2).
	PhaseMinSegmentSamples *int `json:"phase_min_segment_samples,omitempty"`

	// SuppressionConfidenceMin is the wheel-finding confidence floor that
	// triggers alias suppression of weaker engine/driveline findings (spec §4.7).
	SuppressionConfidenceMin *float64 `json:"suppression_confidence_min,omitempty"`
	// SuppressionFactor is the multiplier applied to a suppressed finding (spec §4.7).
	SuppressionFactor *float64 `json:"suppression_factor,omitempty"`

	// MinMatchedForOrderFinding / MinEffectiveMatchRate gate order-finding
	// emission (spec §4.7).
	MinMatchedForOrderFinding *int     `json:"min_matched_for_order_finding,omitempty"`
	MinEffectiveMatchRate     *float64 `json:"min_effective_match_rate,omitempty"`
	// RescueMinBandMatchRate / RescueMinBandSamples gate the focused-band
	// rescue for low match-rate references (spec §4.4).
	RescueMinBandMatchRate *float64 `json:"rescue_min_band_match_rate,omitempty"`
	RescueMinBandSamples   *int     `json:"rescue_min_band_samples,omitempty"`

	// TransientConfidenceCap bounds any transient-classified finding (spec §4.7).
	TransientConfidenceCap *float64 `json:"transient_confidence_cap,omitempty"`
	// MaxPersistentPeakFindings caps the number of persistent-peak findings emitted (spec §4.7).
	MaxPersistentPeakFindings *int `json:"max_persistent_peak_findings,omitempty"`
	// MaxTopCauses caps non-reference top causes after suppression (spec §4.7).
	MaxTopCauses *int `json:"max_top_causes,omitempty"`

	// SteadySpeedRangeKmh / SteadySpeedFraction define "steady speed" for
	// the confidence scorer and the speed-variation suitability check (spec §4.6, §4.8).
	SteadySpeedRangeKmh  *float64 `json:"steady_speed_range_kmh,omitempty"`
	SteadySpeedFraction  *float64 `json:"steady_speed_fraction,omitempty"`
	// MinSensorLocationsForCoverage gates the sensor-coverage suitability check (spec §4.8).
	MinSensorLocationsForCoverage *int `json:"min_sensor_locations_for_coverage,omitempty"`
	// SaturationFraction is the fraction of full-scale that counts as saturation (spec §4.8).
	SaturationFraction *float64 `json:"saturation_fraction,omitempty"`

	// SpeedBinWidthKmh is the canonical speed-bin width used throughout (spec §4.3/§4.4/§4.8).
	SpeedBinWidthKmh *float64 `json:"speed_bin_width_kmh,omitempty"`

	// EpsilonAmplitude / EpsilonFrequency guard against division by zero (spec §7).
	EpsilonAmplitude *float64 `json:"epsilon_amplitude,omitempty"`
	EpsilonFrequency *float64 `json:"epsilon_frequency,omitempty"`

	// DefaultNoiseFloorG is used when no sample carries a noise-floor
	// measurement at all (spec §4.3).
	DefaultNoiseFloorG *float64 `json:"default_noise_floor_g,omitempty"`
	// RunNoiseBaselinePercentile is the percentile of strength_floor_amp_g
	// used to estimate the run noise baseline (spec §4.3).
	RunNoiseBaselinePercentile *float64 `json:"run_noise_baseline_percentile,omitempty"`

	// FFTBinWidthHz is the bin width for plots.fft_spectrum/_raw (spec §6).
	FFTBinWidthHz *float64 `json:"fft_bin_width_hz,omitempty"`
	// SpectrogramTimeBucketS is the time-bucket width for
	// plots.peaks_spectrogram/_raw (spec §6).
	SpectrogramTimeBucketS *float64 `json:"spectrogram_time_bucket_s,omitempty"`
	// SpectrogramDiffuseMinBinsPerTick / SpectrogramDiffuseMaxAmpG gate
	// the diagnostic-view suppression of diffuse broadband noise: a
	// tick with at least this many widely-spaced small-amplitude bins
	// is treated as broadband noise rather than a real peak (spec §6).
	SpectrogramDiffuseMinBinsPerTick *int     `json:"spectrogram_diffuse_min_bins_per_tick,omitempty"`
	SpectrogramDiffuseMaxAmpG       *float64 `json:"spectrogram_diffuse_max_amp_g,omitempty"`
	// SpeedVsAmpBinWidthKmh is the speed-binning width for
	// plots.matched_amp_vs_speed (spec §6).
	SpeedVsAmpBinWidthKmh *float64 `json:"speed_vs_amp_bin_width_kmh,omitempty"`
}

// EmptyDiagnosticsConfig returns a DiagnosticsConfig with every field
// nil; LoadDiagnosticsConfig unmarshals a JSON overlay into one of
// these, and the Get* accessors supply defaults for anything unset.
func EmptyDiagnosticsConfig() *DiagnosticsConfig {
	return &DiagnosticsConfig{}
}

// LoadDiagnosticsConfig loads a DiagnosticsConfig overlay from a JSON
// file. Fields omitted from the file keep their documented default via
// the Get* accessors. The path must end in .json and be under 1MB.
func LoadDiagnosticsConfig(path string) (*DiagnosticsConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDiagnosticsConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return cfg, nil
}

func (c *DiagnosticsConfig) getFloat(p *float64, def float64) float64 {
	if c == nil || p == nil {
		return def
	}
	return *p
}

func (c *DiagnosticsConfig) getInt(p *int, def int) int {
	if c == nil || p == nil {
		return def
	}
	return *p
}

// Resolved materializes every default into a plain value struct
// (Diagnostics) that the pipeline threads through by value. This is
// the "one configuration record" spec.md §9 calls for, not a
// process-wide singleton: every call site gets its own copy.
func (c *DiagnosticsConfig) Resolved() Diagnostics {
	return Diagnostics{
		OrderMatchToleranceRel:        c.getFloat(c.OrderMatchToleranceRel, 0.06),
		MinAnalysisFrequencyHz:        c.getFloat(c.MinAnalysisFrequencyHz, 5.0),
		MaxAnalysisFrequencyHz:        c.getFloat(c.MaxAnalysisFrequencyHz, 200.0),
		PresenceRatioPatternedMin:     c.getFloat(c.PresenceRatioPatternedMin, 0.40),
		PresenceRatioTransientMax:     c.getFloat(c.PresenceRatioTransientMax, 0.15),
		BurstinessTransientMin:        c.getFloat(c.BurstinessTransientMin, 5.0),
		BurstinessPatternedMax:        c.getFloat(c.BurstinessPatternedMax, 3.0),
		SNRBaselineMax:                c.getFloat(c.SNRBaselineMax, 1.2),
		SpatialUniformityBaselineMin:  c.getFloat(c.SpatialUniformityBaselineMin, 0.85),
		DominanceAmbiguousMax:         c.getFloat(c.DominanceAmbiguousMax, 1.25),
		WeakSeparationThreshold2:      c.getFloat(c.WeakSeparationThreshold2, 1.50),
		WeakSeparationThreshold3:      c.getFloat(c.WeakSeparationThreshold3, 1.30),
		WeakSeparationThreshold4Plus:  c.getFloat(c.WeakSeparationThreshold4Plus, 1.20),
		DiffuseRateRangeMax:           c.getFloat(c.DiffuseRateRangeMax, 0.20),
		DiffuseAmpRangeMax:            c.getFloat(c.DiffuseAmpRangeMax, 0.30),
		DiffusePenalty:                c.getFloat(c.DiffusePenalty, 0.65),
		ConfidenceClampMin:            c.getFloat(c.ConfidenceClampMin, 0.08),
		ConfidenceClampMax:            c.getFloat(c.ConfidenceClampMax, 0.97),
		ConfidenceHighThreshold:       c.getFloat(c.ConfidenceHighThreshold, 0.70),
		ConfidenceMediumThreshold:     c.getFloat(c.ConfidenceMediumThreshold, 0.40),
		PhaseSlopeThresholdKmhPerS:    c.getFloat(c.PhaseSlopeThresholdKmhPerS, 1.5),
		IdleSpeedThresholdKmh:         c.getFloat(c.IdleSpeedThresholdKmh, 3.0),
		PhaseWindowSamples:            c.getInt(c.PhaseWindowSamples, 5),
		PhaseMinSegmentSamples:        c.getInt(c.PhaseMinSegmentSamples, 2),
		SuppressionConfidenceMin:      c.getFloat(c.SuppressionConfidenceMin, 0.40),
		SuppressionFactor:             c.getFloat(c.SuppressionFactor, 0.75),
		MinMatchedForOrderFinding:     c.getInt(c.MinMatchedForOrderFinding, 8),
		MinEffectiveMatchRate:         c.getFloat(c.MinEffectiveMatchRate, 0.15),
		RescueMinBandMatchRate:        c.getFloat(c.RescueMinBandMatchRate, 0.25),
		RescueMinBandSamples:          c.getInt(c.RescueMinBandSamples, 8),
		TransientConfidenceCap:        c.getFloat(c.TransientConfidenceCap, 0.25),
		MaxPersistentPeakFindings:     c.getInt(c.MaxPersistentPeakFindings, 6),
		MaxTopCauses:                  c.getInt(c.MaxTopCauses, 5),
		SteadySpeedRangeKmh:           c.getFloat(c.SteadySpeedRangeKmh, 10.0),
		SteadySpeedFraction:           c.getFloat(c.SteadySpeedFraction, 0.80),
		MinSensorLocationsForCoverage: c.getInt(c.MinSensorLocationsForCoverage, 3),
		SaturationFraction:            c.getFloat(c.SaturationFraction, 0.98),
		SpeedBinWidthKmh:              c.getFloat(c.SpeedBinWidthKmh, 10.0),
		EpsilonAmplitude:              c.getFloat(c.EpsilonAmplitude, 1e-9),
		EpsilonFrequency:              c.getFloat(c.EpsilonFrequency, 0.01),
		DefaultNoiseFloorG:            c.getFloat(c.DefaultNoiseFloorG, 0.003),
		RunNoiseBaselinePercentile:    c.getFloat(c.RunNoiseBaselinePercentile, 20.0),
		FFTBinWidthHz:                 c.getFloat(c.FFTBinWidthHz, 2.0),
		SpectrogramTimeBucketS:        c.getFloat(c.SpectrogramTimeBucketS, 5.0),
		SpectrogramDiffuseMinBinsPerTick: c.getInt(c.SpectrogramDiffuseMinBinsPerTick, 6),
		SpectrogramDiffuseMaxAmpG:     c.getFloat(c.SpectrogramDiffuseMaxAmpG, 0.01),
		SpeedVsAmpBinWidthKmh:         c.getFloat(c.SpeedVsAmpBinWidthKmh, 10.0),
	}
}

// Diagnostics is the fully-resolved, immutable configuration record
// threaded through the pipeline by value.
type Diagnostics struct {
	OrderMatchToleranceRel        float64
	MinAnalysisFrequencyHz        float64
	MaxAnalysisFrequencyHz        float64
	PresenceRatioPatternedMin     float64
	PresenceRatioTransientMax     float64
	BurstinessTransientMin        float64
	BurstinessPatternedMax        float64
	SNRBaselineMax                float64
	SpatialUniformityBaselineMin  float64
	DominanceAmbiguousMax         float64
	WeakSeparationThreshold2      float64
	WeakSeparationThreshold3      float64
	WeakSeparationThreshold4Plus  float64
	DiffuseRateRangeMax           float64
	DiffuseAmpRangeMax            float64
	DiffusePenalty                float64
	ConfidenceClampMin            float64
	ConfidenceClampMax            float64
	ConfidenceHighThreshold       float64
	ConfidenceMediumThreshold     float64
	PhaseSlopeThresholdKmhPerS    float64
	IdleSpeedThresholdKmh         float64
	PhaseWindowSamples            int
	PhaseMinSegmentSamples        int
	SuppressionConfidenceMin      float64
	SuppressionFactor             float64
	MinMatchedForOrderFinding     int
	MinEffectiveMatchRate         float64
	RescueMinBandMatchRate        float64
	RescueMinBandSamples          int
	TransientConfidenceCap        float64
	MaxPersistentPeakFindings     int
	MaxTopCauses                  int
	SteadySpeedRangeKmh           float64
	SteadySpeedFraction           float64
	MinSensorLocationsForCoverage int
	SaturationFraction            float64
	SpeedBinWidthKmh              float64
	EpsilonAmplitude              float64
	EpsilonFrequency              float64
	DefaultNoiseFloorG            float64
	RunNoiseBaselinePercentile    float64

	FFTBinWidthHz                    float64
	SpectrogramTimeBucketS           float64
	SpectrogramDiffuseMinBinsPerTick int
	SpectrogramDiffuseMaxAmpG        float64
	SpeedVsAmpBinWidthKmh            float64
}

// Default returns the Diagnostics record with every calibration
// constant at its documented spec default.
func Default() Diagnostics {
	return EmptyDiagnosticsConfig().Resolved()
}
