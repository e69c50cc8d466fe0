package summary

import (
	"github.com/banshee-data/shakedown/internal/vibe/findings"
	"github.com/banshee-data/shakedown/internal/vibe/localize"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/plots"
)

// SuitabilityState is the pass/warn verdict of one suitability check.
type SuitabilityState string

const (
	StatePass SuitabilityState = "pass"
	StateWarn SuitabilityState = "warn"
)

// SuitabilityCheck is one named run-quality check (spec.md §4.8).
type SuitabilityCheck struct {
	CheckKey    string
	State       SuitabilityState
	Explanation string
}

// SpeedBreakdownRow summarizes one speed band's sample population (spec.md §3.1).
type SpeedBreakdownRow struct {
	SpeedRange  string
	Count       int
	MeanDB      float64
	P95DB       float64
	MaxDB       float64
}

// PhaseTimelineEntry is one driving-phase segment with fault attribution
// (spec.md §3.1, §4.8).
type PhaseTimelineEntry struct {
	Phase           phase.Phase
	StartTS         float64
	EndTS           float64
	SpeedMinKmh     float64
	SpeedMaxKmh     float64
	HasFaultEvidence bool
}

// MostLikelyOrigin is the top-ranked non-reference finding's key
// attributes, augmented with alternative locations (spec.md §4.8).
type MostLikelyOrigin struct {
	Source                string
	Location              string
	SpeedBand             string
	Confidence            *float64
	WeakSpatialSeparation bool
	AlternativeLocations  []string
}

// AxisStats is one accelerometer axis's descriptive statistics (spec.md §4.8).
type AxisStats struct {
	MeanG          float64
	VarianceG      float64
	SaturationCount int
}

// AccelStatistics bundles per-axis stats and the vector magnitude series
// (spec.md §4.8; magnitude requires all three axes present).
type AccelStatistics struct {
	X, Y, Z AxisStats
	VibMagnitude []float64
}

// Plots bundles every diagnostic chart data series (spec.md §6).
type Plots struct {
	FFTSpectrum        []plots.SpectrumPoint
	FFTSpectrumRaw     []plots.SpectrumPoint
	PeaksSpectrogram   []plots.SpectrogramCell
	PeaksSpectrogramRaw []plots.SpectrogramCell
	PeaksTable         []plots.PeaksTableRow
	MatchedAmpVsSpeed  []plots.ReferenceSpeedSeries
	VibMagnitude       []float64
}

// AnalysisSummary is the pipeline's sole output (spec.md §3.1).
type AnalysisSummary struct {
	RunID             string
	Lang              string
	ReportDate        string
	DurationText      string
	SampleCount       int
	SensorCountUsed   int
	SensorLocations   []string

	Findings  []findings.Finding
	TopCauses []findings.Finding

	SpeedBreakdown []SpeedBreakdownRow
	PhaseTimeline  []PhaseTimelineEntry

	SensorIntensityByLocation []localize.LocationIntensity

	RunSuitability []SuitabilityCheck

	Plots Plots

	MostLikelyOrigin MostLikelyOrigin

	Warnings []string

	RunNoiseBaselineG float64
	CertaintyTierKey  string
}
