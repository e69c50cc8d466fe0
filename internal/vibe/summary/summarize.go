package summary

import (
	"sort"
	"time"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/findings"
	"github.com/banshee-data/shakedown/internal/vibe/localize"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/plots"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// Summarize runs the full pipeline — segmentation, peak statistics,
// order matching, localization, confidence scoring, findings, and
// plot-data preparation — and assembles the resulting AnalysisSummary
// (spec.md §2, §4.8). It never raises for data-quality problems; those
// degrade into REF_* findings, warnings, and "warn" suitability checks.
func Summarize(meta sample.RunMetadata, samples []sample.SampleRecord, cfg config.Diagnostics) AnalysisSummary {
	perSamplePhase, segments := phase.ComputeSegments(samples, cfg)

	noiseBaselineG := statx.RunNoiseBaselineG(samples, cfg)
	bins := statx.ComputeBinStats(samples, noiseBaselineG, cfg)
	orderResults := order.MatchAll(samples, meta, cfg)

	steadySpeed := isSteadySpeed(samples, cfg)
	allFindings, topCauses := findings.Build(meta.RunID, meta, samples, orderResults, bins, perSamplePhase, noiseBaselineG, steadySpeed, cfg)

	nonReference := make([]findings.Finding, 0, len(allFindings))
	for _, f := range allFindings {
		if f.FindingType != findings.TypeReference {
			nonReference = append(nonReference, f)
		}
	}

	accelStats := computeAccelStatistics(samples, meta, cfg)
	runSuitability := computeRunSuitability(samples, meta, referenceFindingCount(allFindings), accelStats, cfg)

	var warnings []string
	for _, check := range runSuitability {
		if check.State == StateWarn {
			warnings = append(warnings, check.Explanation)
		}
	}

	return AnalysisSummary{
		RunID:           meta.RunID,
		Lang:            meta.Language,
		ReportDate:      reportDate(meta),
		DurationText:    durationText(meta, samples, perSampleTimestamps(samples)),
		SampleCount:     len(samples),
		SensorCountUsed: countDistinctSensors(samples),
		SensorLocations: distinctLocationLabels(samples),

		Findings:  allFindings,
		TopCauses: topCauses,

		SpeedBreakdown: buildSpeedBreakdown(samples, cfg),
		PhaseTimeline:  buildPhaseTimeline(segments, nonReference),

		SensorIntensityByLocation: localize.ComputeIntensityByLocation(samples),

		RunSuitability: runSuitability,

		Plots: buildPlots(samples, bins, orderResults, cfg, accelStats),

		MostLikelyOrigin: mostLikelyOrigin(topCauses),

		Warnings: warnings,

		RunNoiseBaselineG: noiseBaselineG,
		CertaintyTierKey:  certaintyTierKey(topCauses),
	}
}

func buildPlots(samples []sample.SampleRecord, bins []statx.BinStats, orderResults []order.Result, cfg config.Diagnostics, accel AccelStatistics) Plots {
	weightedSpectrum, rawSpectrum := plots.BuildFFTSpectrum(samples, cfg)
	weightedSpectrogram, rawSpectrogram := plots.BuildPeaksSpectrogram(samples, cfg)
	return Plots{
		FFTSpectrum:         weightedSpectrum,
		FFTSpectrumRaw:      rawSpectrum,
		PeaksSpectrogram:    weightedSpectrogram,
		PeaksSpectrogramRaw: rawSpectrogram,
		PeaksTable:          plots.BuildPeaksTable(bins, samples, cfg),
		MatchedAmpVsSpeed:   plots.BuildMatchedAmpVsSpeed(orderResults, cfg),
		VibMagnitude:        accel.VibMagnitude,
	}
}

func countDistinctSensors(samples []sample.SampleRecord) int {
	seen := make(map[string]bool)
	for _, s := range samples {
		seen[s.ClientID] = true
	}
	return len(seen)
}

func distinctLocationLabels(samples []sample.SampleRecord) []string {
	seen := make(map[sample.Location]bool)
	for _, s := range samples {
		seen[s.Location] = true
	}
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, string(loc))
	}
	sort.Strings(out)
	return out
}

func perSampleTimestamps(samples []sample.SampleRecord) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.TS != nil {
			out = append(out, *s.TS)
		}
	}
	return out
}

// reportDate uses end_time_utc when present, else the current wall
// clock — the one permitted nondeterministic read in the pipeline
// (spec.md §3.2, §4.8).
func reportDate(meta sample.RunMetadata) string {
	if meta.EndTimeUTC != nil {
		return meta.EndTimeUTC.UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// durationText prefers metadata's start/end timestamps; when
// end_time_utc is absent it falls back to the sample stream's own
// t_s span.
func durationText(meta sample.RunMetadata, samples []sample.SampleRecord, ts []float64) string {
	if meta.EndTimeUTC != nil {
		return meta.EndTimeUTC.Sub(meta.StartTimeUTC).Round(time.Second).String()
	}
	if len(ts) == 0 {
		return "0s"
	}
	lo, hi := ts[0], ts[0]
	for _, t := range ts {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return time.Duration((hi - lo) * float64(time.Second)).Round(time.Second).String()
}
