package findings

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// Build assembles every finding for one run: order findings, persistent-peak
// and transient findings, and reference findings for missing inputs, then
// applies alias suppression, stable ordering, and top-cause truncation
// (spec.md §4.7).
//
// all is the complete findings list, including reference findings and
// everything beyond the top-5 cutoff. topCauses is the suppressed,
// truncated, non-reference subset surfaced as the run's headline causes.
func Build(
	runID string,
	meta sample.RunMetadata,
	samples []sample.SampleRecord,
	orderResults []order.Result,
	bins []statx.BinStats,
	perSamplePhase []phase.Phase,
	noiseBaselineG float64,
	steadySpeed bool,
	cfg config.Diagnostics,
) (all []Finding, topCauses []Finding) {
	orderFindings := buildOrderFindings(runID, orderResults, perSamplePhase, noiseBaselineG, steadySpeed, cfg)
	peakFindings := buildPeakFindings(runID, bins, samples, orderResults, perSamplePhase, noiseBaselineG, steadySpeed, cfg)
	refFindings := buildReferenceFindings(runID, meta, samples)

	nonReference := make([]Finding, 0, len(orderFindings)+len(peakFindings))
	nonReference = append(nonReference, orderFindings...)
	nonReference = append(nonReference, peakFindings...)

	applyAliasSuppression(nonReference, cfg)
	sortFindings(nonReference)

	top := nonReference
	if len(top) > cfg.MaxTopCauses {
		top = top[:cfg.MaxTopCauses]
	}
	topCauses = append([]Finding(nil), top...)

	all = make([]Finding, 0, len(nonReference)+len(refFindings))
	all = append(all, nonReference...)
	all = append(all, refFindings...)
	return all, topCauses
}

// applyAliasSuppression implements spec.md §4.7's wheel-dominance rule:
// a sufficiently confident wheel/tire finding suppresses every strictly
// weaker engine or driveline finding, in place.
func applyAliasSuppression(findingsList []Finding, cfg config.Diagnostics) {
	var strongestWheelConfidence float64
	found := false
	for _, f := range findingsList {
		if f.SuspectedSource != "wheel/tire" || f.ConfidenceValue == nil {
			continue
		}
		if !found || *f.ConfidenceValue > strongestWheelConfidence {
			strongestWheelConfidence = *f.ConfidenceValue
			found = true
		}
	}
	if !found || strongestWheelConfidence < cfg.SuppressionConfidenceMin {
		return
	}
	for i := range findingsList {
		f := &findingsList[i]
		if f.SuspectedSource != "engine" && f.SuspectedSource != "driveline" {
			continue
		}
		if f.ConfidenceValue == nil || *f.ConfidenceValue >= strongestWheelConfidence {
			continue
		}
		suppressed := *f.ConfidenceValue * cfg.SuppressionFactor
		f.ConfidenceValue = &suppressed
	}
}

// sortFindings applies the stable ordering spec.md §5 requires:
// confidence desc, then finding_key asc, strongest_location asc,
// frequency (encoded in frequency_hz_or_order) asc.
func sortFindings(findingsList []Finding) {
	sort.SliceStable(findingsList, func(i, j int) bool {
		a, b := findingsList[i], findingsList[j]
		ac, bc := confidenceOrZero(a), confidenceOrZero(b)
		if ac != bc {
			return ac > bc
		}
		if a.FindingKey != b.FindingKey {
			return a.FindingKey < b.FindingKey
		}
		if a.StrongestLocation != b.StrongestLocation {
			return a.StrongestLocation < b.StrongestLocation
		}
		return a.FrequencyHzOrOrder < b.FrequencyHzOrOrder
	})
}

func confidenceOrZero(f Finding) float64 {
	if f.ConfidenceValue == nil {
		return 0
	}
	return *f.ConfidenceValue
}
