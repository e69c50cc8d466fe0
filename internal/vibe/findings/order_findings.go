package findings

import (
	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/confidence"
	"github.com/banshee-data/shakedown/internal/vibe/localize"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

func orderLabel(key order.ReferenceKey) string {
	switch key {
	case order.Wheel1x:
		return "1x wheel order"
	case order.Wheel2x:
		return "2x wheel order"
	case order.Wheel3x:
		return "3x wheel order"
	case order.Driveshaft1x:
		return "1x driveshaft order"
	case order.Driveshaft2x:
		return "2x driveshaft order"
	case order.Engine1x:
		return "1x engine order"
	case order.Engine2x:
		return "2x engine order"
	default:
		return string(key)
	}
}

// buildOrderFindings emits one Finding per reference meeting the
// matched/effective-match-rate gate (spec.md §4.7).
func buildOrderFindings(runID string, results []order.Result, perSamplePhase []phase.Phase, noiseBaselineG float64, steadySpeed bool, cfg config.Diagnostics) []Finding {
	var out []Finding
	for _, res := range results {
		if res.Matched < cfg.MinMatchedForOrderFinding || res.EffectiveMatchRate < cfg.MinEffectiveMatchRate {
			continue
		}

		source := res.Key.SuspectedSource()
		sel := localize.SelectForReference(res, source, cfg)

		indices := make([]int, len(res.Matches))
		for i, m := range res.Matches {
			indices[i] = m.SampleIndex
		}
		phaseEvidence := buildPhaseEvidence(indices, perSamplePhase)

		errorScore := orderErrorScore(res)
		snrScore := orderSNRScore(res, noiseBaselineG)
		corroborating := localize.ConnectedLocationCount(res)
		constantSpeed := isConstantSpeed(res, cfg)

		corrDefined := res.Corr != nil
		corrVal := 0.0
		if corrDefined {
			corrVal = *res.Corr
		}

		in := confidence.Inputs{
			EffectiveMatchRate:     res.EffectiveMatchRate,
			ErrorScore:             errorScore,
			CorrVal:                corrVal,
			CorrDefined:            corrDefined,
			SNRScore:               snrScore,
			AbsoluteStrengthDB:     res.AbsoluteStrengthDB,
			LocalizationConfidence: sel.LocalizationConfidence,
			WeakSpatialSeparation:  sel.WeakSpatialSeparation,
			DominanceRatio:         sel.DominanceRatio,
			ConstantSpeed:          constantSpeed,
			SteadySpeed:            steadySpeed,
			Matched:                res.Matched,
			CorroboratingLocations: corroborating,
			PhasesWithEvidence:     len(phaseEvidence.PhasesDetected),
			IsDiffuseExcitation:    sel.IsDiffuseExcitation,
			DiffusePenalty:         sel.DiffusePenalty,
			NConnectedLocations:    sel.NConnectedLocations,
			PathCompliance:         1.0,
		}
		value, label, _ := confidence.Score(in, cfg)

		f := Finding{
			FindingKey:            string(res.Key),
			FindingType:           TypeOrder,
			SuspectedSource:       source,
			StrongestLocation:     sel.Location,
			PrimaryLocation:       string(sel.PrimaryLocation),
			AlternativeLocations:  altLocationStrings(sel.AlternativeLocations),
			StrongestSpeedBand:    res.StrongestSpeedBand,
			ConfidenceValue:       &value,
			ConfidenceLabel:       string(label),
			PhaseEvidence:         phaseEvidence,
			DominanceRatio:        sel.DominanceRatio,
			WeakSpatialSeparation: sel.WeakSpatialSeparation,
			IsDiffuseExcitation:   sel.IsDiffuseExcitation,
			FrequencyHzOrOrder:    orderLabel(res.Key),
			EvidenceMetrics: EvidenceMetrics{
				EffectiveMatchRate:     res.EffectiveMatchRate,
				Corr:                   res.Corr,
				SNR:                    snrScore,
				AbsoluteStrengthDB:     res.AbsoluteStrengthDB,
				LocalizationConfidence: sel.LocalizationConfidence,
			},
		}
		f.FindingID = deterministicID(runID, f.FindingKey, sel.Location)
		out = append(out, f)
	}
	return out
}

func orderErrorScore(res order.Result) float64 {
	if len(res.Matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range res.Matches {
		sum += m.RelError
	}
	mean := sum / float64(len(res.Matches))
	return statx.Clamp(1-mean, 0, 1)
}

// orderSNRScore normalizes the matched points' amplitude-vs-noise-floor
// ratio into [0, 1] for the confidence scorer's base sum. The scale
// divisor (20) is a calibration choice, not a spec-given constant,
// chosen so a matched signal an order of magnitude above the noise
// floor saturates the normalized score.
func orderSNRScore(res order.Result, noiseBaselineG float64) float64 {
	if len(res.Matches) == 0 {
		return 0
	}
	var sumAmp float64
	for _, m := range res.Matches {
		sumAmp += m.AmpG
	}
	meanAmp := sumAmp / float64(len(res.Matches))
	raw := statx.SafeDiv(meanAmp, noiseBaselineG, 1e-9)
	return statx.Clamp(raw/20.0, 0, 1)
}

// isConstantSpeed reports whether every one of this reference's
// matched points falls within a single canonical speed band, as
// distinct from the run-wide steady_speed signal (spec.md §4.6's two
// related but separate speed-stability inputs).
func isConstantSpeed(res order.Result, cfg config.Diagnostics) bool {
	if len(res.Matches) == 0 {
		return false
	}
	speeds := make([]float64, len(res.Matches))
	for i, m := range res.Matches {
		speeds[i] = m.SpeedKmh
	}
	_, uniform := phase.IsUniformSpeed(speeds, cfg.SpeedBinWidthKmh)
	return uniform
}
