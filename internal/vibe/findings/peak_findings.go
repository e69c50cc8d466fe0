package findings

import (
	"fmt"
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/confidence"
	"github.com/banshee-data/shakedown/internal/vibe/localize"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

func sourceForClassification(c statx.Classification) string {
	switch c {
	case statx.ClassTransient:
		return "transient_impact"
	case statx.ClassPatterned:
		return "patterned_resonance"
	case statx.ClassPersistent:
		return "patterned_resonance"
	default:
		return "unknown"
	}
}

func findingTypeForClassification(c statx.Classification) Type {
	if c == statx.ClassTransient {
		return TypeTransient
	}
	return TypePersistentPeak
}

// orderClaimedBins collects the frequency of every order finding's
// matched bin, used to exclude persistent-peak findings that duplicate
// an order finding already built from the same evidence (spec.md §4.7).
func orderClaimedBins(results []order.Result) []float64 {
	var out []float64
	for _, res := range results {
		for _, m := range res.Matches {
			out = append(out, m.MatchedHz)
		}
	}
	return out
}

func isClaimedByOrder(freqHz float64, claimed []float64) bool {
	for _, c := range claimed {
		if abs(freqHz-c) <= 1.5 {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// buildPeakFindings emits up to cfg.MaxPersistentPeakFindings findings
// for frequency bins not already claimed by an order finding (spec.md §4.7).
func buildPeakFindings(runID string, bins []statx.BinStats, samples []sample.SampleRecord, orderResults []order.Result, perSamplePhase []phase.Phase, noiseBaselineG float64, steadySpeed bool, cfg config.Diagnostics) []Finding {
	claimed := orderClaimedBins(orderResults)

	// Bins are already ordered by increasing frequency; rank candidates
	// by SNR desc so the strongest unclaimed bins are emitted first.
	candidates := make([]statx.BinStats, 0, len(bins))
	for _, b := range bins {
		if b.Classification == statx.ClassBaselineNoise {
			continue
		}
		if isClaimedByOrder(b.FrequencyHz, claimed) {
			continue
		}
		candidates = append(candidates, b)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SNR > candidates[j].SNR
	})
	if len(candidates) > cfg.MaxPersistentPeakFindings {
		candidates = candidates[:cfg.MaxPersistentPeakFindings]
	}

	var out []Finding
	for _, b := range candidates {
		out = append(out, buildOnePeakFinding(runID, b, samples, perSamplePhase, noiseBaselineG, steadySpeed, cfg))
	}
	return out
}

func buildOnePeakFinding(runID string, b statx.BinStats, samples []sample.SampleRecord, perSamplePhase []phase.Phase, noiseBaselineG float64, steadySpeed bool, cfg config.Diagnostics) Finding {
	source := sourceForClassification(b.Classification)

	locAmps := make(map[sample.Location][]float64)
	indices := make([]int, 0, len(b.Matches))
	var speeds []float64
	for _, m := range b.Matches {
		indices = append(indices, m.SampleIndex)
		if m.SampleIndex < 0 || m.SampleIndex >= len(samples) {
			continue
		}
		s := samples[m.SampleIndex]
		locAmps[s.Location] = append(locAmps[s.Location], m.AmpG)
		if s.SpeedKmh != nil {
			speeds = append(speeds, *s.SpeedKmh)
		}
	}

	meanAmps := make(map[sample.Location]float64, len(locAmps))
	for loc, amps := range locAmps {
		meanAmps[loc] = meanOf(amps)
	}
	sel := localize.SelectFromAmplitudes(meanAmps, source, cfg)
	strongestLocation, dominanceRatio, weakSeparation, nConnected := sel.Location, sel.DominanceRatio, sel.WeakSpatialSeparation, sel.NConnectedLocations

	speedBand := "unknown"
	if len(speeds) > 0 {
		if band, uniform := phase.IsUniformSpeed(speeds, cfg.SpeedBinWidthKmh); uniform {
			speedBand = phase.UniformSpeedLabel(meanOf(speeds))
			_ = band
		} else {
			speedBand = amplitudeWeightedSpeedBand(b, samples, cfg)
		}
	}

	phaseEvidence := buildPhaseEvidence(indices, perSamplePhase)
	constantSpeed := len(speeds) > 0
	if constantSpeed {
		_, constantSpeed = phase.IsUniformSpeed(speeds, cfg.SpeedBinWidthKmh)
	}

	localizationConfidence := sel.LocalizationConfidence

	in := confidence.Inputs{
		EffectiveMatchRate:     b.PresenceRatio,
		ErrorScore:             1.0,
		CorrVal:                0,
		CorrDefined:            false,
		SNRScore:               statx.Clamp(b.SNR/20.0, 0, 1),
		AbsoluteStrengthDB:     weightedMeanDB(b, samples),
		LocalizationConfidence: localizationConfidence,
		WeakSpatialSeparation:  weakSeparation,
		DominanceRatio:         dominanceRatio,
		ConstantSpeed:          constantSpeed,
		SteadySpeed:            steadySpeed,
		Matched:                len(b.Matches),
		CorroboratingLocations: nConnected,
		PhasesWithEvidence:     len(phaseEvidence.PhasesDetected),
		NConnectedLocations:    nConnected,
		DiffusePenalty:         1.0,
		PathCompliance:         1.0,
	}
	value, label, _ := confidence.Score(in, cfg)
	if b.Classification == statx.ClassTransient && value > cfg.TransientConfidenceCap {
		value = cfg.TransientConfidenceCap
	}

	findingKey := fmt.Sprintf("%s_%s", string(b.Classification), formatFreqKey(b.FrequencyHz))
	if b.Classification == statx.ClassTransient {
		findingKey = "transient_impact"
	}

	f := Finding{
		FindingKey:            findingKey,
		FindingType:           findingTypeForClassification(b.Classification),
		SuspectedSource:       source,
		PeakClassification:    string(b.Classification),
		StrongestLocation:     strongestLocation,
		PrimaryLocation:       string(sel.PrimaryLocation),
		AlternativeLocations:  altLocationStrings(sel.AlternativeLocations),
		StrongestSpeedBand:    speedBand,
		ConfidenceValue:       &value,
		ConfidenceLabel:       string(label),
		PhaseEvidence:         phaseEvidence,
		DominanceRatio:        dominanceRatio,
		WeakSpatialSeparation: weakSeparation,
		FrequencyHzOrOrder:    fmt.Sprintf("%.1f Hz", b.FrequencyHz),
		EvidenceMetrics: EvidenceMetrics{
			EffectiveMatchRate:     b.PresenceRatio,
			SNR:                    b.SNR,
			AbsoluteStrengthDB:     weightedMeanDB(b, samples),
			LocalizationConfidence: localizationConfidence,
		},
	}
	f.FindingID = deterministicID(runID, f.FindingKey, strongestLocation)
	return f
}

func formatFreqKey(hz float64) string {
	return fmt.Sprintf("%d_%d", int(hz), int((hz-float64(int(hz)))*10))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func weightedMeanDB(b statx.BinStats, samples []sample.SampleRecord) float64 {
	var sumW, sumWV float64
	for _, m := range b.Matches {
		if m.SampleIndex < 0 || m.SampleIndex >= len(samples) {
			continue
		}
		w := m.AmpG
		sumW += w
		sumWV += w * samples[m.SampleIndex].VibrationStrengthDB
	}
	if sumW <= 0 {
		return 0
	}
	return sumWV / sumW
}

func amplitudeWeightedSpeedBand(b statx.BinStats, samples []sample.SampleRecord, cfg config.Diagnostics) string {
	type bandAgg struct {
		sumAmp float64
		count  int
		lo, hi float64
	}
	bands := make(map[float64]*bandAgg)
	for _, m := range b.Matches {
		if m.SampleIndex < 0 || m.SampleIndex >= len(samples) {
			continue
		}
		s := samples[m.SampleIndex]
		if s.SpeedKmh == nil {
			continue
		}
		band := phase.BandForSpeed(*s.SpeedKmh, cfg.SpeedBinWidthKmh)
		agg, ok := bands[band.LowerKmh]
		if !ok {
			agg = &bandAgg{lo: band.LowerKmh, hi: band.UpperKmh}
			bands[band.LowerKmh] = agg
		}
		agg.sumAmp += m.AmpG
		agg.count++
	}
	if len(bands) == 0 {
		return "unknown"
	}
	totalMatches := len(b.Matches)
	var best *bandAgg
	var bestScore float64 = -1
	for _, agg := range bands {
		score := (agg.sumAmp / float64(agg.count)) * (float64(agg.count) / float64(totalMatches))
		if score > bestScore {
			bestScore = score
			best = agg
		}
	}
	return phase.SpeedBand{LowerKmh: best.lo, UpperKmh: best.hi}.Label()
}

// altLocationStrings converts a Selection's alternative-location pool
// into the plain strings Finding.AlternativeLocations carries.
func altLocationStrings(locs []sample.Location) []string {
	if len(locs) == 0 {
		return nil
	}
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = string(l)
	}
	return out
}

