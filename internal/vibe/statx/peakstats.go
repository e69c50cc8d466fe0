package statx

import (
	"math"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// Classification is the peak-behavior class assigned to a frequency
// bin by Classify (spec.md §4.3).
type Classification string

const (
	ClassBaselineNoise Classification = "baseline_noise"
	ClassTransient     Classification = "transient"
	ClassPatterned     Classification = "patterned"
	ClassPersistent    Classification = "persistent"
)

// BinMatch records one sample's contribution to a frequency bin: the
// sample's index (so callers can look up its speed/location) and the
// amplitude of its strongest peak landing in the bin.
type BinMatch struct {
	SampleIndex int
	AmpG        float64
}

// BinStats is the full per-1Hz-bin statistic set spec.md §4.3 requires.
type BinStats struct {
	FrequencyHz       float64
	PresenceRatio     float64
	MedianAmpG        float64
	P95AmpG           float64
	MaxAmpG           float64
	Burstiness        float64
	SNR               float64
	SpatialUniformity float64
	Classification    Classification
	Matches           []BinMatch
}

// RunNoiseBaselineG estimates the run-wide noise floor as the 20th
// percentile of strength_floor_amp_g across samples that carry one,
// falling back to the configured default when none do (spec.md §4.3).
func RunNoiseBaselineG(samples []sample.SampleRecord, cfg config.Diagnostics) float64 {
	floors := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.StrengthFloorAmpG != nil {
			floors = append(floors, *s.StrengthFloorAmpG)
		}
	}
	if len(floors) == 0 {
		return cfg.DefaultNoiseFloorG
	}
	return WeightedPercentile(floors, nil, cfg.RunNoiseBaselinePercentile)
}

// ComputeBinStats sweeps every 1Hz bin in
// [cfg.MinAnalysisFrequencyHz, cfg.MaxAnalysisFrequencyHz) and returns
// statistics for every bin that has at least one matching sample.
// Bins with zero presence carry no diagnostic evidence and are
// omitted, matching the intent of spec.md §4.3 (a bin nobody excited
// classifies as baseline noise trivially and need not be materialized).
func ComputeBinStats(samples []sample.SampleRecord, noiseBaselineG float64, cfg config.Diagnostics) []BinStats {
	if len(samples) == 0 {
		return nil
	}
	loBin := int(cfg.MinAnalysisFrequencyHz)
	hiBin := int(cfg.MaxAnalysisFrequencyHz)

	locTotals := make(map[sample.Location]int)
	for _, s := range samples {
		locTotals[s.Location]++
	}

	out := make([]BinStats, 0, hiBin-loBin)
	for bin := loBin; bin < hiBin; bin++ {
		lo := float64(bin)
		hi := lo + 1.0
		matches := make([]BinMatch, 0)
		locMatched := make(map[sample.Location]int)
		for i, s := range samples {
			best := 0.0
			found := false
			for _, pk := range s.TopPeaks {
				if pk.HzVal >= lo && pk.HzVal < hi && pk.AmpVal > best {
					best = pk.AmpVal
					found = true
				}
			}
			if found {
				matches = append(matches, BinMatch{SampleIndex: i, AmpG: best})
				locMatched[s.Location]++
			}
		}
		if len(matches) == 0 {
			continue
		}
		amps := make([]float64, len(matches))
		for i, m := range matches {
			amps[i] = m.AmpG
		}
		presence := float64(len(matches)) / float64(len(samples))
		median := Median(amps)
		p95 := WeightedPercentile(amps, nil, 95)
		maxAmp := 0.0
		for _, a := range amps {
			if a > maxAmp {
				maxAmp = a
			}
		}
		burstiness := SafeDiv(maxAmp, median, cfg.EpsilonAmplitude)
		if burstiness < 1 {
			burstiness = 1
		}
		snr := SafeDiv(p95, noiseBaselineG, cfg.EpsilonAmplitude)
		uniformity := spatialUniformity(locTotals, locMatched)

		bs := BinStats{
			FrequencyHz:       lo,
			PresenceRatio:     presence,
			MedianAmpG:        median,
			P95AmpG:           p95,
			MaxAmpG:           maxAmp,
			Burstiness:        burstiness,
			SNR:               snr,
			SpatialUniformity: uniformity,
			Matches:           matches,
		}
		bs.Classification = Classify(presence, burstiness, snr, uniformity, cfg)
		out = append(out, bs)
	}
	return out
}

// spatialUniformity computes the coefficient-of-variation-inverted
// uniformity of per-location presence rates (spec.md §4.3): 1.0 when
// every sensor location sees the bin equally often, trending toward 0
// as rates diverge.
func spatialUniformity(locTotals, locMatched map[sample.Location]int) float64 {
	rates := make([]float64, 0, len(locTotals))
	for loc, total := range locTotals {
		if total == 0 {
			continue
		}
		rates = append(rates, float64(locMatched[loc])/float64(total))
	}
	if len(rates) == 0 {
		return 1.0
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	mean := sum / float64(len(rates))
	if mean == 0 {
		return 1.0
	}
	var variance float64
	for _, r := range rates {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rates))
	stddev := math.Sqrt(variance)
	return Clamp(1.0-stddev/mean, 0, 1)
}

// Classify implements the ordered classification rules of spec.md §4.3.
func Classify(presenceRatio, burstiness, snr, spatialUniformity float64, cfg config.Diagnostics) Classification {
	switch {
	case snr < cfg.SNRBaselineMax:
		return ClassBaselineNoise
	case spatialUniformity >= cfg.SpatialUniformityBaselineMin && presenceRatio >= cfg.PresenceRatioPatternedMin:
		return ClassBaselineNoise
	case presenceRatio < cfg.PresenceRatioTransientMax:
		return ClassTransient
	case burstiness > cfg.BurstinessTransientMin:
		return ClassTransient
	case presenceRatio >= cfg.PresenceRatioPatternedMin && burstiness <= cfg.BurstinessPatternedMax:
		return ClassPatterned
	default:
		return ClassPersistent
	}
}
