package order

import (
	"math"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/units"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// refHzFunc computes a reference frequency in Hz for a given speed in
// km/h, or ok=false when the reference isn't derivable from metadata.
type refHzFunc func(speedKmh float64) (float64, bool)

// buildRefHzFuncs derives the per-reference frequency functions that
// are computable from the available metadata. A reference whose
// dependency chain is incomplete (no tire circumference, no final
// drive ratio, no gear ratio) is simply absent from the returned map
// — the findings builder is responsible for surfacing the
// corresponding REF_WHEEL/REF_ENGINE reference finding.
func buildRefHzFuncs(meta sample.RunMetadata) map[ReferenceKey]refHzFunc {
	out := make(map[ReferenceKey]refHzFunc)

	circ, haveCirc := meta.ResolvedTireCircumferenceM()
	if haveCirc && circ > 0 {
		wheel1x := func(speedKmh float64) (float64, bool) {
			return units.KmhToMps(speedKmh) / circ, true
		}
		out[Wheel1x] = wheel1x
		out[Wheel2x] = func(speedKmh float64) (float64, bool) {
			hz, _ := wheel1x(speedKmh)
			return 2 * hz, true
		}
		out[Wheel3x] = func(speedKmh float64) (float64, bool) {
			hz, _ := wheel1x(speedKmh)
			return 3 * hz, true
		}

		if meta.FinalDriveRatio != nil {
			fdr := *meta.FinalDriveRatio
			driveshaft1x := func(speedKmh float64) (float64, bool) {
				hz, _ := wheel1x(speedKmh)
				return hz * fdr, true
			}
			out[Driveshaft1x] = driveshaft1x
			out[Driveshaft2x] = func(speedKmh float64) (float64, bool) {
				hz, _ := driveshaft1x(speedKmh)
				return 2 * hz, true
			}

			if meta.CurrentGearRatio != nil {
				gr := *meta.CurrentGearRatio
				engine1x := func(speedKmh float64) (float64, bool) {
					hz, _ := driveshaft1x(speedKmh)
					return hz * gr, true
				}
				out[Engine1x] = engine1x
				out[Engine2x] = func(speedKmh float64) (float64, bool) {
					hz, _ := engine1x(speedKmh)
					return 2 * hz, true
				}
			}
		}
	}
	return out
}

// MatchAll runs the order matcher for every reference derivable from
// meta, returning one Result per reference (spec.md §4.4).
func MatchAll(samples []sample.SampleRecord, meta sample.RunMetadata, cfg config.Diagnostics) []Result {
	refFuncs := buildRefHzFuncs(meta)
	if len(refFuncs) == 0 {
		return nil
	}

	possibleTotal := 0
	for _, s := range samples {
		if s.SpeedKmh != nil {
			possibleTotal++
		}
	}

	keys := []ReferenceKey{Wheel1x, Wheel2x, Wheel3x, Driveshaft1x, Driveshaft2x, Engine1x, Engine2x}
	var results []Result
	for _, key := range keys {
		fn, ok := refFuncs[key]
		if !ok {
			continue
		}
		results = append(results, matchReference(key, fn, samples, possibleTotal, cfg))
	}
	return results
}

func matchReference(key ReferenceKey, refHz refHzFunc, samples []sample.SampleRecord, possibleTotal int, cfg config.Diagnostics) Result {
	var matches []MatchPoint
	for i, s := range samples {
		if s.SpeedKmh == nil || len(s.TopPeaks) == 0 {
			continue
		}
		ref, ok := refHz(*s.SpeedKmh)
		if !ok || ref <= 0 {
			continue
		}
		best, bestRelErr, found := closestPeak(s.TopPeaks, ref, cfg.OrderMatchToleranceRel, cfg.EpsilonFrequency)
		if !found {
			continue
		}
		matches = append(matches, MatchPoint{
			SampleIndex:         i,
			SpeedKmh:            *s.SpeedKmh,
			AmpG:                best.AmpVal,
			Location:            s.Location,
			SensorID:            s.ClientID,
			MatchedHz:           best.HzVal,
			RefHz:               ref,
			RelError:            bestRelErr,
			VibrationStrengthDB: s.VibrationStrengthDB,
		})
	}

	res := Result{Key: key, Matches: matches, Matched: len(matches), PossibleTotal: possibleTotal}
	res.EffectiveMatchRate = statx.SafeDiv(float64(len(matches)), float64(maxInt(1, possibleTotal)), cfg.EpsilonAmplitude)
	res.Corr = correlation(matches)
	res.DominanceRatio = dominanceRatio(matches)
	res.AbsoluteStrengthDB = weightedMeanStrengthDB(matches)

	applyFocusedBandRescue(&res, samples, cfg)
	if res.StrongestSpeedBand == "" {
		computeStrongestSpeedBand(&res, cfg)
	}
	return res
}

// closestPeak finds the peak with the smallest relative error to ref,
// among peaks within the relative tolerance window (spec.md §4.4).
func closestPeak(peaks []sample.Peak, ref, tolRel, epsFreq float64) (sample.Peak, float64, bool) {
	var best sample.Peak
	bestErr := math.MaxFloat64
	found := false
	for _, pk := range peaks {
		relErr := math.Abs(pk.HzVal-ref) / math.Max(ref, epsFreq)
		if relErr <= tolRel && relErr < bestErr {
			best = pk
			bestErr = relErr
			found = true
		}
	}
	return best, bestErr, found
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func correlation(matches []MatchPoint) *float64 {
	if len(matches) < 2 {
		return nil
	}
	amps := make([]float64, len(matches))
	speeds := make([]float64, len(matches))
	for i, m := range matches {
		amps[i] = m.AmpG
		speeds[i] = m.SpeedKmh
	}
	res := statx.PearsonCorrelation(amps, speeds)
	if !res.Defined {
		return nil
	}
	v := res.AbsValue
	return &v
}

// dominanceRatio is the ratio of the strongest location's mean matched
// amplitude to the second-strongest, defaulting to 1.0 for a single
// contributing location (spec.md §4.4, §9 open question).
func dominanceRatio(matches []MatchPoint) float64 {
	sums := make(map[sample.Location]float64)
	counts := make(map[sample.Location]int)
	for _, m := range matches {
		sums[m.Location] += m.AmpG
		counts[m.Location]++
	}
	if len(sums) == 0 {
		return 1.0
	}
	means := make([]float64, 0, len(sums))
	for loc, sum := range sums {
		means = append(means, sum/float64(counts[loc]))
	}
	if len(means) == 1 {
		return 1.0
	}
	max1, max2 := 0.0, 0.0
	for _, v := range means {
		if v > max1 {
			max2 = max1
			max1 = v
		} else if v > max2 {
			max2 = v
		}
	}
	if max2 <= 0 {
		return 1.0
	}
	return max1 / max2
}

func weightedMeanStrengthDB(matches []MatchPoint) float64 {
	var sumW, sumWV float64
	for _, m := range matches {
		w := m.AmpG
		sumW += w
		sumWV += w * m.VibrationStrengthDB
	}
	if sumW <= 0 {
		return 0
	}
	return sumWV / sumW
}

// applyFocusedBandRescue substitutes a single high-confidence speed
// band's local match rate for the global effective_match_rate when
// the latter is below 0.25, per the focused-band rescue rule
// (spec.md §4.4).
func applyFocusedBandRescue(res *Result, samples []sample.SampleRecord, cfg config.Diagnostics) {
	if res.EffectiveMatchRate >= 0.25 {
		return
	}
	type bandAgg struct {
		matched, total int
		lo, hi         float64
	}
	bands := make(map[float64]*bandAgg)
	matchedBySample := make(map[int]bool, len(res.Matches))
	for _, m := range res.Matches {
		matchedBySample[m.SampleIndex] = true
	}
	for i, s := range samples {
		if s.SpeedKmh == nil {
			continue
		}
		b := phase.BandForSpeed(*s.SpeedKmh, cfg.SpeedBinWidthKmh)
		agg, ok := bands[b.LowerKmh]
		if !ok {
			agg = &bandAgg{lo: b.LowerKmh, hi: b.UpperKmh}
			bands[b.LowerKmh] = agg
		}
		agg.total++
		if matchedBySample[i] {
			agg.matched++
		}
	}
	var bestRate float64
	var bestAgg *bandAgg
	for _, agg := range bands {
		if agg.total < cfg.RescueMinBandSamples {
			continue
		}
		rate := float64(agg.matched) / float64(agg.total)
		if rate < cfg.RescueMinBandMatchRate {
			continue
		}
		if bestAgg == nil || rate > bestRate {
			bestRate = rate
			bestAgg = agg
		}
	}
	if bestAgg == nil {
		return
	}
	res.RescueApplied = true
	res.EffectiveMatchRate = bestRate
	res.StrongestSpeedBand = phase.SpeedBand{LowerKmh: bestAgg.lo, UpperKmh: bestAgg.hi}.Label()
	res.StrongestSpeedBandLowerKmh = bestAgg.lo
	res.StrongestSpeedBandUpperKmh = bestAgg.hi
}

// computeStrongestSpeedBand picks the 10-km/h band maximizing
// mean(amp)*presence among this reference's matched points (spec.md
// §4.4), and collapses to a single-value label for a uniform-speed run.
func computeStrongestSpeedBand(res *Result, cfg config.Diagnostics) {
	if len(res.Matches) == 0 {
		res.StrongestSpeedBand = "unknown"
		return
	}
	speeds := make([]float64, len(res.Matches))
	for i, m := range res.Matches {
		speeds[i] = m.SpeedKmh
	}
	if band, uniform := phase.IsUniformSpeed(speeds, cfg.SpeedBinWidthKmh); uniform {
		mean := weightedMeanSpeed(res.Matches)
		res.StrongestSpeedBand = phase.UniformSpeedLabel(mean)
		res.StrongestSpeedBandLowerKmh = band.LowerKmh
		res.StrongestSpeedBandUpperKmh = band.UpperKmh
		return
	}

	type bandAgg struct {
		sumAmp float64
		count  int
		lo, hi float64
	}
	bands := make(map[float64]*bandAgg)
	for _, m := range res.Matches {
		b := phase.BandForSpeed(m.SpeedKmh, cfg.SpeedBinWidthKmh)
		agg, ok := bands[b.LowerKmh]
		if !ok {
			agg = &bandAgg{lo: b.LowerKmh, hi: b.UpperKmh}
			bands[b.LowerKmh] = agg
		}
		agg.sumAmp += m.AmpG
		agg.count++
	}
	totalMatches := len(res.Matches)
	var bestScore float64 = -1
	var best *bandAgg
	for _, agg := range bands {
		meanAmp := agg.sumAmp / float64(agg.count)
		presence := float64(agg.count) / float64(totalMatches)
		score := meanAmp * presence
		if score > bestScore {
			bestScore = score
			best = agg
		}
	}
	if best == nil {
		res.StrongestSpeedBand = "unknown"
		return
	}
	res.StrongestSpeedBand = phase.SpeedBand{LowerKmh: best.lo, UpperKmh: best.hi}.Label()
	res.StrongestSpeedBandLowerKmh = best.lo
	res.StrongestSpeedBandUpperKmh = best.hi
}

func weightedMeanSpeed(matches []MatchPoint) float64 {
	var sumW, sumWV float64
	for _, m := range matches {
		w := m.AmpG
		sumW += w
		sumWV += w * m.SpeedKmh
	}
	if sumW <= 0 {
		var sum float64
		for _, m := range matches {
			sum += m.SpeedKmh
		}
		return sum / float64(len(matches))
	}
	return sumWV / sumW
}
