package plots

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
)

// SpeedAmpBin is one speed-bucket of a reference's matched-amplitude
// series (spec.md §6).
type SpeedAmpBin struct {
	SpeedBandLowerKmh float64
	SpeedBandLabel    string
	MeanAmpG          float64
	SampleCount       int
}

// ReferenceSpeedSeries is one reference's matched_amp_vs_speed series.
type ReferenceSpeedSeries struct {
	ReferenceKey order.ReferenceKey
	Bins         []SpeedAmpBin
}

// BuildMatchedAmpVsSpeed bins every reference's matched points by
// cfg.SpeedVsAmpBinWidthKmh-wide speed bands, sorted by band-start
// ascending (spec.md §5, §6).
func BuildMatchedAmpVsSpeed(results []order.Result, cfg config.Diagnostics) []ReferenceSpeedSeries {
	out := make([]ReferenceSpeedSeries, 0, len(results))
	for _, res := range results {
		type agg struct {
			sumAmp float64
			count  int
			band   phase.SpeedBand
		}
		bands := make(map[float64]*agg)
		for _, m := range res.Matches {
			band := phase.BandForSpeed(m.SpeedKmh, cfg.SpeedVsAmpBinWidthKmh)
			a, ok := bands[band.LowerKmh]
			if !ok {
				a = &agg{band: band}
				bands[band.LowerKmh] = a
			}
			a.sumAmp += m.AmpG
			a.count++
		}

		lowers := make([]float64, 0, len(bands))
		for lo := range bands {
			lowers = append(lowers, lo)
		}
		sort.Float64s(lowers)

		bins := make([]SpeedAmpBin, 0, len(lowers))
		for _, lo := range lowers {
			a := bands[lo]
			bins = append(bins, SpeedAmpBin{
				SpeedBandLowerKmh: lo,
				SpeedBandLabel:    a.band.Label(),
				MeanAmpG:          a.sumAmp / float64(a.count),
				SampleCount:       a.count,
			})
		}
		out = append(out, ReferenceSpeedSeries{ReferenceKey: res.Key, Bins: bins})
	}
	return out
}
