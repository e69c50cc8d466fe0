package summary

import (
	"math"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// computeAccelStatistics derives per-axis mean/variance/saturation and
// the vector-magnitude series (spec.md §4.8). saturationThresholdG is
// the absolute-value threshold above which a reading counts as
// saturated; thresholdKnown is false when the sensor model is
// unrecognized, in which case saturation counts are left at zero.
func computeAccelStatistics(samples []sample.SampleRecord, meta sample.RunMetadata, cfg config.Diagnostics) AccelStatistics {
	thresholdG, thresholdKnown := meta.SensorFullScaleG()
	if thresholdKnown {
		thresholdG *= cfg.SaturationFraction
	}

	var xs, ys, zs []float64
	var satX, satY, satZ int
	var magnitudes []float64

	for _, s := range samples {
		if s.AccelXG != nil {
			xs = append(xs, *s.AccelXG)
			if thresholdKnown && math.Abs(*s.AccelXG) >= thresholdG {
				satX++
			}
		}
		if s.AccelYG != nil {
			ys = append(ys, *s.AccelYG)
			if thresholdKnown && math.Abs(*s.AccelYG) >= thresholdG {
				satY++
			}
		}
		if s.AccelZG != nil {
			zs = append(zs, *s.AccelZG)
			if thresholdKnown && math.Abs(*s.AccelZG) >= thresholdG {
				satZ++
			}
		}
		if s.AccelXG != nil && s.AccelYG != nil && s.AccelZG != nil {
			x, y, z := *s.AccelXG, *s.AccelYG, *s.AccelZG
			magnitudes = append(magnitudes, math.Sqrt(x*x+y*y+z*z))
		}
	}

	return AccelStatistics{
		X:            axisStatsOf(xs, satX),
		Y:            axisStatsOf(ys, satY),
		Z:            axisStatsOf(zs, satZ),
		VibMagnitude: magnitudes,
	}
}

func axisStatsOf(values []float64, saturationCount int) AxisStats {
	if len(values) == 0 {
		return AxisStats{SaturationCount: saturationCount}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return AxisStats{MeanG: mean, VarianceG: variance, SaturationCount: saturationCount}
}

// anySaturated reports whether any axis saturated at least once, for
// the suitability check (spec.md §4.8's SUITABILITY_CHECK_SATURATION_AND_OUTLIERS).
func (a AccelStatistics) anySaturated() bool {
	return a.X.SaturationCount > 0 || a.Y.SaturationCount > 0 || a.Z.SaturationCount > 0
}
