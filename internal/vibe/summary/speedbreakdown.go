package summary

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// speedUnknownBandLabel groups samples that never reported a speed,
// sorted after every numeric band (spec.md §3.1, §5).
const speedUnknownBandLabel = "unknown"

// buildSpeedBreakdown bins samples by cfg.SpeedBinWidthKmh-wide speed
// band and summarizes each band's vibration_strength_db distribution,
// sorted by band-start ascending with the speed-unknown band last.
func buildSpeedBreakdown(samples []sample.SampleRecord, cfg config.Diagnostics) []SpeedBreakdownRow {
	type bucket struct {
		label  string
		lower  float64
		known  bool
		values []float64
	}
	buckets := make(map[string]*bucket)

	for _, s := range samples {
		var label string
		var lower float64
		known := s.SpeedKmh != nil
		if known {
			band := phase.BandForSpeed(*s.SpeedKmh, cfg.SpeedBinWidthKmh)
			label, lower = band.Label(), band.LowerKmh
		} else {
			label = speedUnknownBandLabel
		}
		b, ok := buckets[label]
		if !ok {
			b = &bucket{label: label, lower: lower, known: known}
			buckets[label] = b
		}
		b.values = append(b.values, s.VibrationStrengthDB)
	}

	labels := make([]string, 0, len(buckets))
	for l := range buckets {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		bi, bj := buckets[labels[i]], buckets[labels[j]]
		if bi.known != bj.known {
			return bi.known // known bands sort before the unknown bucket
		}
		return bi.lower < bj.lower
	})

	out := make([]SpeedBreakdownRow, 0, len(labels))
	for _, l := range labels {
		b := buckets[l]
		out = append(out, SpeedBreakdownRow{
			SpeedRange: b.label,
			Count:      len(b.values),
			MeanDB:     meanFloat(b.values),
			P95DB:      statx.WeightedPercentile(b.values, nil, 95),
			MaxDB:      maxFloat(b.values),
		})
	}
	return out
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
