package summary

import (
	"fmt"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/findings"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

const (
	checkSpeedVariation         = "SUITABILITY_CHECK_SPEED_VARIATION"
	checkSensorCoverage         = "SUITABILITY_CHECK_SENSOR_COVERAGE"
	checkReferenceCompleteness = "SUITABILITY_CHECK_REFERENCE_COMPLETENESS"
	checkSaturationAndOutliers  = "SUITABILITY_CHECK_SATURATION_AND_OUTLIERS"
	checkFrameIntegrity         = "SUITABILITY_CHECK_FRAME_INTEGRITY"
)

// isSteadySpeed reports whether the run's speed stays within a
// cfg.SteadySpeedRangeKmh-wide range over at least
// cfg.SteadySpeedFraction of the run: the [p_lo, p_hi] percentile
// range of known speeds, where p_lo/p_hi bracket exactly that
// fraction of the distribution, is narrower than the range (spec.md
// §4.6, §4.8).
func isSteadySpeed(samples []sample.SampleRecord, cfg config.Diagnostics) bool {
	var speeds []float64
	for _, s := range samples {
		if s.SpeedKmh != nil {
			speeds = append(speeds, *s.SpeedKmh)
		}
	}
	if len(speeds) == 0 {
		return false
	}
	tail := (1.0 - cfg.SteadySpeedFraction) / 2.0 * 100.0
	lo := statx.WeightedPercentile(speeds, nil, tail)
	hi := statx.WeightedPercentile(speeds, nil, 100.0-tail)
	return (hi - lo) < cfg.SteadySpeedRangeKmh
}

// computeRunSuitability runs the 5 named suitability checks (spec.md §4.8).
func computeRunSuitability(
	samples []sample.SampleRecord,
	meta sample.RunMetadata,
	referenceFindingCount int,
	accel AccelStatistics,
	cfg config.Diagnostics,
) []SuitabilityCheck {
	out := make([]SuitabilityCheck, 0, 5)

	if isSteadySpeed(samples, cfg) {
		out = append(out, SuitabilityCheck{checkSpeedVariation, StateWarn,
			"speed stayed within a narrow band for most of the run, limiting order-matching coverage"})
	} else {
		out = append(out, SuitabilityCheck{checkSpeedVariation, StatePass, ""})
	}

	distinctLocations := make(map[sample.Location]bool)
	for _, s := range samples {
		distinctLocations[s.Location] = true
	}
	if len(distinctLocations) < cfg.MinSensorLocationsForCoverage {
		out = append(out, SuitabilityCheck{checkSensorCoverage, StateWarn,
			fmt.Sprintf("only %d sensor location(s) produced samples, below the %d needed for reliable localization", len(distinctLocations), cfg.MinSensorLocationsForCoverage)})
	} else {
		out = append(out, SuitabilityCheck{checkSensorCoverage, StatePass, ""})
	}

	if referenceFindingCount > 0 {
		out = append(out, SuitabilityCheck{checkReferenceCompleteness, StateWarn,
			"one or more required inputs is missing, degrading downstream detection"})
	} else {
		out = append(out, SuitabilityCheck{checkReferenceCompleteness, StatePass, ""})
	}

	if _, ok := meta.SensorFullScaleG(); ok && accel.anySaturated() {
		out = append(out, SuitabilityCheck{checkSaturationAndOutliers, StateWarn,
			"one or more accelerometer axes reached the sensor's full-scale range during the run"})
	} else {
		out = append(out, SuitabilityCheck{checkSaturationAndOutliers, StatePass, ""})
	}

	if hasFrameIntegrityIssue(samples) {
		out = append(out, SuitabilityCheck{checkFrameIntegrity, StateWarn,
			"one or more sensors dropped frames or overflowed their queue during the run"})
	} else {
		out = append(out, SuitabilityCheck{checkFrameIntegrity, StatePass, ""})
	}

	return out
}

// hasFrameIntegrityIssue accumulates each sensor's monotonic drop
// counters, restarting the accumulator whenever a strictly-decreasing
// reading signals a counter reset (spec.md §4.8).
func hasFrameIntegrityIssue(samples []sample.SampleRecord) bool {
	type track struct {
		lastFrames, minFrames, maxFrames int64
		lastQueue, minQueue, maxQueue     int64
		closed                            int64 // drops counted in windows ended by a reset
		seen                              bool
	}
	bySensor := make(map[string]*track)

	for _, s := range samples {
		t, ok := bySensor[s.ClientID]
		if !ok {
			t = &track{}
			bySensor[s.ClientID] = t
		}
		if !t.seen {
			t.minFrames, t.maxFrames = s.FramesDroppedTotal, s.FramesDroppedTotal
			t.minQueue, t.maxQueue = s.QueueOverflowDrops, s.QueueOverflowDrops
			t.seen = true
		} else {
			if s.FramesDroppedTotal < t.lastFrames {
				t.closed += t.maxFrames - t.minFrames
				t.minFrames, t.maxFrames = s.FramesDroppedTotal, s.FramesDroppedTotal
			} else {
				if s.FramesDroppedTotal < t.minFrames {
					t.minFrames = s.FramesDroppedTotal
				}
				if s.FramesDroppedTotal > t.maxFrames {
					t.maxFrames = s.FramesDroppedTotal
				}
			}
			if s.QueueOverflowDrops < t.lastQueue {
				t.closed += t.maxQueue - t.minQueue
				t.minQueue, t.maxQueue = s.QueueOverflowDrops, s.QueueOverflowDrops
			} else {
				if s.QueueOverflowDrops < t.minQueue {
					t.minQueue = s.QueueOverflowDrops
				}
				if s.QueueOverflowDrops > t.maxQueue {
					t.maxQueue = s.QueueOverflowDrops
				}
			}
		}
		t.lastFrames = s.FramesDroppedTotal
		t.lastQueue = s.QueueOverflowDrops
	}

	var total int64
	for _, t := range bySensor {
		total += t.closed + (t.maxFrames - t.minFrames) + (t.maxQueue - t.minQueue)
	}
	return total >= 1
}

// referenceFindingCount counts REF_* findings in a findings list.
func referenceFindingCount(all []findings.Finding) int {
	n := 0
	for _, f := range all {
		if f.FindingType == findings.TypeReference {
			n++
		}
	}
	return n
}
