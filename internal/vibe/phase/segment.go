package phase

import (
	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// Phase is the driving-phase label assigned to a sample (spec.md §4.2).
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAcceleration Phase = "acceleration"
	PhaseCruise       Phase = "cruise"
	PhaseDeceleration Phase = "deceleration"
	PhaseSpeedUnknown Phase = "speed_unknown"
)

// Segment is a maximal run of consecutive same-phase samples.
type Segment struct {
	Phase       Phase
	StartIdx    int
	EndIdx      int // inclusive
	StartTS     float64
	EndTS       float64
	SpeedMinKmh float64
	SpeedMaxKmh float64
	HasSpeed    bool
}

// ComputeSegments partitions samples into per-sample phases and
// contiguous segments, per the algorithm in spec.md §4.2.
func ComputeSegments(samples []sample.SampleRecord, cfg config.Diagnostics) ([]Phase, []Segment) {
	n := len(samples)
	if n == 0 {
		return nil, nil
	}

	effectiveTS := resolveEffectiveTimestamps(samples)
	phases := make([]Phase, n)
	for i, s := range samples {
		phases[i] = classifySample(samples, effectiveTS, i, s, cfg)
	}

	segments := buildSegments(phases, effectiveTS, samples)
	segments = mergeShortSegments(segments, cfg.PhaseMinSegmentSamples)
	// Re-derive the per-sample phase slice from the merged segments so
	// callers see a phase assignment consistent with the segment list.
	for _, seg := range segments {
		for i := seg.StartIdx; i <= seg.EndIdx; i++ {
			phases[i] = seg.Phase
		}
	}
	return phases, segments
}

// resolveEffectiveTimestamps fills in a monotonically reasonable
// per-sample timestamp even when t_s is absent on some samples, using
// the last known timestamp plus the index delta as a fallback so a
// later segment never reports start_t_s=0.0 just because its own
// first sample lacks a timestamp (spec.md §4.2).
func resolveEffectiveTimestamps(samples []sample.SampleRecord) []float64 {
	n := len(samples)
	out := make([]float64, n)
	lastKnownTS := 0.0
	lastKnownIdx := -1
	haveAny := false
	for i, s := range samples {
		if s.TS != nil {
			out[i] = *s.TS
			lastKnownTS = *s.TS
			lastKnownIdx = i
			haveAny = true
			continue
		}
		if haveAny {
			out[i] = lastKnownTS + float64(i-lastKnownIdx)
		} else {
			out[i] = float64(i)
		}
	}
	return out
}

func classifySample(samples []sample.SampleRecord, ets []float64, i int, s sample.SampleRecord, cfg config.Diagnostics) Phase {
	if s.SpeedKmh == nil {
		return PhaseSpeedUnknown
	}
	speed := *s.SpeedKmh
	if speed <= cfg.IdleSpeedThresholdKmh {
		return PhaseIdle
	}
	slope := smoothedSlope(samples, ets, i, cfg.PhaseWindowSamples)
	switch {
	case slope > cfg.PhaseSlopeThresholdKmhPerS:
		return PhaseAcceleration
	case slope < -cfg.PhaseSlopeThresholdKmhPerS:
		return PhaseDeceleration
	default:
		return PhaseCruise
	}
}

// smoothedSlope estimates d(speed)/d(t) in km/h per second using the
// earliest and latest valid-speed samples within a window of the
// given size centered on i.
func smoothedSlope(samples []sample.SampleRecord, ets []float64, i int, window int) float64 {
	half := window / 2
	lo := i - half
	hi := i + half
	if lo < 0 {
		lo = 0
	}
	if hi >= len(samples) {
		hi = len(samples) - 1
	}

	var firstIdx, lastIdx = -1, -1
	for j := lo; j <= hi; j++ {
		if samples[j].SpeedKmh != nil {
			if firstIdx == -1 {
				firstIdx = j
			}
			lastIdx = j
		}
	}
	if firstIdx == -1 || firstIdx == lastIdx {
		return 0
	}
	dt := ets[lastIdx] - ets[firstIdx]
	if dt <= 0 {
		return 0
	}
	dv := *samples[lastIdx].SpeedKmh - *samples[firstIdx].SpeedKmh
	return dv / dt
}

func buildSegments(phases []Phase, ets []float64, samples []sample.SampleRecord) []Segment {
	var segments []Segment
	start := 0
	for i := 1; i <= len(phases); i++ {
		if i == len(phases) || phases[i] != phases[start] {
			segments = append(segments, makeSegment(phases[start], start, i-1, ets, samples))
			start = i
		}
	}
	return segments
}

func makeSegment(p Phase, start, end int, ets []float64, samples []sample.SampleRecord) Segment {
	seg := Segment{Phase: p, StartIdx: start, EndIdx: end, StartTS: ets[start], EndTS: ets[end]}
	first := true
	for i := start; i <= end; i++ {
		if samples[i].SpeedKmh == nil {
			continue
		}
		v := *samples[i].SpeedKmh
		if first {
			seg.SpeedMinKmh, seg.SpeedMaxKmh = v, v
			seg.HasSpeed = true
			first = false
			continue
		}
		if v < seg.SpeedMinKmh {
			seg.SpeedMinKmh = v
		}
		if v > seg.SpeedMaxKmh {
			seg.SpeedMaxKmh = v
		}
	}
	return seg
}

// mergeShortSegments folds any segment shorter than minLen into
// whichever neighbor is longer (ties favor the previous segment), per
// spec.md §4.2. Runs to a fixed point since a merge can shrink one
// neighbor's effective boundary without changing its length field.
func mergeShortSegments(segments []Segment, minLen int) []Segment {
	if len(segments) <= 1 {
		return segments
	}
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(segments); i++ {
			length := segments[i].EndIdx - segments[i].StartIdx + 1
			if length >= minLen {
				continue
			}
			switch {
			case len(segments) == 1:
				// Nothing to merge into.
			case i == 0:
				segments = mergeInto(segments, i, i+1)
			case i == len(segments)-1:
				segments = mergeInto(segments, i, i-1)
			default:
				prevLen := segments[i-1].EndIdx - segments[i-1].StartIdx + 1
				nextLen := segments[i+1].EndIdx - segments[i+1].StartIdx + 1
				if prevLen >= nextLen {
					segments = mergeInto(segments, i, i-1)
				} else {
					segments = mergeInto(segments, i, i+1)
				}
			}
			changed = true
			break
		}
	}
	return segments
}

// mergeInto merges the segment at index `from` into the segment at
// index `into`, adopting `into`'s phase, and removes `from` from the
// slice.
func mergeInto(segments []Segment, from, into int) []Segment {
	lo, hi := from, into
	if lo > hi {
		lo, hi = hi, lo
	}
	merged := segments[into]
	if segments[from].StartIdx < merged.StartIdx {
		merged.StartIdx = segments[from].StartIdx
		merged.StartTS = segments[from].StartTS
	}
	if segments[from].EndIdx > merged.EndIdx {
		merged.EndIdx = segments[from].EndIdx
		merged.EndTS = segments[from].EndTS
	}
	if segments[from].HasSpeed {
		if !merged.HasSpeed || segments[from].SpeedMinKmh < merged.SpeedMinKmh {
			merged.SpeedMinKmh = segments[from].SpeedMinKmh
		}
		if !merged.HasSpeed || segments[from].SpeedMaxKmh > merged.SpeedMaxKmh {
			merged.SpeedMaxKmh = segments[from].SpeedMaxKmh
		}
		merged.HasSpeed = true
	}

	out := make([]Segment, 0, len(segments)-1)
	for idx, s := range segments {
		if idx == from {
			continue
		}
		if idx == into {
			out = append(out, merged)
			continue
		}
		out = append(out, s)
	}
	return out
}
