package sample

import (
	"time"
)

// RawRecord is a heterogeneous, JSON-decoded record: the shape
// collaborators hand the normalizer before it has been coerced into a
// canonical RunMetadata or SampleRecord. Using map[string]any (rather
// than a fixed struct) is what lets legacy records carry aliased or
// extra fields without failing decode — the normalizer is the single
// place that resolves ambiguity.
type RawRecord map[string]any

const minAnalysisFrequencyHz = 5.0
const maxTopPeaks = 10

// NormalizeMetadata applies the coercion rules of spec.md §4.1 to a
// raw metadata record. It raises InvalidMetadataError only when the
// top-level input itself is not record-shaped or lacks a run_id;
// every other field degrades independently.
func NormalizeMetadata(raw RawRecord) (RunMetadata, error) {
	if raw == nil {
		return RunMetadata{}, &InvalidMetadataError{Reason: "metadata is nil"}
	}
	runID := coerceString(raw["run_id"])
	if runID == "" {
		return RunMetadata{}, &InvalidMetadataError{Reason: "run_id is required"}
	}

	meta := RunMetadata{
		RunID:              runID,
		StartTimeUTC:       parseTimestamp(raw["start_time_utc"], time.Time{}),
		RawSampleRateHz:    coerceFloat(raw["raw_sample_rate_hz"]),
		TireCircumferenceM: coerceFloat(raw["tire_circumference_m"]),
		TireWidthMM:        coerceFloat(raw["tire_width_mm"]),
		TireAspectPct:      coerceFloat(raw["tire_aspect_pct"]),
		RimIn:              coerceFloat(raw["rim_in"]),
		FinalDriveRatio:    coerceFloat(raw["final_drive_ratio"]),
		CurrentGearRatio:   coerceFloat(raw["current_gear_ratio"]),
		SensorModel:        coerceString(raw["sensor_model"]),
		Language:           coerceString(raw["language"]),
	}
	if meta.Language == "" {
		meta.Language = "en"
	}
	if end := parseTimestampPtr(raw["end_time_utc"]); end != nil {
		meta.EndTimeUTC = end
	}
	return meta, nil
}

// parseTimestampPtr parses an optional ISO 8601 timestamp, returning
// nil when the field is absent or unparseable.
func parseTimestampPtr(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	t, ok := parseISO8601(s)
	if !ok {
		return nil
	}
	return &t
}

// parseTimestamp is parseTimestampPtr with a fallback default.
func parseTimestamp(v any, def time.Time) time.Time {
	if t := parseTimestampPtr(v); t != nil {
		return *t
	}
	return def
}

// parseISO8601 parses an ISO 8601 timestamp. Naive timestamps (no
// offset) are treated as UTC; timestamps carrying an explicit offset
// preserve it, so subtracting a naive and an aware timestamp never
// fails (spec.md §4.1) — every parsed time.Time carries an explicit
// location, never the ambiguous local zone.
func parseISO8601(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Location() == time.UTC || layout == time.RFC3339 || layout == time.RFC3339Nano {
				return t, true
			}
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeSample applies the coercion rules of spec.md §3.1/§4.1 to a
// raw sample record, producing the canonical SampleRecord. Unlike
// NormalizeMetadata this never raises: every field degrades
// independently to its absent form.
func NormalizeSample(raw RawRecord) SampleRecord {
	rec := SampleRecord{
		TS:                  coerceFloat(raw["t_s"]),
		ClientID:            coerceString(raw["client_id"]),
		ClientName:          coerceString(raw["client_name"]),
		Location:            CanonicalizeLocation(coerceString(raw["location"])),
		SpeedKmh:            coerceFloat(raw["speed_kmh"]),
		AccelXG:             coerceFloat(raw["accel_x_g"]),
		AccelYG:             coerceFloat(raw["accel_y_g"]),
		AccelZG:             coerceFloat(raw["accel_z_g"]),
		StrengthFloorAmpG:   coerceFloat(raw["strength_floor_amp_g"]),
		FramesDroppedTotal:  coerceInt(raw["frames_dropped_total"]),
		QueueOverflowDrops:  coerceInt(raw["queue_overflow_drops"]),
		SpeedSource:         normalizeSpeedSource(raw["speed_source"]),
	}
	if rec.ClientName == "" {
		rec.ClientName = coerceString(raw["location"])
	}
	// vibration_strength_db = 0.0 is a valid measurement, never a
	// sentinel for "missing" (spec.md §3.1) — an explicit nil check,
	// defaulting only when the field is truly absent.
	if f := coerceFloat(raw["vibration_strength_db"]); f != nil {
		rec.VibrationStrengthDB = *f
	}
	if rec.SpeedKmh == nil {
		rec.SpeedSource = SpeedSourceMissing
	}
	rec.TopPeaks = normalizeTopPeaks(raw["top_peaks"])
	return rec
}

func normalizeSpeedSource(v any) SpeedSource {
	switch coerceString(v) {
	case string(SpeedSourceGPS):
		return SpeedSourceGPS
	case string(SpeedSourceManual):
		return SpeedSourceManual
	case string(SpeedSourceOverride):
		return SpeedSourceOverride
	default:
		return SpeedSourceMissing
	}
}

// normalizeTopPeaks drops entries whose hz is non-finite, <= 0, or
// below the minimum analysis frequency; drops entries whose amp is
// non-finite or <= 0; drops non-object entries; and truncates to the
// first 10 survivors in input order (spec.md §3.1, §4.1).
func normalizeTopPeaks(v any) []Peak {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Peak, 0, maxTopPeaks)
	for _, item := range items {
		if len(out) >= maxTopPeaks {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		hz := coerceFloat(obj["hz"])
		amp := coerceFloat(obj["amp"])
		if hz == nil || *hz <= 0 || *hz < minAnalysisFrequencyHz {
			continue
		}
		if amp == nil || *amp <= 0 {
			continue
		}
		out = append(out, Peak{HzVal: *hz, AmpVal: *amp})
	}
	return out
}
