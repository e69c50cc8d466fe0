package findings

import "github.com/banshee-data/shakedown/internal/vibe/sample"

// buildReferenceFindings emits REF_* findings for missing inputs that
// degrade downstream detection (spec.md §4.7). These never carry a
// confidence value; they surface as warnings rather than faults.
func buildReferenceFindings(runID string, meta sample.RunMetadata, samples []sample.SampleRecord) []Finding {
	var out []Finding

	if speedMissingFraction(samples) > 0.50 {
		out = append(out, refFinding(runID, "REF_SPEED",
			"no reliable speed reference: more than half the samples lack a speed reading",
			[]string{
				"confirm the speed sensor or GPS feed is connected for the full run",
				"re-run with manual speed entry if GPS coverage is poor",
				"check for a loose or misconfigured speed source override",
			}))
	}

	if meta.RawSampleRateHz == nil {
		out = append(out, refFinding(runID, "REF_SAMPLE_RATE",
			"raw sample rate was not supplied, so bin resolution and Nyquist checks are approximate",
			[]string{
				"supply raw_sample_rate_hz from the sensor firmware configuration",
				"confirm all sensors in the run share one sample rate",
			}))
	}

	if _, ok := meta.ResolvedTireCircumferenceM(); !ok {
		out = append(out, refFinding(runID, "REF_WHEEL",
			"tire circumference could not be derived, so wheel-order matching is disabled",
			[]string{
				"supply tire_circumference_m directly",
				"or supply tire_width_mm, tire_aspect_pct, and rim_in together",
				"check the tire sidewall markings against the vehicle's configured values",
			}))
	}

	if meta.FinalDriveRatio == nil || meta.CurrentGearRatio == nil {
		out = append(out, refFinding(runID, "REF_ENGINE",
			"final drive or current gear ratio is missing, so engine- and driveshaft-order matching is disabled",
			[]string{
				"supply final_drive_ratio from the vehicle's specification sheet",
				"supply current_gear_ratio for the gear engaged during the run",
			}))
	}

	return out
}

func speedMissingFraction(samples []sample.SampleRecord) float64 {
	if len(samples) == 0 {
		return 1.0
	}
	missing := 0
	for _, s := range samples {
		if s.SpeedKmh == nil {
			missing++
		}
	}
	return float64(missing) / float64(len(samples))
}

func refFinding(runID, key, explanation string, suggestions []string) Finding {
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	f := Finding{
		FindingKey:            key,
		FindingType:           TypeReference,
		SuspectedSource:       "unknown",
		FrequencyHzOrOrder:    explanation,
		QuickCheckSuggestions: suggestions,
	}
	f.FindingID = "REF_" + deterministicID(runID, key)
	return f
}
