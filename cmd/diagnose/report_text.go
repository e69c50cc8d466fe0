package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/shakedown/internal/units"
	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

// writeTextSummary prints a short human-readable report, converting
// every km/h figure to speedUnit for display only — the pipeline
// itself always reasons in km/h (spec.md §3.1); this is a presentation
// concern, the same role internal/api's --speed-unit handling plays
// for the transit/radar reports.
func writeTextSummary(w io.Writer, out summary.AnalysisSummary, speedUnit string) {
	fmt.Fprintf(w, "run %s (%s)\n", out.RunID, out.ReportDate)
	fmt.Fprintf(w, "  duration=%s samples=%d sensors=%d locations=%s\n",
		out.DurationText, out.SampleCount, out.SensorCountUsed, strings.Join(out.SensorLocations, ", "))

	fmt.Fprintf(w, "  most likely origin: %s @ %s (band %s, confidence %s, certainty tier %s)\n",
		out.MostLikelyOrigin.Source,
		out.MostLikelyOrigin.Location,
		speedBandInUnit(out.MostLikelyOrigin.SpeedBand, speedUnit),
		confidenceText(out.MostLikelyOrigin.Confidence),
		out.CertaintyTierKey,
	)

	if len(out.Warnings) > 0 {
		fmt.Fprintln(w, "  run suitability warnings:")
		for _, warning := range out.Warnings {
			fmt.Fprintf(w, "    - %s\n", warning)
		}
	}

	fmt.Fprintln(w, "  speed breakdown:")
	for _, row := range out.SpeedBreakdown {
		fmt.Fprintf(w, "    %-16s n=%-5d mean=%6.1fdB p95=%6.1fdB max=%6.1fdB\n",
			speedBandInUnit(row.SpeedRange, speedUnit), row.Count, row.MeanDB, row.P95DB, row.MaxDB)
	}
}

func confidenceText(c *float64) string {
	if c == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *c)
}

// speedBandInUnit rewrites a "<lo>-<hi> km/h" range or a "<v> km/h"
// uniform-speed label (phase.SpeedBand.Label / phase.UniformSpeedLabel)
// into the requested display unit. A label that doesn't parse (e.g.
// "unknown") passes through unchanged.
func speedBandInUnit(label, unit string) string {
	if label == "" || label == "unknown" || !units.IsValid(unit) || unit == units.KMPH || unit == units.KPH {
		return label
	}
	body := strings.TrimSuffix(label, " km/h")
	if body == label {
		return label
	}
	if lo, hi, ok := parseKmhRange(body); ok {
		return fmt.Sprintf("%.0f-%.0f %s", units.ConvertSpeed(lo/3.6, unit), units.ConvertSpeed(hi/3.6, unit), unit)
	}
	if v, err := parseFloatStrict(body); err == nil {
		return fmt.Sprintf("%.0f %s", units.ConvertSpeed(v/3.6, unit), unit)
	}
	return label
}

func parseKmhRange(body string) (lo, hi float64, ok bool) {
	parts := strings.SplitN(body, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var err error
	if lo, err = parseFloatStrict(parts[0]); err != nil {
		return 0, 0, false
	}
	if hi, err = parseFloatStrict(parts[1]); err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func parseFloatStrict(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &v)
	return v, err
}
