// Command diagnose runs the vibration-diagnostics pipeline over a
// recorded run fixture and writes an AnalysisSummary report. It mirrors
// cmd/sweep's flag-based "load fixture, run pipeline, write report"
// shape, offline rather than against a live monitor endpoint.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/monitoring"
	"github.com/banshee-data/shakedown/internal/units"
	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

func main() {
	fixturePath := flag.String("fixture", "", "path to a run fixture JSON file ({\"metadata\":..., \"samples\":[...]})")
	configPath := flag.String("config", "", "path to a diagnostics config overlay JSON file (optional)")
	format := flag.String("format", "text", "report format: text, json, html, png")
	output := flag.String("output", "", "output path (file for json/html; directory for png; stdout for json when empty; ignored for text, which always goes to stdout)")
	speedUnit := flag.String("speed-unit", units.KMPH, "display unit for speeds in the text report: "+units.GetValidUnitsString())
	flag.Parse()

	if *fixturePath == "" {
		log.Fatal("missing required -fixture flag")
	}
	if !units.IsValid(*speedUnit) {
		log.Fatalf("invalid -speed-unit %q: must be one of %s", *speedUnit, units.GetValidUnitsString())
	}

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	meta, samples, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("loading fixture: %v", err)
	}
	monitoring.Logf("diagnose: loaded run %s with %d samples", meta.RunID, len(samples))

	result := summary.Summarize(meta, samples, cfg)
	monitoring.Logf("diagnose: run %s certainty_tier=%s warnings=%d", result.RunID, result.CertaintyTierKey, len(result.Warnings))

	if err := writeReport(result, *format, *output, *speedUnit); err != nil {
		log.Fatalf("writing report: %v", err)
	}
}

func resolveConfig(path string) (config.Diagnostics, error) {
	if path == "" {
		return config.Default(), nil
	}
	overlay, err := config.LoadDiagnosticsConfig(path)
	if err != nil {
		return config.Diagnostics{}, err
	}
	return overlay.Resolved(), nil
}

func writeReport(out summary.AnalysisSummary, format, output, speedUnit string) error {
	switch format {
	case "text":
		writeTextSummary(os.Stdout, out, speedUnit)
		return nil
	case "json":
		return writeJSONReport(out, output)
	case "html":
		if output == "" {
			output = "diagnose-report.html"
		}
		return writeHTMLReport(out, output)
	case "png":
		if output == "" {
			output = "."
		}
		return writePNGReports(out, output)
	default:
		log.Fatalf("unknown -format %q: must be one of text, json, html, png", format)
		return nil
	}
}
