package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

const fixtureJSON = `{
  "metadata": {"run_id": "run-diagnose-1", "sensor_model": "ADXL345"},
  "samples": [
    {"t_s": 0.0, "client_id": "fl", "location": "front-left wheel", "speed_kmh": 80.0, "vibration_strength_db": 18.0, "top_peaks": [{"hz": 10.9, "amp": 0.05}]},
    {"t_s": 0.5, "client_id": "fl", "location": "front-left wheel", "speed_kmh": 80.0, "vibration_strength_db": 19.0, "top_peaks": [{"hz": 10.9, "amp": 0.05}]}
  ]
}`

func TestLoadFixtureNormalizesMetadataAndSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, samples, err := loadFixture(path)
	if err != nil {
		t.Fatalf("loadFixture: %v", err)
	}
	if meta.RunID != "run-diagnose-1" {
		t.Errorf("expected run-diagnose-1, got %q", meta.RunID)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
}

func TestLoadFixtureStampsMissingRunID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	body := `{"metadata": {}, "samples": []}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, _, err := loadFixture(path)
	if err != nil {
		t.Fatalf("loadFixture: %v", err)
	}
	if meta.RunID == "" {
		t.Error("expected a stamped run_id when the fixture omits one")
	}
}

func TestWriteTextSummaryConvertsSpeedUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	meta, samples, err := loadFixture(path)
	if err != nil {
		t.Fatal(err)
	}

	out := summary.Summarize(meta, samples, config.Default())

	var buf bytes.Buffer
	writeTextSummary(&buf, out, "mph")
	text := buf.String()
	if !strings.Contains(text, "run run-diagnose-1") {
		t.Errorf("expected run id in text summary, got: %s", text)
	}
	if strings.Contains(text, "km/h") {
		t.Errorf("expected mph-converted speed bands, got km/h in: %s", text)
	}
}

func TestSpeedBandInUnitPassesThroughUnparseableLabels(t *testing.T) {
	if got := speedBandInUnit("unknown", "mph"); got != "unknown" {
		t.Errorf("expected passthrough for unknown band, got %q", got)
	}
}

