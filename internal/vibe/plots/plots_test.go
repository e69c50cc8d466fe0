package plots

import (
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

func TestBuildFFTSpectrumDownweightsTransientBurst(t *testing.T) {
	cfg := config.Default()
	samples := []sample.SampleRecord{
		{TopPeaks: []sample.Peak{{HzVal: 31, AmpVal: 0.5}}},
		{TopPeaks: []sample.Peak{}},
		{TopPeaks: []sample.Peak{}},
		{TopPeaks: []sample.Peak{}},
	}
	weighted, raw := BuildFFTSpectrum(samples, cfg)
	if len(weighted) != 1 || len(raw) != 1 {
		t.Fatalf("expected one bin, got weighted=%d raw=%d", len(weighted), len(raw))
	}
	if raw[0].AmpG != 0.5 {
		t.Errorf("expected raw view to report the max amplitude, got %v", raw[0].AmpG)
	}
	if weighted[0].AmpG >= raw[0].AmpG {
		t.Errorf("expected persistence-weighted amplitude (%v) to be lower than raw (%v) for a one-off burst", weighted[0].AmpG, raw[0].AmpG)
	}
}

func TestBuildPeaksSpectrogramSuppressesDiffuseBroadbandTick(t *testing.T) {
	cfg := config.Default()
	ts := 0.0
	var peaks []sample.Peak
	for i := 0; i < cfg.SpectrogramDiffuseMinBinsPerTick+2; i++ {
		peaks = append(peaks, sample.Peak{HzVal: float64(20 + i*10), AmpVal: cfg.SpectrogramDiffuseMaxAmpG * 0.5})
	}
	samples := []sample.SampleRecord{{TS: &ts, TopPeaks: peaks}}
	weighted, raw := BuildPeaksSpectrogram(samples, cfg)
	if len(weighted) != 0 {
		t.Errorf("expected the diffuse broadband tick suppressed from the weighted view, got %d cells", len(weighted))
	}
	if len(raw) == 0 {
		t.Error("expected the raw view to still report every bin")
	}
}

func TestBuildPeaksSpectrogramKeepsConcentratedPeak(t *testing.T) {
	cfg := config.Default()
	ts := 0.0
	samples := []sample.SampleRecord{{TS: &ts, TopPeaks: []sample.Peak{{HzVal: 50, AmpVal: 0.3}}}}
	weighted, _ := BuildPeaksSpectrogram(samples, cfg)
	if len(weighted) != 1 {
		t.Fatalf("expected a single concentrated peak to survive suppression, got %d cells", len(weighted))
	}
}

func TestBuildPeaksTableRanksByPersistenceScore(t *testing.T) {
	cfg := config.Default()
	bins := []statx.BinStats{
		{FrequencyHz: 10, P95AmpG: 0.1, PresenceRatio: 0.9, Burstiness: 1.0, Classification: statx.ClassPersistent},
		{FrequencyHz: 20, P95AmpG: 0.5, PresenceRatio: 0.9, Burstiness: 1.0, Classification: statx.ClassPersistent},
	}
	rows := BuildPeaksTable(bins, nil, cfg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FrequencyHz != 20 {
		t.Errorf("expected the higher-amplitude bin ranked first, got freq=%v", rows[0].FrequencyHz)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Errorf("expected ranks 1,2 in order, got %d,%d", rows[0].Rank, rows[1].Rank)
	}
}

func TestBuildMatchedAmpVsSpeedSortedByBandStart(t *testing.T) {
	cfg := config.Default()
	results := []order.Result{
		{
			Key: order.Wheel1x,
			Matches: []order.MatchPoint{
				{SpeedKmh: 85, AmpG: 0.1},
				{SpeedKmh: 45, AmpG: 0.2},
				{SpeedKmh: 47, AmpG: 0.3},
			},
		},
	}
	series := BuildMatchedAmpVsSpeed(results, cfg)
	if len(series) != 1 {
		t.Fatalf("expected one series, got %d", len(series))
	}
	bins := series[0].Bins
	if len(bins) != 2 {
		t.Fatalf("expected 2 speed bins, got %d", len(bins))
	}
	if bins[0].SpeedBandLowerKmh >= bins[1].SpeedBandLowerKmh {
		t.Error("expected bins sorted by band-start ascending")
	}
}
