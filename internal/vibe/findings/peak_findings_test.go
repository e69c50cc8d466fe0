package findings

import (
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

func mkSamples(n int, loc sample.Location) []sample.SampleRecord {
	out := make([]sample.SampleRecord, n)
	for i := range out {
		out[i] = sample.SampleRecord{Location: loc, SpeedKmh: kmh(60), VibrationStrengthDB: 20}
	}
	return out
}

func TestBuildPeakFindingsExcludesBinsClaimedByOrder(t *testing.T) {
	cfg := config.Default()
	samples := mkSamples(5, sample.LocationFrontLeftWheel)
	claimedBin := statx.BinStats{
		FrequencyHz:    30.0,
		SNR:            10,
		Classification: statx.ClassPersistent,
		Matches:        []statx.BinMatch{{SampleIndex: 0, AmpG: 0.1}},
	}
	unclaimedBin := statx.BinStats{
		FrequencyHz:    80.0,
		SNR:            8,
		Classification: statx.ClassPersistent,
		Matches:        []statx.BinMatch{{SampleIndex: 1, AmpG: 0.1}},
	}
	orderResults := []order.Result{
		{Key: order.Wheel1x, Matches: []order.MatchPoint{{MatchedHz: 30.3}}},
	}
	found := buildPeakFindings("run-1", []statx.BinStats{claimedBin, unclaimedBin}, samples, orderResults, nil, 0.01, false, cfg)
	for _, f := range found {
		if f.FrequencyHzOrOrder == "30.0 Hz" {
			t.Error("expected the bin within 1.5 Hz of an order-matched bin to be excluded")
		}
	}
	foundUnclaimed := false
	for _, f := range found {
		if f.FrequencyHzOrOrder == "80.0 Hz" {
			foundUnclaimed = true
		}
	}
	if !foundUnclaimed {
		t.Error("expected the unclaimed bin to still produce a finding")
	}
}

func TestBuildPeakFindingsTransientConfidenceCap(t *testing.T) {
	cfg := config.Default()
	samples := mkSamples(5, sample.LocationFrontLeftWheel)
	bin := statx.BinStats{
		FrequencyHz:    50.0,
		SNR:            50,
		PresenceRatio:  0.95,
		Classification: statx.ClassTransient,
		Matches: []statx.BinMatch{
			{SampleIndex: 0, AmpG: 0.5}, {SampleIndex: 1, AmpG: 0.5}, {SampleIndex: 2, AmpG: 0.5},
		},
	}
	found := buildPeakFindings("run-2", []statx.BinStats{bin}, samples, nil, nil, 0.001, false, cfg)
	if len(found) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(found))
	}
	if *found[0].ConfidenceValue > cfg.TransientConfidenceCap {
		t.Errorf("expected transient confidence capped at %v, got %v", cfg.TransientConfidenceCap, *found[0].ConfidenceValue)
	}
}

func TestBuildPeakFindingsDeterministicIDs(t *testing.T) {
	cfg := config.Default()
	samples := mkSamples(3, sample.LocationDashboard)
	bin := statx.BinStats{
		FrequencyHz:    40.0,
		SNR:            12,
		Classification: statx.ClassPersistent,
		Matches:        []statx.BinMatch{{SampleIndex: 0, AmpG: 0.2}},
	}
	a := buildPeakFindings("run-3", []statx.BinStats{bin}, samples, nil, nil, 0.01, false, cfg)
	b := buildPeakFindings("run-3", []statx.BinStats{bin}, samples, nil, nil, 0.01, false, cfg)
	if len(a) != 1 || len(b) != 1 {
		t.Fatal("expected one finding per call")
	}
	if a[0].FindingID != b[0].FindingID {
		t.Errorf("expected deterministic finding_id across repeated calls, got %s vs %s", a[0].FindingID, b[0].FindingID)
	}
}

func TestBuildPeakFindingsCapsAtMaxPersistentPeakFindings(t *testing.T) {
	cfg := config.Default()
	samples := mkSamples(3, sample.LocationDashboard)
	var bins []statx.BinStats
	for i := 0; i < 10; i++ {
		bins = append(bins, statx.BinStats{
			FrequencyHz:    float64(100 + i*10),
			SNR:            float64(i + 1),
			Classification: statx.ClassPersistent,
			Matches:        []statx.BinMatch{{SampleIndex: 0, AmpG: 0.1}},
		})
	}
	found := buildPeakFindings("run-4", bins, samples, nil, nil, 0.01, false, cfg)
	if len(found) != cfg.MaxPersistentPeakFindings {
		t.Errorf("expected %d findings, got %d", cfg.MaxPersistentPeakFindings, len(found))
	}
}
