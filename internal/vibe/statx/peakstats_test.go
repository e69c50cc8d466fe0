package statx

import (
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

func mkSample(loc sample.Location, peaks ...sample.Peak) sample.SampleRecord {
	return sample.SampleRecord{Location: loc, TopPeaks: peaks}
}

func TestRunNoiseBaselineFallback(t *testing.T) {
	cfg := config.Default()
	got := RunNoiseBaselineG(nil, cfg)
	if got != cfg.DefaultNoiseFloorG {
		t.Errorf("expected default floor %v, got %v", cfg.DefaultNoiseFloorG, got)
	}
}

func TestRunNoiseBaselinePercentile(t *testing.T) {
	cfg := config.Default()
	floor := 0.004
	samples := []sample.SampleRecord{}
	for i := 0; i < 10; i++ {
		f := floor
		samples = append(samples, sample.SampleRecord{StrengthFloorAmpG: &f})
	}
	got := RunNoiseBaselineG(samples, cfg)
	if got < 0.003 || got > 0.005 {
		t.Errorf("expected ~0.004, got %v", got)
	}
}

func TestClassifyBaselineNoiseLowSNR(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.9, 1.0, 1.0, 0.5, cfg); got != ClassBaselineNoise {
		t.Errorf("expected baseline_noise for low SNR, got %v", got)
	}
}

func TestClassifyGlobalVibration(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.5, 2.0, 5.0, 0.9, cfg); got != ClassBaselineNoise {
		t.Errorf("expected baseline_noise for uniform high-presence signal, got %v", got)
	}
}

func TestClassifyTransientLowPresence(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.05, 2.0, 5.0, 0.1, cfg); got != ClassTransient {
		t.Errorf("expected transient for low presence, got %v", got)
	}
}

func TestClassifyTransientHighBurstiness(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.3, 6.0, 5.0, 0.1, cfg); got != ClassTransient {
		t.Errorf("expected transient for high burstiness, got %v", got)
	}
}

func TestClassifyPatterned(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.5, 2.0, 5.0, 0.1, cfg); got != ClassPatterned {
		t.Errorf("expected patterned, got %v", got)
	}
}

func TestClassifyPersistent(t *testing.T) {
	cfg := config.Default()
	if got := Classify(0.25, 4.0, 5.0, 0.1, cfg); got != ClassPersistent {
		t.Errorf("expected persistent, got %v", got)
	}
}

func TestComputeBinStatsFindsPeak(t *testing.T) {
	cfg := config.Default()
	var samples []sample.SampleRecord
	for i := 0; i < 30; i++ {
		samples = append(samples, mkSample(sample.LocationFrontLeftWheel, sample.Peak{HzVal: 10.9, AmpVal: 0.07}))
	}
	stats := ComputeBinStats(samples, 0.003, cfg)
	found := false
	for _, bs := range stats {
		if bs.FrequencyHz == 10 {
			found = true
			if bs.PresenceRatio != 1.0 {
				t.Errorf("expected presence ratio 1.0, got %v", bs.PresenceRatio)
			}
		}
	}
	if !found {
		t.Fatal("expected bin at 10 Hz to be present")
	}
}

func TestComputeBinStatsEmpty(t *testing.T) {
	cfg := config.Default()
	if got := ComputeBinStats(nil, 0.003, cfg); got != nil {
		t.Errorf("expected nil for no samples, got %v", got)
	}
}

func TestPearsonCorrelationUndefinedOnZeroVariance(t *testing.T) {
	x := []float64{1, 1, 1, 1}
	y := []float64{1, 2, 3, 4}
	res := PearsonCorrelation(x, y)
	if res.Defined {
		t.Error("expected undefined correlation for zero-variance series")
	}
}

func TestPearsonCorrelationClampedToOne(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	res := PearsonCorrelation(x, y)
	if !res.Defined {
		t.Fatal("expected defined correlation")
	}
	if res.AbsValue < 0.99 || res.AbsValue > 1.0 {
		t.Errorf("expected ~1.0 correlation, got %v", res.AbsValue)
	}
}

func TestStableHashDeterministic(t *testing.T) {
	a := StableHashHex("run-1", "wheel_1x", "front-left wheel")
	b := StableHashHex("run-1", "wheel_1x", "front-left wheel")
	if a != b {
		t.Errorf("expected stable hash to be deterministic: %v != %v", a, b)
	}
	c := StableHashHex("run-1", "wheel_1x", "front-right wheel")
	if a == c {
		t.Error("expected different inputs to produce different hashes")
	}
}

func TestRelativeRange(t *testing.T) {
	if got := RelativeRange([]float64{1, 1, 1}); got != 0 {
		t.Errorf("expected 0 relative range for uniform values, got %v", got)
	}
	if got := RelativeRange([]float64{1, 2}); got <= 0 {
		t.Errorf("expected positive relative range for [1,2], got %v", got)
	}
}
