package confidence

import (
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
)

func strongInputs() Inputs {
	return Inputs{
		EffectiveMatchRate:     0.95,
		ErrorScore:             0.90,
		CorrVal:                0.85,
		CorrDefined:            true,
		SNRScore:               0.90,
		AbsoluteStrengthDB:     20,
		LocalizationConfidence: 0.80,
		Matched:                40,
		CorroboratingLocations: 1,
		PhasesWithEvidence:     1,
		DiffusePenalty:         1.0,
		NConnectedLocations:    1,
		PathCompliance:         1.0,
	}
}

func TestScoreClampRange(t *testing.T) {
	cfg := config.Default()
	in := strongInputs()
	in.NConnectedLocations = 2
	v, _, _ := Score(in, cfg)
	if v < cfg.ConfidenceClampMin || v > cfg.ConfidenceClampMax {
		t.Fatalf("expected confidence within [%v, %v], got %v", cfg.ConfidenceClampMin, cfg.ConfidenceClampMax, v)
	}
}

func TestScoreNegligibleStrengthCap(t *testing.T) {
	cfg := config.Default()
	in := strongInputs()
	in.NConnectedLocations = 2
	in.AbsoluteStrengthDB = 3
	v, _, _ := Score(in, cfg)
	if v > 0.45 {
		t.Errorf("expected confidence capped at 0.45 for negligible strength, got %v", v)
	}
}

func TestScoreSingleLocationScaleDown(t *testing.T) {
	cfg := config.Default()
	withOne := strongInputs()
	withOne.NConnectedLocations = 1

	withTwo := strongInputs()
	withTwo.NConnectedLocations = 2

	vOne, _, _ := Score(withOne, cfg)
	vTwo, _, _ := Score(withTwo, cfg)
	if vOne >= vTwo {
		t.Errorf("expected single-location scale-down to reduce confidence below multi-location: one=%v two=%v", vOne, vTwo)
	}
}

func TestScoreLowMatchedCountScalesDown(t *testing.T) {
	cfg := config.Default()
	in := strongInputs()
	in.NConnectedLocations = 2
	in.Matched = 4
	v, _, _ := Score(in, cfg)

	full := strongInputs()
	full.NConnectedLocations = 2
	full.Matched = 40
	vFull, _, _ := Score(full, cfg)

	if v >= vFull {
		t.Errorf("expected matched<10 scale-down to produce lower confidence: matched4=%v matched40=%v", v, vFull)
	}
}

func TestScoreLabelBands(t *testing.T) {
	cfg := config.Default()
	in := strongInputs()
	in.NConnectedLocations = 3
	in.CorroboratingLocations = 3
	in.PhasesWithEvidence = 3
	v, label, tier := Score(in, cfg)
	if label != LabelHigh || tier != TierC {
		t.Errorf("expected HIGH/C for a strong signal set, got value=%v label=%v tier=%v", v, label, tier)
	}

	weak := Inputs{
		EffectiveMatchRate:  0.05,
		Matched:             1,
		NConnectedLocations: 1,
		DiffusePenalty:      1.0,
		PathCompliance:      1.0,
	}
	_, weakLabel, weakTier := Score(weak, cfg)
	if weakLabel != LabelLow || weakTier != TierA {
		t.Errorf("expected LOW/A for a near-zero signal set, got label=%v tier=%v", weakLabel, weakTier)
	}
}

func TestScoreUndefinedCorrelationRedistributesToMatch(t *testing.T) {
	cfg := config.Default()
	defined := strongInputs()
	defined.NConnectedLocations = 2
	defined.CorrVal = 0.95

	undefined := strongInputs()
	undefined.NConnectedLocations = 2
	undefined.CorrDefined = false
	undefined.CorrVal = 0
	undefined.EffectiveMatchRate = 0.95 // equal to corr_val above so redistribution is a no-op here

	vDefined, _, _ := Score(defined, cfg)
	vUndefined, _, _ := Score(undefined, cfg)
	if vDefined != vUndefined {
		t.Errorf("expected equal scores when match_rate == corr_val (weight redistribution is a no-op): defined=%v undefined=%v", vDefined, vUndefined)
	}
}

func TestScoreDiffuseExcitationPenalty(t *testing.T) {
	cfg := config.Default()
	in := strongInputs()
	in.NConnectedLocations = 3
	without, _, _ := Score(in, cfg)

	in.IsDiffuseExcitation = true
	in.DiffusePenalty = cfg.DiffusePenalty
	with, _, _ := Score(in, cfg)

	if with >= without {
		t.Errorf("expected diffuse-excitation penalty to reduce confidence: without=%v with=%v", without, with)
	}
}
