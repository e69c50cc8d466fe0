package confidence

import (
	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// Label is the banded confidence label (spec.md §4.6).
type Label string

const (
	LabelLow    Label = "CONFIDENCE_LOW"
	LabelMedium Label = "CONFIDENCE_MEDIUM"
	LabelHigh   Label = "CONFIDENCE_HIGH"
)

// Tier is the report-level certainty tier a finding's confidence band
// maps onto (spec.md §4.6, §4.8). The mapping is intentionally inverted
// from the intuitive A/B/C ordering — it mirrors the tier_key scheme
// spec.md §4.8 assigns certainty_tier_key from.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Inputs are the ~15 quality signals the scorer combines (spec.md §4.6).
// CorrVal and ErrorScore are already normalized to [0, 1] by the caller.
type Inputs struct {
	EffectiveMatchRate float64
	ErrorScore         float64
	// CorrVal is ignored when CorrDefined is false; an undefined
	// correlation (zero-variance series, order.Result.Corr == nil) has
	// its weight redistributed entirely onto match rate (spec.md §9).
	CorrVal                float64
	CorrDefined            bool
	SNRScore               float64
	AbsoluteStrengthDB     float64 // raw dB, not normalized
	LocalizationConfidence float64
	WeakSpatialSeparation  bool
	DominanceRatio         float64
	ConstantSpeed          bool
	SteadySpeed            bool
	Matched                int
	CorroboratingLocations int
	PhasesWithEvidence     int
	IsDiffuseExcitation    bool
	DiffusePenalty         float64
	NConnectedLocations    int
	NoWheelSensors         bool
	// PathCompliance in [1.0, 1.5]; values above 1.0 shift weight from
	// corr onto match. Callers with no path-compliance signal pass 1.0.
	PathCompliance float64
}

const (
	weightMatch        = 0.30
	weightError        = 0.10
	weightCorr         = 0.15
	weightSNR          = 0.15
	weightStrength     = 0.15
	weightLocalization = 0.15
)

// normalizeStrength maps a raw dB strength onto [0, 1] for the base
// weighted sum. spec.md's bucket ladder tops out at "l5: [36, inf)", so
// 40 dB is treated as effectively saturating the normalized signal; this
// scale is a calibration choice, not a spec-given constant.
func normalizeStrength(db float64) float64 {
	return statx.Clamp(db/40.0, 0, 1)
}

// Score computes the clamped confidence value and its label/tier for one
// finding, following the weighted base sum and ordered modifier chain of
// spec.md §4.6.
func Score(in Inputs, cfg config.Diagnostics) (value float64, label Label, tier Tier) {
	matchW, corrW := weightMatch, weightCorr
	if in.PathCompliance > 1.0 {
		shift := weightCorr * (in.PathCompliance - 1.0)
		if shift > weightCorr {
			shift = weightCorr
		}
		matchW += shift
		corrW -= shift
	}
	corrVal := in.CorrVal
	if !in.CorrDefined {
		matchW += corrW
		corrW = 0
		corrVal = 0
	}

	base := matchW*in.EffectiveMatchRate +
		weightError*in.ErrorScore +
		corrW*corrVal +
		weightSNR*in.SNRScore +
		weightStrength*normalizeStrength(in.AbsoluteStrengthDB) +
		weightLocalization*in.LocalizationConfidence

	v := base
	switch {
	case in.AbsoluteStrengthDB < 8:
		if v > 0.45 {
			v = 0.45
		}
	case in.AbsoluteStrengthDB < 16:
		v *= 0.80
	}
	if in.WeakSpatialSeparation {
		v *= 0.80
	}
	if in.ConstantSpeed {
		v *= 0.80
	}
	if in.SteadySpeed {
		v *= 0.90
	}
	if in.IsDiffuseExcitation {
		penalty := in.DiffusePenalty
		if penalty == 0 {
			penalty = cfg.DiffusePenalty
		}
		v *= penalty
	}
	if in.NConnectedLocations == 1 {
		v *= 0.70
	}
	if in.CorroboratingLocations >= 3 {
		v *= 1.10
	}
	if in.PhasesWithEvidence >= 3 {
		v *= 1.05
	}
	if in.Matched < 10 {
		v *= float64(in.Matched) / 10.0
	}

	v = statx.Clamp(v, cfg.ConfidenceClampMin, cfg.ConfidenceClampMax)

	switch {
	case v >= cfg.ConfidenceHighThreshold:
		return v, LabelHigh, TierC
	case v >= cfg.ConfidenceMediumThreshold:
		return v, LabelMedium, TierB
	default:
		return v, LabelLow, TierA
	}
}
