package order

import "github.com/banshee-data/shakedown/internal/vibe/sample"

// ReferenceKey names one of the seven speed-scaled reference orders
// spec.md §4.4 defines.
type ReferenceKey string

const (
	Wheel1x      ReferenceKey = "wheel_1x"
	Wheel2x      ReferenceKey = "wheel_2x"
	Wheel3x      ReferenceKey = "wheel_3x"
	Driveshaft1x ReferenceKey = "driveshaft_1x"
	Driveshaft2x ReferenceKey = "driveshaft_2x"
	Engine1x     ReferenceKey = "engine_1x"
	Engine2x     ReferenceKey = "engine_2x"
)

// SuspectedSource maps a reference key to the fault-origin category
// used throughout findings and localization.
func (k ReferenceKey) SuspectedSource() string {
	switch k {
	case Wheel1x, Wheel2x, Wheel3x:
		return "wheel/tire"
	case Driveshaft1x, Driveshaft2x:
		return "driveline"
	case Engine1x, Engine2x:
		return "engine"
	default:
		return "unknown"
	}
}

// MatchPoint is one sample's matched peak against a reference order.
type MatchPoint struct {
	SampleIndex         int
	SpeedKmh            float64
	AmpG                float64
	Location            sample.Location
	SensorID            string
	MatchedHz           float64
	RefHz               float64
	RelError            float64
	VibrationStrengthDB float64
}

// Result is the full per-reference aggregate spec.md §4.4 requires.
type Result struct {
	Key                ReferenceKey
	Matches            []MatchPoint
	Matched            int
	PossibleTotal      int
	EffectiveMatchRate float64
	RescueApplied      bool
	Corr               *float64 // nil when undefined (zero variance)
	DominanceRatio     float64
	AbsoluteStrengthDB float64
	StrongestSpeedBand string
	// StrongestSpeedBandLowerKmh/UpperKmh let callers verify the
	// speed-band-accuracy invariant (spec.md §8) without re-parsing
	// the label string.
	StrongestSpeedBandLowerKmh float64
	StrongestSpeedBandUpperKmh float64
}
