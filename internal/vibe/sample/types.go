package sample

import "time"

// Location is a canonical sensor-mount location. Raw client-supplied
// labels are folded into one of these via CanonicalizeLocation.
type Location string

// Canonical sensor locations (spec.md §3.1).
const (
	LocationFrontLeftWheel      Location = "front-left wheel"
	LocationFrontRightWheel     Location = "front-right wheel"
	LocationRearLeftWheel       Location = "rear-left wheel"
	LocationRearRightWheel      Location = "rear-right wheel"
	LocationEngineBay           Location = "engine-bay"
	LocationDriveshaftTunnel    Location = "driveshaft-tunnel"
	LocationTransmission        Location = "transmission"
	LocationTrunk               Location = "trunk"
	LocationDriverSeat          Location = "driver-seat"
	LocationFrontPassengerSeat  Location = "front-passenger seat"
	LocationDashboard           Location = "dashboard"
	LocationFrontSubframe       Location = "front-subframe"
	LocationRearSubframe        Location = "rear-subframe"
	LocationOther               Location = "other"
)

// WheelLocations lists the four canonical wheel-corner locations, in
// the stable ordering used to break ties across the pipeline.
var WheelLocations = []Location{
	LocationFrontLeftWheel,
	LocationFrontRightWheel,
	LocationRearLeftWheel,
	LocationRearRightWheel,
}

// IsWheelLocation reports whether loc is one of the four canonical
// wheel-corner locations.
func IsWheelLocation(loc Location) bool {
	for _, w := range WheelLocations {
		if loc == w {
			return true
		}
	}
	return false
}

// RunMetadata is the immutable per-run context supplied alongside the
// sample stream (spec.md §3.1).
type RunMetadata struct {
	RunID         string
	StartTimeUTC  time.Time
	EndTimeUTC    *time.Time

	RawSampleRateHz *float64

	// TireCircumferenceM is the directly-supplied circumference, if any.
	TireCircumferenceM *float64
	// TireWidthMM, TireAspectPct, RimIn let the caller supply sidewall
	// dimensions instead; ResolvedTireCircumferenceM derives the
	// circumference from these when TireCircumferenceM is absent (the
	// normalizer leaves TireCircumferenceM as given). See
	// internal/units.TireCircumferenceM.
	TireWidthMM   *float64
	TireAspectPct *float64
	RimIn         *float64

	FinalDriveRatio   *float64
	CurrentGearRatio  *float64

	// SensorModel determines the full-scale saturation threshold; the
	// known model "ADXL345" implies +/-16g (15.68g at 98% full scale).
	SensorModel string

	// Language affects label text only (spec.md §3.1); the core never
	// branches on it except to propagate it into the summary.
	Language string
}

// SensorFullScaleG returns the accelerometer's full-scale range in g
// for known sensor models, and ok=false for unrecognized models (the
// saturation-and-outliers suitability check is then skipped).
func (m RunMetadata) SensorFullScaleG() (float64, bool) {
	switch m.SensorModel {
	case "ADXL345":
		return 16.0, true
	default:
		return 0, false
	}
}

// ResolvedTireCircumferenceM returns the tire circumference, deriving
// it from sidewall dimensions when not given directly.
func (m RunMetadata) ResolvedTireCircumferenceM() (float64, bool) {
	if m.TireCircumferenceM != nil && *m.TireCircumferenceM > 0 {
		return *m.TireCircumferenceM, true
	}
	if m.TireWidthMM != nil && m.TireAspectPct != nil && m.RimIn != nil {
		return derivedTireCircumference(*m.TireWidthMM, *m.TireAspectPct, *m.RimIn)
	}
	return 0, false
}

// Peak is a single spectral peak surviving normalization: hz > 0 and
// >= the minimum analysis frequency, amp > 0, both finite.
type Peak struct {
	HzVal  float64
	AmpVal float64
}

// SpeedSource records where a sample's speed measurement originated.
type SpeedSource string

const (
	SpeedSourceGPS      SpeedSource = "gps"
	SpeedSourceManual   SpeedSource = "manual"
	SpeedSourceOverride SpeedSource = "override"
	SpeedSourceMissing  SpeedSource = "missing"
)

// SampleRecord is one canonical per-sensor, per-tick measurement
// (spec.md §3.1). Optional fields are explicit pointers; nil means
// absent, never a sentinel zero value. VibrationStrengthDB is the one
// exception noted in the spec: it is always present once normalized
// (defaulting is the normalizer's job, not a missing-value encoding).
type SampleRecord struct {
	TS *float64 // seconds since run start; nil if absent

	ClientID   string
	ClientName string
	Location   Location

	SpeedKmh    *float64
	SpeedSource SpeedSource

	AccelXG *float64
	AccelYG *float64
	AccelZG *float64

	VibrationStrengthDB float64
	StrengthFloorAmpG   *float64

	TopPeaks []Peak

	FramesDroppedTotal int64
	QueueOverflowDrops int64
}

// InvalidMetadataError is raised only when the top-level input shape
// itself is not a record or lacks a run_id (spec.md §4.1, §7). Per-field issues never
// raise; they degrade to an absent optional field instead.
type InvalidMetadataError struct {
	Reason string
}

func (e *InvalidMetadataError) Error() string {
	return "invalid run metadata: " + e.Reason
}
