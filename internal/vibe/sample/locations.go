package sample

import "strings"

// locationAliases maps a normalized (lower-cased, separator-folded)
// raw label to its canonical Location. Grounded on the alias table
// exercised by the original VibeSensor test suite
// (test_localization_and_suppression.py::TestSensorTypeClassification),
// which requires "FL", "front_left", "Front Left", "FL Wheel", and
// "front_left_wheel" to all fold to the same wheel code.
var locationAliases = map[string]Location{
	"fl":                LocationFrontLeftWheel,
	"frontleft":         LocationFrontLeftWheel,
	"frontleftwheel":    LocationFrontLeftWheel,
	"flwheel":           LocationFrontLeftWheel,

	"fr":                LocationFrontRightWheel,
	"frontright":        LocationFrontRightWheel,
	"frontrightwheel":   LocationFrontRightWheel,
	"frwheel":           LocationFrontRightWheel,

	"rl":                LocationRearLeftWheel,
	"rearleft":          LocationRearLeftWheel,
	"rearleftwheel":     LocationRearLeftWheel,
	"rlwheel":           LocationRearLeftWheel,

	"rr":                LocationRearRightWheel,
	"rearright":         LocationRearRightWheel,
	"rearrightwheel":    LocationRearRightWheel,
	"rrwheel":           LocationRearRightWheel,

	"enginebay":    LocationEngineBay,
	"engine":       LocationEngineBay,

	"driveshafttunnel": LocationDriveshaftTunnel,
	"driveshaft":       LocationDriveshaftTunnel,

	"transmission": LocationTransmission,

	"trunk": LocationTrunk,

	"driverseat": LocationDriverSeat,

	"frontpassengerseat": LocationFrontPassengerSeat,
	"frontpassenger":     LocationFrontPassengerSeat,

	"dashboard": LocationDashboard,

	"frontsubframe": LocationFrontSubframe,
	"rearsubframe":  LocationRearSubframe,
}

// foldLocationKey lower-cases a raw label and strips spaces, hyphens,
// and underscores so "FL Wheel", "fl_wheel", and "fl-wheel" compare equal.
func foldLocationKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return s
}

// CanonicalizeLocation folds a raw, free-form sensor label into its
// canonical Location. Unknown or empty labels canonicalize to
// LocationOther rather than failing (per-field coercion never raises;
// spec.md §4.1).
func CanonicalizeLocation(raw string) Location {
	key := foldLocationKey(raw)
	if key == "" {
		return LocationOther
	}
	if loc, ok := locationAliases[key]; ok {
		return loc
	}
	return LocationOther
}
