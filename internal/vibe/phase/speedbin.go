package phase

import (
	"fmt"
	"math"
)

// SpeedBand identifies a canonical 10-km/h speed bin, e.g. "80-90 km/h".
type SpeedBand struct {
	LowerKmh float64
	UpperKmh float64
}

// Label formats the band as "<lo>-<hi> km/h".
func (b SpeedBand) Label() string {
	return fmt.Sprintf("%d-%d km/h", int(b.LowerKmh), int(b.UpperKmh))
}

// Contains reports whether speedKmh falls within [LowerKmh, UpperKmh).
func (b SpeedBand) Contains(speedKmh float64) bool {
	return speedKmh >= b.LowerKmh && speedKmh < b.UpperKmh
}

// BandForSpeed returns the canonical widthKmh-wide band containing
// speedKmh, e.g. BandForSpeed(83, 10) -> {80, 90}.
func BandForSpeed(speedKmh, widthKmh float64) SpeedBand {
	lower := math.Floor(speedKmh/widthKmh) * widthKmh
	return SpeedBand{LowerKmh: lower, UpperKmh: lower + widthKmh}
}

// UniformSpeedLabel formats a single-value label ("50 km/h") used when
// a run stays within one speed band throughout, per spec.md §4.4.
func UniformSpeedLabel(speedKmh float64) string {
	return fmt.Sprintf("%d km/h", int(math.Round(speedKmh)))
}

// IsUniformSpeed reports whether every speed in speedsKmh falls in the
// same canonical band.
func IsUniformSpeed(speedsKmh []float64, widthKmh float64) (SpeedBand, bool) {
	if len(speedsKmh) == 0 {
		return SpeedBand{}, false
	}
	band := BandForSpeed(speedsKmh[0], widthKmh)
	for _, s := range speedsKmh[1:] {
		if !band.Contains(s) {
			return SpeedBand{}, false
		}
	}
	return band, true
}
