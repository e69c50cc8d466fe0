package sample

import (
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/shakedown/internal/units"
)

// coerceFloat accepts a number or a numeric string and returns nil for
// NaN, +/-Inf, empty string, or anything else it cannot parse
// (spec.md §4.1). It never raises — per-field issues degrade to
// "absent", matching the canonical SampleRecord invariant.
func coerceFloat(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return finiteOrNil(t)
	case float32:
		return finiteOrNil(float64(t))
	case int:
		return finiteOrNil(float64(t))
	case int64:
		return finiteOrNil(float64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finiteOrNil(f)
	default:
		return nil
	}
}

func finiteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// coerceInt rounds half-away-from-zero, per the spec.md §4.1 integer
// coercion rule, and returns 0 (not missing — counters default to 0)
// when the value cannot be coerced at all.
func coerceInt(v any) int64 {
	f := coerceFloat(v)
	if f == nil {
		return 0
	}
	return roundHalfAwayFromZero(*f)
}

func roundHalfAwayFromZero(f float64) int64 {
	if f >= 0 {
		return int64(math.Floor(f + 0.5))
	}
	return int64(math.Ceil(f - 0.5))
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func derivedTireCircumference(widthMM, aspectPct, rimIn float64) (float64, bool) {
	return units.TireCircumferenceM(widthMM, aspectPct, rimIn)
}
