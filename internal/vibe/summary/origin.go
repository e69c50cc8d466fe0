package summary

import (
	"fmt"

	"github.com/banshee-data/shakedown/internal/vibe/confidence"
	"github.com/banshee-data/shakedown/internal/vibe/findings"
)

// mostLikelyOrigin derives the top-ranked non-reference finding's key
// attributes, augmented with alternative_locations whenever weak
// spatial separation or location ambiguity leaves more than one
// candidate in play (spec.md §4.8).
func mostLikelyOrigin(topCauses []findings.Finding) MostLikelyOrigin {
	if len(topCauses) == 0 {
		return MostLikelyOrigin{Source: "unknown", Location: "unknown", SpeedBand: "unknown"}
	}
	top := topCauses[0]

	origin := MostLikelyOrigin{
		Source:                top.SuspectedSource,
		Location:              top.StrongestLocation,
		SpeedBand:             top.StrongestSpeedBand,
		Confidence:            top.ConfidenceValue,
		WeakSpatialSeparation: top.WeakSpatialSeparation,
	}

	if top.WeakSpatialSeparation || len(top.AlternativeLocations) > 0 {
		origin.AlternativeLocations = top.AlternativeLocations
		if top.WeakSpatialSeparation && top.PrimaryLocation != "" && len(top.AlternativeLocations) > 0 {
			origin.Location = fmt.Sprintf("%s / %s", top.PrimaryLocation, top.AlternativeLocations[0])
		}
	}

	return origin
}

// certaintyTierKey maps the top finding's confidence label onto the
// report-level tier, or tier A when the run has no non-reference
// findings at all (spec.md §4.8).
func certaintyTierKey(topCauses []findings.Finding) string {
	if len(topCauses) == 0 {
		return string(confidence.TierA)
	}
	switch confidence.Label(topCauses[0].ConfidenceLabel) {
	case confidence.LabelHigh:
		return string(confidence.TierC)
	case confidence.LabelMedium:
		return string(confidence.TierB)
	default:
		return string(confidence.TierA)
	}
}
