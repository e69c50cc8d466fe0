package localize

import (
	"fmt"
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// Selection is the localization outcome for one finding: the chosen
// location (possibly an ambiguous pair), its confidence, and the
// spatial-separation flags that feed the confidence scorer (spec.md §4.5).
type Selection struct {
	Location               string
	PrimaryLocation        sample.Location
	AlternativeLocations   []sample.Location
	AmbiguousLocation      bool
	WeakSpatialSeparation  bool
	LocalizationConfidence float64
	DominanceRatio         float64
	NConnectedLocations    int
	IsDiffuseExcitation    bool
	DiffusePenalty         float64
}

// locAgg is the per-location rollup used for source-aware selection.
type locAgg struct {
	loc         sample.Location
	meanAmp     float64
	sampleCount int
	matchRate   float64
}

// aggregateMatches rolls up an order.Result's matches by location:
// mean matched amplitude, matched-sample count, and the matched/possible
// rate this location contributes (relative to the reference's own
// possible_total, spec.md §4.4/§4.5).
func aggregateMatches(res order.Result) []locAgg {
	sums := make(map[sample.Location]float64)
	counts := make(map[sample.Location]int)
	for _, m := range res.Matches {
		sums[m.Location] += m.AmpG
		counts[m.Location]++
	}
	out := make([]locAgg, 0, len(sums))
	for loc, sum := range sums {
		n := counts[loc]
		rate := 0.0
		if res.PossibleTotal > 0 {
			rate = float64(n) / float64(res.PossibleTotal)
		}
		out = append(out, locAgg{loc: loc, meanAmp: sum / float64(n), sampleCount: n, matchRate: rate})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].meanAmp != out[j].meanAmp {
			return out[i].meanAmp > out[j].meanAmp
		}
		return locationRank(out[i].loc) < locationRank(out[j].loc)
	})
	return out
}

// SelectForReference runs source-aware location selection and
// diffuse-excitation detection for one order.Result (spec.md §4.5).
func SelectForReference(res order.Result, suspectedSource string, cfg config.Diagnostics) Selection {
	agg := aggregateMatches(res)
	sel := selectFromPool(agg, suspectedSource, cfg)
	isDiffuse, penalty := detectDiffuseExcitation(agg, cfg)
	sel.IsDiffuseExcitation = isDiffuse
	sel.DiffusePenalty = penalty
	return sel
}

// SelectFromAmplitudes runs source-aware location selection (without
// diffuse-excitation detection, which needs matched/possible rates a
// bare amplitude map doesn't carry) over any per-location mean
// amplitude map — used by persistent-peak findings, which aren't tied
// to a single order.Result (spec.md §4.5, §4.7).
func SelectFromAmplitudes(meanAmpByLoc map[sample.Location]float64, suspectedSource string, cfg config.Diagnostics) Selection {
	agg := make([]locAgg, 0, len(meanAmpByLoc))
	for loc, amp := range meanAmpByLoc {
		agg = append(agg, locAgg{loc: loc, meanAmp: amp})
	}
	sort.Slice(agg, func(i, j int) bool {
		if agg[i].meanAmp != agg[j].meanAmp {
			return agg[i].meanAmp > agg[j].meanAmp
		}
		return locationRank(agg[i].loc) < locationRank(agg[j].loc)
	})
	sel := selectFromPool(agg, suspectedSource, cfg)
	sel.DiffusePenalty = 1.0
	return sel
}

func selectFromPool(agg []locAgg, suspectedSource string, cfg config.Diagnostics) Selection {
	pool := agg
	if suspectedSource == "wheel/tire" {
		var wheelPool []locAgg
		for _, a := range agg {
			if sample.IsWheelLocation(a.loc) {
				wheelPool = append(wheelPool, a)
			}
		}
		if len(wheelPool) > 0 {
			pool = wheelPool
		}
	}

	sel := Selection{DiffusePenalty: 1.0}
	if len(pool) == 0 {
		sel.Location = "unknown"
		sel.WeakSpatialSeparation = true
		return sel
	}

	sel.PrimaryLocation = pool[0].loc
	sel.NConnectedLocations = len(pool)
	sel.DominanceRatio = computeDominanceRatio(pool)
	sel.WeakSpatialSeparation = IsWeakSpatialSeparation(sel.NConnectedLocations, sel.DominanceRatio, cfg)

	if len(pool) >= 2 && sel.DominanceRatio < cfg.DominanceAmbiguousMax {
		sel.AmbiguousLocation = true
		sel.Location = fmt.Sprintf("ambiguous location: %s / %s", pool[0].loc, pool[1].loc)
	} else {
		sel.Location = string(sel.PrimaryLocation)
	}

	sel.LocalizationConfidence = localizationConfidence(sel.NConnectedLocations, sel.DominanceRatio, cfg)

	if sel.WeakSpatialSeparation || sel.AmbiguousLocation {
		for _, a := range pool[1:] {
			sel.AlternativeLocations = append(sel.AlternativeLocations, a.loc)
		}
	}

	return sel
}

// ConnectedLocationCount returns the number of distinct locations that
// contributed at least one matched point to res, unfiltered by
// suspected_source — used as the corroborating-locations signal fed
// into the confidence scorer (spec.md §4.6).
func ConnectedLocationCount(res order.Result) int {
	return len(aggregateMatches(res))
}

func computeDominanceRatio(pool []locAgg) float64 {
	if len(pool) < 2 {
		return 1.0
	}
	if pool[1].meanAmp <= 0 {
		return 1.0
	}
	return pool[0].meanAmp / pool[1].meanAmp
}

// IsWeakSpatialSeparation applies the connected-location-count-scaled
// thresholds (spec.md §4.5), treating a single connected location as
// weak regardless of its dominance ratio (spec.md §9 open question).
func IsWeakSpatialSeparation(nConnected int, dominanceRatio float64, cfg config.Diagnostics) bool {
	if nConnected <= 1 {
		return true
	}
	var threshold float64
	switch {
	case nConnected == 2:
		threshold = cfg.WeakSeparationThreshold2
	case nConnected == 3:
		threshold = cfg.WeakSeparationThreshold3
	default:
		threshold = cfg.WeakSeparationThreshold4Plus
	}
	return dominanceRatio < threshold
}

// localizationConfidence maps dominance ratio into [0, clamp_max], with
// a single connected location (n<=1) scored as a fixed low value since
// spatial separation could not be evaluated at all. The mapping keeps
// any dominance ratio below DominanceAmbiguousMax (the ambiguous
// boundary) under 0.40, satisfying spec.md §4.5's explicit cap.
func localizationConfidence(nConnected int, dominanceRatio float64, cfg config.Diagnostics) float64 {
	if nConnected <= 1 {
		return 0.30
	}
	conf := 1.0 - 1.0/dominanceRatio
	return statx.Clamp(conf, 0, cfg.ConfidenceClampMax)
}

// detectDiffuseExcitation reports whether matched activity is spread
// uniformly across at least two locations rather than concentrated at
// one (spec.md §4.5): each eligible location needs >= 3 matched
// samples, and both the matched-rate spread and mean-amplitude spread
// across eligible locations must fall under their respective thresholds.
func detectDiffuseExcitation(agg []locAgg, cfg config.Diagnostics) (bool, float64) {
	var eligible []locAgg
	for _, a := range agg {
		if a.sampleCount >= 3 {
			eligible = append(eligible, a)
		}
	}
	if len(eligible) < 2 {
		return false, 1.0
	}
	rates := make([]float64, len(eligible))
	amps := make([]float64, len(eligible))
	for i, a := range eligible {
		rates[i] = a.matchRate
		amps[i] = a.meanAmp
	}
	rateRange := statx.RelativeRange(rates)
	ampRange := statx.RelativeRange(amps)
	if rateRange < cfg.DiffuseRateRangeMax && ampRange < cfg.DiffuseAmpRangeMax {
		return true, cfg.DiffusePenalty
	}
	return false, 1.0
}
