package statx

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WeightedPercentile returns the p-th percentile (0-100) of values,
// weighted by weights (nil or empty means uniform weight). Values and
// weights are copied and values sorted ascending before computing the
// quantile via gonum's empirical CDF, matching the "weighted
// percentile helpers" SpeedBinner/PeakStatistics share (spec.md §4.3).
// Returns 0 for an empty input.
func WeightedPercentile(values []float64, weights []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	sortedVals := make([]float64, n)
	sortedW := make([]float64, n)
	for i, j := range idx {
		sortedVals[i] = values[j]
		if len(weights) == n {
			sortedW[i] = weights[j]
		} else {
			sortedW[i] = 1.0
		}
	}
	if floats.Sum(sortedW) <= 0 {
		for i := range sortedW {
			sortedW[i] = 1.0
		}
	}
	return stat.Quantile(p/100.0, stat.Empirical, sortedVals, sortedW)
}

// Median is WeightedPercentile at p=50 with uniform weights.
func Median(values []float64) float64 {
	return WeightedPercentile(values, nil, 50)
}

// PearsonCorrelation computes |pearson(x, y)| clamped to [0, 1]. When
// either series has zero variance the correlation is mathematically
// undefined; PearsonResult.Defined is false in that case rather than
// returning a misleading 0 or NaN (spec.md §4.4, §9).
type PearsonResult struct {
	AbsValue float64
	Defined  bool
}

func PearsonCorrelation(x, y []float64) PearsonResult {
	if len(x) < 2 || len(x) != len(y) {
		return PearsonResult{Defined: false}
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return PearsonResult{Defined: false}
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return PearsonResult{Defined: false}
	}
	abs := math.Abs(r)
	if abs > 1 {
		abs = 1
	}
	return PearsonResult{AbsValue: abs, Defined: true}
}

// StableHash returns a deterministic, stable hash of parts, joined
// with a separator byte not expected to appear in any part, used
// wherever the pipeline needs a reproducible identifier without
// reaching for wall-clock or randomness (spec.md §2 Helpers, 10%).
func StableHash(parts ...string) uint64 {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte(p))
	}
	return h.Sum64()
}

// StableHashHex is StableHash formatted as a fixed-width hex string,
// convenient for embedding in opaque identifiers.
func StableHashHex(parts ...string) string {
	return fmt.Sprintf("%016x", StableHash(parts...))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeDiv divides a/b, substituting eps for b when b is smaller in
// magnitude than eps, per the explicit-epsilon division-by-zero guard
// required by spec.md §7.
func SafeDiv(a, b, eps float64) float64 {
	if math.Abs(b) < eps {
		if b < 0 {
			eps = -eps
		}
		return a / eps
	}
	return a / b
}

// RelativeRange returns (max-min)/mean for a non-empty slice of
// positive values, used by the diffuse-excitation detector to measure
// how uniform a set of per-location rates or amplitudes is (spec.md
// §4.5). Returns 0 for fewer than 2 values or a zero mean.
func RelativeRange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mn, mx := values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	return (mx - mn) / mean
}
