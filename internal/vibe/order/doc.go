// Package order matches per-sample spectral peaks against
// speed-scaled reference orders (wheel 1x/2x/3x, driveshaft 1x/2x,
// engine 1x/2x) within a tolerant relative-frequency window, then
// aggregates per-reference match quality, correlation, dominance, and
// strongest speed band (spec.md §4.4).
//
// order depends on vibe/sample, vibe/phase (for speed binning),
// vibe/statx, and internal/units; it
// has no knowledge of localization source-filtering or confidence
// scoring — those consume order.Result as an input.
package order
