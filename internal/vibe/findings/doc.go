// Package findings constructs order, persistent-peak, transient, and
// reference findings from the order matcher's and peak-statistics
// engine's output, scores and ranks them, applies wheel-finding alias
// suppression, and assigns stable finding identifiers (spec.md §4.7).
//
// findings depends on vibe/sample, vibe/phase, vibe/statx, vibe/order,
// vibe/localize, and vibe/confidence; it is consumed only by vibe/summary.
package findings
