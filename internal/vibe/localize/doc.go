// Package localize aggregates per-sensor intensity by canonical
// location, applies source-aware location selection (wheel-class
// findings prefer wheel sensors even when a cabin sensor reads
// louder), and detects diffuse excitation and weak spatial separation
// (spec.md §4.5).
//
// localize depends on vibe/sample, vibe/order, and vibe/statx.
package localize
