// Package confidence computes the weighted, multi-signal confidence
// score attached to every non-reference finding: a weighted base sum
// of match quality, path-assumption error, correlation, SNR, absolute
// strength, and localization quality, followed by an ordered chain of
// multiplicative modifiers and a final clamp (spec.md §4.6).
//
// confidence depends only on internal/config and vibe/statx; it has no
// knowledge of finding construction or ranking.
package confidence
