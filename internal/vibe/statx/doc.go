// Package statx computes the numeric building blocks shared by the
// order matcher, the localizer, and the confidence scorer: weighted
// percentiles, Pearson correlation, a run-wide noise-floor baseline,
// and per-frequency-bin peak statistics with their baseline/transient/
// patterned/persistent classification (spec.md §4.3).
//
// statx depends only on vibe/sample; it has no knowledge of phases,
// reference orders, or findings.
package statx
