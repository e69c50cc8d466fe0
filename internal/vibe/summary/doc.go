// Package summary is the pipeline root: Summarize takes a run's
// metadata and already-normalized sample stream and produces a
// fully-populated AnalysisSummary by driving every upstream stage —
// phase segmentation, peak statistics, order matching, localization,
// confidence scoring, and findings construction — and then running the
// suitability checks, timeline, speed breakdown, and most-likely-origin
// assembly spec.md §4.8 describes.
//
// summary depends on every other vibe/* package; nothing depends on it.
package summary
