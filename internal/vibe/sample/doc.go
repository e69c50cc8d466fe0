// Package sample owns the canonical input shapes of the vibration
// diagnostics pipeline: RunMetadata, SampleRecord, and the
// SampleNormalizer that coerces heterogeneous raw records into them.
//
// This is the entry point of the pipeline's forward-only data flow:
// sample -> phase -> (statx, order, localize) -> confidence ->
// findings -> summary. Nothing in this package depends on any other
// vibe/* package.
package sample
