// Package phase partitions a run's samples into driving phases (idle,
// acceleration, cruise, deceleration, speed_unknown) from the speed
// trace, and provides the canonical 10-km/h speed-bin helpers shared
// by the order matcher, localizer, and summary assembler (spec.md §4.2).
//
// phase depends only on vibe/sample.
package phase
