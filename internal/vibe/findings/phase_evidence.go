package findings

import "github.com/banshee-data/shakedown/internal/vibe/phase"

// canonicalPhaseOrder breaks phases_detected ordering ties deterministically.
var canonicalPhaseOrder = []phase.Phase{
	phase.PhaseIdle, phase.PhaseAcceleration, phase.PhaseCruise,
	phase.PhaseDeceleration, phase.PhaseSpeedUnknown,
}

// buildPhaseEvidence derives which phases a finding's matched sample
// indices fall in, and the fraction of those samples that are in
// cruise (spec.md §4.7's cruise_fraction, consumed by Finding.RankScore).
func buildPhaseEvidence(sampleIndices []int, perSamplePhase []phase.Phase) PhaseEvidence {
	if len(sampleIndices) == 0 || len(perSamplePhase) == 0 {
		return PhaseEvidence{}
	}
	seen := make(map[phase.Phase]bool)
	cruiseCount := 0
	total := 0
	for _, idx := range sampleIndices {
		if idx < 0 || idx >= len(perSamplePhase) {
			continue
		}
		p := perSamplePhase[idx]
		seen[p] = true
		total++
		if p == phase.PhaseCruise {
			cruiseCount++
		}
	}
	var phases []phase.Phase
	for _, p := range canonicalPhaseOrder {
		if seen[p] {
			phases = append(phases, p)
		}
	}
	fraction := 0.0
	if total > 0 {
		fraction = float64(cruiseCount) / float64(total)
	}
	return PhaseEvidence{PhasesDetected: phases, CruiseFraction: fraction}
}
