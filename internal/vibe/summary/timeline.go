package summary

import (
	"github.com/banshee-data/shakedown/internal/vibe/findings"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
)

// minFaultEvidenceConfidence is the confidence floor a non-reference
// finding must clear to count as fault evidence for a phase (spec.md §4.8).
const minFaultEvidenceConfidence = 0.15

// buildPhaseTimeline emits one timeline entry per segment, flagging
// has_fault_evidence when some non-reference finding above the
// confidence floor touched that segment's phase (spec.md §4.8).
func buildPhaseTimeline(segments []phase.Segment, nonReferenceFindings []findings.Finding) []PhaseTimelineEntry {
	out := make([]PhaseTimelineEntry, 0, len(segments))
	for _, seg := range segments {
		out = append(out, PhaseTimelineEntry{
			Phase:            seg.Phase,
			StartTS:          seg.StartTS,
			EndTS:            seg.EndTS,
			SpeedMinKmh:      seg.SpeedMinKmh,
			SpeedMaxKmh:      seg.SpeedMaxKmh,
			HasFaultEvidence: phaseHasFaultEvidence(seg.Phase, nonReferenceFindings),
		})
	}
	return out
}

func phaseHasFaultEvidence(p phase.Phase, fs []findings.Finding) bool {
	for _, f := range fs {
		if f.ConfidenceValue == nil || *f.ConfidenceValue < minFaultEvidenceConfidence {
			continue
		}
		for _, detected := range f.PhaseEvidence.PhasesDetected {
			if detected == p {
				return true
			}
		}
	}
	return false
}
