package findings

import "github.com/banshee-data/shakedown/internal/vibe/phase"

// Type is the finding_type discriminant (spec.md §3.1).
type Type string

const (
	TypeOrder          Type = "order"
	TypePersistentPeak Type = "persistent_peak"
	TypeTransient      Type = "transient"
	TypeReference      Type = "reference"
)

// PhaseEvidence records which driving phases a finding's evidence spans
// and the fraction of that evidence gathered during cruise (spec.md §3.1, §4.7).
type PhaseEvidence struct {
	PhasesDetected []phase.Phase
	CruiseFraction float64
}

// EvidenceMetrics is the supporting-metrics bag attached to every
// non-reference finding (spec.md §3.1).
type EvidenceMetrics struct {
	EffectiveMatchRate     float64
	Corr                   *float64
	SNR                    float64
	AbsoluteStrengthDB     float64
	LocalizationConfidence float64
}

// Finding is one detected or reference-quality issue (spec.md §3.1).
type Finding struct {
	FindingID             string
	FindingKey            string
	FindingType           Type
	SuspectedSource       string
	PeakClassification    string // empty when not applicable
	StrongestLocation     string
	PrimaryLocation       string
	AlternativeLocations  []string
	StrongestSpeedBand    string
	ConfidenceValue       *float64 // nil for reference findings
	ConfidenceLabel       string   // empty for reference findings
	PhaseEvidence         PhaseEvidence
	DominanceRatio        float64
	WeakSpatialSeparation bool
	IsDiffuseExcitation   bool
	FrequencyHzOrOrder    string
	EvidenceMetrics       EvidenceMetrics
	QuickCheckSuggestions []string // reference findings only
}

// RankScore is the cruise-weighted ranking score (spec.md §4.7):
// score = confidence * (0.85 + 0.15*cruise_fraction). sortFindings does
// not use it; findings are ordered by confidence, then key, location,
// and frequency.
func (f Finding) RankScore() float64 {
	if f.ConfidenceValue == nil {
		return 0
	}
	return *f.ConfidenceValue * (0.85 + 0.15*f.PhaseEvidence.CruiseFraction)
}
