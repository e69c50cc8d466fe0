package summary

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/findings"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

func f64(v float64) *float64 { return &v }

func TestSummarizeEmptyRunFallsBackGracefully(t *testing.T) {
	cfg := config.Default()
	meta := sample.RunMetadata{RunID: "run-empty"}

	out := Summarize(meta, nil, cfg)

	if out.SampleCount != 0 {
		t.Errorf("expected sample_count=0, got %d", out.SampleCount)
	}
	if len(out.TopCauses) != 0 {
		t.Errorf("expected no top causes, got %d", len(out.TopCauses))
	}
	if out.CertaintyTierKey != "A" {
		t.Errorf("expected certainty_tier_key=A for an empty run, got %q", out.CertaintyTierKey)
	}
	if !hasFindingKey(out.Findings, "REF_SAMPLE_RATE") {
		t.Error("expected REF_SAMPLE_RATE in an empty run's findings")
	}
	if !hasFindingKey(out.Findings, "REF_WHEEL") {
		t.Error("expected REF_WHEEL in an empty run's findings")
	}
	if out.ReportDate == "" {
		t.Error("expected a non-empty report date even with no end_time_utc")
	}
}

func TestSummarizeWheelFaultLocalizesToFrontLeft(t *testing.T) {
	cfg := config.Default()
	circumference := 2.036
	finalDrive := 3.9
	gear := 1.0
	meta := sample.RunMetadata{
		RunID:              "run-wheel-fault",
		TireCircumferenceM: &circumference,
		FinalDriveRatio:    &finalDrive,
		CurrentGearRatio:   &gear,
		SensorModel:        "ADXL345",
	}

	speedKmh := 80.0
	wheelHz := (speedKmh / 3.6) / circumference // ~10.9 Hz

	var samples []sample.SampleRecord
	locs := []sample.Location{
		sample.LocationFrontLeftWheel, sample.LocationFrontRightWheel,
		sample.LocationRearLeftWheel, sample.LocationRearRightWheel,
	}
	for i := 0; i < 40; i++ {
		ts := float64(i) * 0.5
		for _, loc := range locs {
			amp := 0.004
			db := 2.0
			if loc == sample.LocationFrontLeftWheel {
				amp = 0.07
				db = 22.0
			}
			samples = append(samples, sample.SampleRecord{
				TS:                  &ts,
				ClientID:            string(loc),
				Location:            loc,
				SpeedKmh:            &speedKmh,
				VibrationStrengthDB: db,
				StrengthFloorAmpG:   f64(0.003),
				TopPeaks:            []sample.Peak{{HzVal: wheelHz, AmpVal: amp}},
			})
		}
	}

	out := Summarize(meta, samples, cfg)

	if len(out.TopCauses) == 0 {
		t.Fatal("expected at least one top cause")
	}
	top := out.TopCauses[0]
	if top.SuspectedSource != "wheel/tire" {
		t.Errorf("expected wheel/tire top cause, got %q", top.SuspectedSource)
	}
	if top.ConfidenceValue == nil || *top.ConfidenceValue < 0.40 {
		t.Errorf("expected confidence >= 0.40, got %v", top.ConfidenceValue)
	}
	if out.MostLikelyOrigin.Source != "wheel/tire" {
		t.Errorf("expected most_likely_origin.source=wheel/tire, got %q", out.MostLikelyOrigin.Source)
	}
}

func TestIsSteadySpeedNarrowBandTriggersWarn(t *testing.T) {
	cfg := config.Default()
	var samples []sample.SampleRecord
	for i := 0; i < 20; i++ {
		speed := 80.0 + float64(i%2) // oscillates 80/81 km/h
		samples = append(samples, sample.SampleRecord{SpeedKmh: &speed})
	}
	if !isSteadySpeed(samples, cfg) {
		t.Error("expected a narrow, near-constant speed run to be flagged steady")
	}
}

func TestIsSteadySpeedWideSweepDoesNotTrigger(t *testing.T) {
	cfg := config.Default()
	var samples []sample.SampleRecord
	for i := 0; i < 20; i++ {
		speed := float64(i) * 10
		samples = append(samples, sample.SampleRecord{SpeedKmh: &speed})
	}
	if isSteadySpeed(samples, cfg) {
		t.Error("expected a wide speed sweep not to be flagged steady")
	}
}

func TestComputeAccelStatisticsSaturationAndMagnitude(t *testing.T) {
	cfg := config.Default()
	meta := sample.RunMetadata{SensorModel: "ADXL345"}
	samples := []sample.SampleRecord{
		{AccelXG: f64(15.9), AccelYG: f64(0.1), AccelZG: f64(1.0)},
		{AccelXG: f64(0.1), AccelYG: f64(0.1)}, // missing Z: excluded from magnitude
	}
	stats := computeAccelStatistics(samples, meta, cfg)
	if stats.X.SaturationCount != 1 {
		t.Errorf("expected 1 saturation event on X, got %d", stats.X.SaturationCount)
	}
	if len(stats.VibMagnitude) != 1 {
		t.Fatalf("expected exactly one magnitude sample (all 3 axes present), got %d", len(stats.VibMagnitude))
	}
	want := math.Sqrt(15.9*15.9 + 0.1*0.1 + 1.0*1.0)
	if math.Abs(stats.VibMagnitude[0]-want) > 1e-9 {
		t.Errorf("expected magnitude %v, got %v", want, stats.VibMagnitude[0])
	}
}

func TestHasFrameIntegrityIssueDetectsDropsAndHandlesReset(t *testing.T) {
	samples := []sample.SampleRecord{
		{ClientID: "s1", FramesDroppedTotal: 0, QueueOverflowDrops: 0},
		{ClientID: "s1", FramesDroppedTotal: 3, QueueOverflowDrops: 0},
		{ClientID: "s1", FramesDroppedTotal: 0, QueueOverflowDrops: 0}, // counter reset
	}
	if !hasFrameIntegrityIssue(samples) {
		t.Error("expected the 0->3 frame-drop jump to flag an integrity issue")
	}

	stable := []sample.SampleRecord{
		{ClientID: "s1", FramesDroppedTotal: 5, QueueOverflowDrops: 2},
		{ClientID: "s1", FramesDroppedTotal: 5, QueueOverflowDrops: 2},
	}
	if hasFrameIntegrityIssue(stable) {
		t.Error("expected unchanging counters not to flag an integrity issue")
	}
}

func TestBuildPhaseTimelineFlagsFaultEvidence(t *testing.T) {
	conf := 0.5
	fs := []findings.Finding{
		{
			ConfidenceValue: &conf,
			PhaseEvidence: findings.PhaseEvidence{
				PhasesDetected: []phase.Phase{phase.PhaseCruise},
			},
		},
	}
	segments := []phase.Segment{
		{Phase: phase.PhaseCruise, StartTS: 0, EndTS: 10},
		{Phase: phase.PhaseIdle, StartTS: 10, EndTS: 12},
	}
	timeline := buildPhaseTimeline(segments, fs)
	if !timeline[0].HasFaultEvidence {
		t.Error("expected the cruise segment to show fault evidence")
	}
	if timeline[1].HasFaultEvidence {
		t.Error("expected the idle segment to show no fault evidence")
	}
}

func TestMostLikelyOriginUsesDisambiguatedLabelWhenWeak(t *testing.T) {
	conf := 0.5
	topCauses := []findings.Finding{
		{
			SuspectedSource:       "wheel/tire",
			StrongestLocation:     string(sample.LocationFrontLeftWheel),
			PrimaryLocation:       string(sample.LocationFrontLeftWheel),
			AlternativeLocations: []string{string(sample.LocationFrontRightWheel)},
			WeakSpatialSeparation: true,
			ConfidenceValue:       &conf,
		},
	}
	origin := mostLikelyOrigin(topCauses)
	want := MostLikelyOrigin{
		Source:                "wheel/tire",
		Location:              string(sample.LocationFrontLeftWheel) + " / " + string(sample.LocationFrontRightWheel),
		Confidence:            &conf,
		WeakSpatialSeparation: true,
		AlternativeLocations:  []string{string(sample.LocationFrontRightWheel)},
	}
	if diff := cmp.Diff(want, origin); diff != "" {
		t.Errorf("most likely origin mismatch (-want +got):\n%s", diff)
	}
}

func hasFindingKey(fs []findings.Finding, key string) bool {
	for _, f := range fs {
		if f.FindingKey == key {
			return true
		}
	}
	return false
}
