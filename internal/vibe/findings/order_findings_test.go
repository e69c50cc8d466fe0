package findings

import (
	"testing"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/order"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

func mkMatches(n int, loc sample.Location, ampG float64) []order.MatchPoint {
	out := make([]order.MatchPoint, n)
	for i := range out {
		out[i] = order.MatchPoint{SampleIndex: i, Location: loc, AmpG: ampG, SpeedKmh: 60, RelError: 0.02}
	}
	return out
}

func TestBuildOrderFindingsGatesOnMatchedCount(t *testing.T) {
	cfg := config.Default()
	below := order.Result{
		Key:                order.Wheel1x,
		Matches:            mkMatches(5, sample.LocationFrontLeftWheel, 0.1),
		Matched:            5,
		PossibleTotal:      10,
		EffectiveMatchRate: 0.5,
		AbsoluteStrengthDB: 20,
	}
	ok := order.Result{
		Key:                order.Wheel2x,
		Matches:            mkMatches(10, sample.LocationFrontLeftWheel, 0.1),
		Matched:            10,
		PossibleTotal:      20,
		EffectiveMatchRate: 0.5,
		AbsoluteStrengthDB: 20,
	}
	found := buildOrderFindings("run-1", []order.Result{below, ok}, nil, 0.01, false, cfg)
	if len(found) != 1 {
		t.Fatalf("expected exactly one finding to pass the matched>=8 gate, got %d", len(found))
	}
	if found[0].FindingKey != string(order.Wheel2x) {
		t.Errorf("expected wheel_2x to pass the gate, got %s", found[0].FindingKey)
	}
}

func TestBuildOrderFindingsDeterministicID(t *testing.T) {
	cfg := config.Default()
	res := order.Result{
		Key:                order.Engine1x,
		Matches:            mkMatches(10, sample.LocationEngineBay, 0.1),
		Matched:            10,
		PossibleTotal:      20,
		EffectiveMatchRate: 0.5,
		AbsoluteStrengthDB: 20,
	}
	a := buildOrderFindings("run-2", []order.Result{res}, nil, 0.01, false, cfg)
	b := buildOrderFindings("run-2", []order.Result{res}, nil, 0.01, false, cfg)
	if len(a) != 1 || len(b) != 1 {
		t.Fatal("expected one finding per call")
	}
	if a[0].FindingID != b[0].FindingID {
		t.Errorf("expected deterministic finding_id across repeated calls, got %s vs %s", a[0].FindingID, b[0].FindingID)
	}
}

func TestBuildOrderFindingsCarriesUndefinedCorrelation(t *testing.T) {
	cfg := config.Default()
	res := order.Result{
		Key:                order.Driveshaft1x,
		Matches:            mkMatches(10, sample.LocationDriveshaftTunnel, 0.1),
		Matched:            10,
		PossibleTotal:      20,
		EffectiveMatchRate: 0.5,
		AbsoluteStrengthDB: 20,
		Corr:               nil,
	}
	found := buildOrderFindings("run-3", []order.Result{res}, nil, 0.01, false, cfg)
	if len(found) != 1 {
		t.Fatalf("expected one finding, got %d", len(found))
	}
	if found[0].EvidenceMetrics.Corr != nil {
		t.Error("expected evidence metrics to carry the undefined (nil) correlation through")
	}
}
