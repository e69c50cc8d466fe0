package findings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shakedown/internal/config"
)

func TestApplyAliasSuppressionMonotonicity(t *testing.T) {
	cfg := config.Default()
	wheelConf := 0.60
	engineConf := 0.50
	driveConf := 0.20
	findingsList := []Finding{
		{FindingKey: "wheel_1x", SuspectedSource: "wheel/tire", ConfidenceValue: &wheelConf},
		{FindingKey: "engine_1x", SuspectedSource: "engine", ConfidenceValue: &engineConf},
		{FindingKey: "driveshaft_1x", SuspectedSource: "driveline", ConfidenceValue: &driveConf},
	}
	applyAliasSuppression(findingsList, cfg)

	require.NotNil(t, findingsList[0].ConfidenceValue)
	assert.Equal(t, wheelConf, *findingsList[0].ConfidenceValue, "wheel finding must be untouched")
	assert.Equal(t, engineConf*cfg.SuppressionFactor, *findingsList[1].ConfidenceValue)
	assert.Equal(t, driveConf*cfg.SuppressionFactor, *findingsList[2].ConfidenceValue)
	assert.LessOrEqual(t, *findingsList[1].ConfidenceValue, engineConf, "suppression must never raise a finding's confidence")
	assert.LessOrEqual(t, *findingsList[2].ConfidenceValue, driveConf, "suppression must never raise a finding's confidence")
}

func TestApplyAliasSuppressionNoWheelDominance(t *testing.T) {
	cfg := config.Default()
	wheelConf := 0.30 // below cfg.SuppressionConfidenceMin
	engineConf := 0.20
	findingsList := []Finding{
		{FindingKey: "wheel_1x", SuspectedSource: "wheel/tire", ConfidenceValue: &wheelConf},
		{FindingKey: "engine_1x", SuspectedSource: "engine", ConfidenceValue: &engineConf},
	}
	applyAliasSuppression(findingsList, cfg)
	require.NotNil(t, findingsList[1].ConfidenceValue)
	assert.Equal(t, engineConf, *findingsList[1].ConfidenceValue, "expected no suppression when the strongest wheel finding is below the confidence floor")
}

func TestApplyAliasSuppressionOnlySuppressesStrictlyLower(t *testing.T) {
	cfg := config.Default()
	wheelConf := 0.50
	engineConf := 0.50 // equal, not strictly lower
	findingsList := []Finding{
		{FindingKey: "wheel_1x", SuspectedSource: "wheel/tire", ConfidenceValue: &wheelConf},
		{FindingKey: "engine_1x", SuspectedSource: "engine", ConfidenceValue: &engineConf},
	}
	applyAliasSuppression(findingsList, cfg)
	require.NotNil(t, findingsList[1].ConfidenceValue)
	assert.Equal(t, engineConf, *findingsList[1].ConfidenceValue, "expected no suppression for an engine finding tied with the wheel finding's confidence")
}

func TestSortFindingsOrdering(t *testing.T) {
	c1, c2, c3 := 0.60, 0.60, 0.80
	findingsList := []Finding{
		{FindingKey: "b_key", StrongestLocation: "loc-b", FrequencyHzOrOrder: "10", ConfidenceValue: &c1},
		{FindingKey: "a_key", StrongestLocation: "loc-a", FrequencyHzOrOrder: "20", ConfidenceValue: &c2},
		{FindingKey: "z_key", StrongestLocation: "loc-z", FrequencyHzOrOrder: "5", ConfidenceValue: &c3},
	}
	sortFindings(findingsList)

	var gotOrder []string
	for _, f := range findingsList {
		gotOrder = append(gotOrder, f.FindingKey)
	}
	wantOrder := []string{"z_key", "a_key", "b_key"}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Errorf("finding order mismatch, highest confidence first then finding_key ascending on ties (-want +got):\n%s", diff)
	}
}

func TestSortFindingsReferenceFindingsSortLast(t *testing.T) {
	c := 0.10
	findingsList := []Finding{
		{FindingKey: "REF_SPEED", ConfidenceValue: nil},
		{FindingKey: "transient_impact", ConfidenceValue: &c},
	}
	sortFindings(findingsList)
	assert.Equal(t, "transient_impact", findingsList[0].FindingKey, "expected a confidence-bearing finding to sort ahead of a nil-confidence reference finding")
}
