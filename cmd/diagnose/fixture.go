package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// runFixture is the on-disk shape a diagnose run is loaded from: a
// metadata object plus a flat array of per-sensor, per-tick records.
// Both halves are decoded as loosely-typed maps so sample.NormalizeMetadata
// and sample.NormalizeSample can apply the same coercion rules they apply
// to any other caller's raw input, matching cmd/sweep's own pattern of
// decoding fixtures into map[string]interface{} ahead of typed use.
type runFixture struct {
	Metadata sample.RawRecord   `json:"metadata"`
	Samples  []sample.RawRecord `json:"samples"`
}

// loadFixture reads a run fixture from path and normalizes it into the
// canonical pipeline input shapes. A missing run_id in the fixture is
// stamped with a fresh UUID rather than rejected, so ad hoc fixtures
// captured without a run_id still diagnose cleanly.
func loadFixture(path string) (sample.RunMetadata, []sample.SampleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sample.RunMetadata{}, nil, fmt.Errorf("reading fixture: %w", err)
	}

	var fixture runFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return sample.RunMetadata{}, nil, fmt.Errorf("parsing fixture: %w", err)
	}

	if fixture.Metadata == nil {
		fixture.Metadata = sample.RawRecord{}
	}
	if _, ok := fixture.Metadata["run_id"]; !ok {
		fixture.Metadata["run_id"] = uuid.NewString()
	}

	meta, err := sample.NormalizeMetadata(fixture.Metadata)
	if err != nil {
		return sample.RunMetadata{}, nil, fmt.Errorf("normalizing run metadata: %w", err)
	}

	samples := make([]sample.SampleRecord, 0, len(fixture.Samples))
	for _, raw := range fixture.Samples {
		samples = append(samples, sample.NormalizeSample(raw))
	}

	return meta, samples, nil
}
