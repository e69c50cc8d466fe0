package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

// writeJSONReport marshals the full AnalysisSummary to path (or stdout
// when path is empty), mirroring cmd/tools/pcap-analyse's --export-json
// flag handling.
func writeJSONReport(out summary.AnalysisSummary, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
