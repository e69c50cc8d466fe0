package plots

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/phase"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
	"github.com/banshee-data/shakedown/internal/vibe/statx"
)

// PeaksTableRow is one ranked row of the peaks table (spec.md §6).
type PeaksTableRow struct {
	Rank              int
	FrequencyHz       float64
	MaxAmpG           float64
	P95AmpG           float64
	PresenceRatio     float64
	Burstiness        float64
	PersistenceScore  float64
	PeakClassification string
	TypicalSpeedBand  string
}

// BuildPeaksTable ranks every bin by persistence_score =
// p95_amp * presence_ratio / max(burstiness, 1.0) descending (spec.md §6).
func BuildPeaksTable(bins []statx.BinStats, samples []sample.SampleRecord, cfg config.Diagnostics) []PeaksTableRow {
	type scored struct {
		bin   statx.BinStats
		score float64
	}
	scoredBins := make([]scored, 0, len(bins))
	for _, b := range bins {
		denom := b.Burstiness
		if denom < 1.0 {
			denom = 1.0
		}
		score := b.P95AmpG * b.PresenceRatio / denom
		scoredBins = append(scoredBins, scored{bin: b, score: score})
	}
	sort.SliceStable(scoredBins, func(i, j int) bool {
		return scoredBins[i].score > scoredBins[j].score
	})

	rows := make([]PeaksTableRow, 0, len(scoredBins))
	for i, sb := range scoredBins {
		rows = append(rows, PeaksTableRow{
			Rank:               i + 1,
			FrequencyHz:        sb.bin.FrequencyHz,
			MaxAmpG:            sb.bin.MaxAmpG,
			P95AmpG:            sb.bin.P95AmpG,
			PresenceRatio:      sb.bin.PresenceRatio,
			Burstiness:         sb.bin.Burstiness,
			PersistenceScore:   sb.score,
			PeakClassification: string(sb.bin.Classification),
			TypicalSpeedBand:   typicalSpeedBand(sb.bin, samples, cfg),
		})
	}
	return rows
}

func typicalSpeedBand(b statx.BinStats, samples []sample.SampleRecord, cfg config.Diagnostics) string {
	var speeds []float64
	for _, m := range b.Matches {
		if m.SampleIndex < 0 || m.SampleIndex >= len(samples) {
			continue
		}
		if s := samples[m.SampleIndex].SpeedKmh; s != nil {
			speeds = append(speeds, *s)
		}
	}
	if len(speeds) == 0 {
		return "unknown"
	}
	if band, uniform := phase.IsUniformSpeed(speeds, cfg.SpeedBinWidthKmh); uniform {
		return band.Label()
	}
	return phase.BandForSpeed(meanSpeed(speeds), cfg.SpeedBinWidthKmh).Label()
}

func meanSpeed(speeds []float64) float64 {
	var sum float64
	for _, s := range speeds {
		sum += s
	}
	return sum / float64(len(speeds))
}
