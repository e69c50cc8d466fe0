package plots

import (
	"sort"

	"github.com/banshee-data/shakedown/internal/config"
	"github.com/banshee-data/shakedown/internal/vibe/sample"
)

// SpectrogramCell is one time-bucket x frequency-bin cell (spec.md §6).
type SpectrogramCell struct {
	TimeBucketS  float64
	FrequencyHz  float64
	AmpG         float64
	PresenceHits int
}

type cellAgg struct {
	ampSum float64
	maxAmp float64
	hits   int
}

// BuildPeaksSpectrogram buckets every sample's top_peaks into
// (time-bucket, frequency-bin) cells, producing both a persistence-weighted
// diagnostic view (with diffuse broadband-noise ticks suppressed) and a raw
// max-amplitude view. A tick is treated as diffuse broadband noise — and
// excluded from the weighted view only — when it contributes peaks across
// at least cfg.SpectrogramDiffuseMinBinsPerTick distinct frequency bins,
// all below cfg.SpectrogramDiffuseMaxAmpG (spec.md §6). The bins are not
// required to be any minimum distance apart; adjacent bins count.
func BuildPeaksSpectrogram(samples []sample.SampleRecord, cfg config.Diagnostics) (weighted, raw []SpectrogramCell) {
	weightedCells := make(map[[2]int]*cellAgg)
	rawCells := make(map[[2]int]*cellAgg)

	for _, s := range samples {
		if s.TS == nil || len(s.TopPeaks) == 0 {
			continue
		}
		tIdx := binIndexF(*s.TS, cfg.SpectrogramTimeBucketS)
		diffuse := isDiffuseBroadbandTick(s, cfg)

		for _, pk := range s.TopPeaks {
			if pk.HzVal <= 0 || pk.AmpVal <= 0 {
				continue
			}
			fIdx := binIndex(pk.HzVal, cfg.FFTBinWidthHz)
			key := [2]int{tIdx, fIdx}

			addToCell(rawCells, key, pk.AmpVal)
			if !diffuse {
				addToCell(weightedCells, key, pk.AmpVal)
			}
		}
	}

	weighted = flattenCells(weightedCells, cfg, true)
	raw = flattenCells(rawCells, cfg, false)
	return weighted, raw
}

func addToCell(cells map[[2]int]*cellAgg, key [2]int, amp float64) {
	agg, ok := cells[key]
	if !ok {
		agg = &cellAgg{}
		cells[key] = agg
	}
	agg.hits++
	agg.ampSum += amp
	if amp > agg.maxAmp {
		agg.maxAmp = amp
	}
}

// isDiffuseBroadbandTick flags a single sample's peak set as broadband
// noise rather than a real excitation: many small-amplitude peaks
// spread across distinct bins in the same tick (bin spacing is not checked).
func isDiffuseBroadbandTick(s sample.SampleRecord, cfg config.Diagnostics) bool {
	distinctBins := make(map[int]bool)
	allBelowFloor := true
	for _, pk := range s.TopPeaks {
		if pk.HzVal <= 0 || pk.AmpVal <= 0 {
			continue
		}
		distinctBins[binIndex(pk.HzVal, cfg.FFTBinWidthHz)] = true
		if pk.AmpVal > cfg.SpectrogramDiffuseMaxAmpG {
			allBelowFloor = false
		}
	}
	return allBelowFloor && len(distinctBins) >= cfg.SpectrogramDiffuseMinBinsPerTick
}

// flattenCells converts the cell-aggregate map into a deterministically
// ordered slice (time asc, then frequency asc). weightedView selects
// mean-amplitude (persistence-weighted); the raw view uses max amplitude.
func flattenCells(cells map[[2]int]*cellAgg, cfg config.Diagnostics, weightedView bool) []SpectrogramCell {
	keys := make([][2]int, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := make([]SpectrogramCell, 0, len(keys))
	for _, k := range keys {
		agg := cells[k]
		amp := agg.maxAmp
		if weightedView {
			amp = agg.ampSum / float64(agg.hits)
		}
		out = append(out, SpectrogramCell{
			TimeBucketS:  float64(k[0]) * cfg.SpectrogramTimeBucketS,
			FrequencyHz:  (float64(k[1]) + 0.5) * cfg.FFTBinWidthHz,
			AmpG:         amp,
			PresenceHits: agg.hits,
		})
	}
	return out
}

func binIndexF(v, width float64) int {
	if width <= 0 {
		width = 1
	}
	return int(v / width)
}
